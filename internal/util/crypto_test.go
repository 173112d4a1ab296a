package util

import (
	"strings"
	"testing"
)

func TestGenerateCertificateNumber(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		got, err := GenerateCertificateNumber()
		if err != nil {
			t.Fatalf("GenerateCertificateNumber() error = %v", err)
		}
		if !strings.HasPrefix(got, "CE-") || len(got) != 3+CertificateNumberLength {
			t.Errorf("GenerateCertificateNumber() got = %v, want CE- followed by %d chars", got, CertificateNumberLength)
		}
		if strings.ContainsAny(got[3:], "01IO") {
			t.Errorf("GenerateCertificateNumber() got = %v, contains ambiguous characters", got)
		}
		if seen[got] {
			t.Errorf("GenerateCertificateNumber() returned duplicate %v", got)
		}
		seen[got] = true
	}
}
