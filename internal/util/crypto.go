package util

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// No 0/O or 1/I so numbers can be read back over the phone.
const certificateNumberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const CertificateNumberLength = 10

// GenerateCertificateNumber returns a short human readable id such as "CE-8F3K2M9QZT".
func GenerateCertificateNumber() (string, error) {
	id, err := gonanoid.Generate(certificateNumberAlphabet, CertificateNumberLength)
	if err != nil {
		return "", err
	}
	return "CE-" + id, nil
}
