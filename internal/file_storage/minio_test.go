package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		fuo  *FileUploadOptions
		want string
	}{
		{"no options", "CE-1.pdf", nil, "CE-1.pdf"},
		{"directory", "CE-1.pdf", &FileUploadOptions{DirectoryPath: "ce-certificates/u1"}, "ce-certificates/u1/CE-1.pdf"},
		{"empty options", "CE-1.pdf", &FileUploadOptions{}, "CE-1.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prepareFileName(tt.in, tt.fuo))
		})
	}

	unique := prepareFileName("CE-1.pdf", &FileUploadOptions{DirectoryPath: "d", UniquePrefix: true})
	assert.True(t, strings.HasPrefix(unique, "d/"))
	assert.True(t, strings.HasSuffix(unique, "_CE-1.pdf"))
}

func TestDetectContentType(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "cert.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7"), 0o644))
	ct, err := detectContentType(pdf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)

	noExt := filepath.Join(dir, "cert")
	require.NoError(t, os.WriteFile(noExt, []byte("%PDF-1.7\n"), 0o644))
	ct, err = detectContentType(noExt)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", ct)
}

func TestCeCertificateDirectoryPath(t *testing.T) {
	assert.Equal(t, "ce-certificates/u1", GetCeCertificateDirectoryPath("u1"))
}
