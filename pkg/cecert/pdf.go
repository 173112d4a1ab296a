package cecert

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Apply qr code to the bottom right corner of a PDF file
// if array of selected pages is provided, will apply to those pages
// otherwise apply to all pages
func EmbedQRCodeToPdf(inFile, outFile, qrCodePath string, selectedPages []string) error {
	// offset moves the code off the page border, pdfcpu y grows upwards
	description := "pos: br, off: -24 24, scale: 1 abs, rotation: 0"
	err := api.AddImageWatermarksFile(inFile, outFile, selectedPages, true, qrCodePath, description, nil)
	if err != nil {
		return fmt.Errorf("failed to embed QR code in PDF: %w", err)
	}
	return nil
}

func PageCount(file string) (int, error) {
	return api.PageCountFile(file)
}
