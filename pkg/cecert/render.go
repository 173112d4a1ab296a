package cecert

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
)

// A4 landscape, tdewolff/canvas works in mm
const (
	PageWidthMM  = 297.0
	PageHeightMM = 210.0
	marginMM     = 14.0
	qrSizePx     = 96
)

// CertificateData is what ends up printed on a CE certificate.
type CertificateData struct {
	CertificateNumber string
	UniversityName    string
	PreceptorName     string
	RotationTitle     string
	ContactHours      float64
	StartDate         *time.Time
	EndDate           *time.Time
	IssuedAt          time.Time
	SignerName        string
	SignerTitle       string
	VerifyURL         string
}

type line struct {
	text  string
	size  float64
	color string
	// distance from the top of the page
	y float64
}

func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}

func formatDateRange(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return formatDate(start) + " - " + formatDate(end)
	case start != nil:
		return "Starting " + formatDate(start)
	case end != nil:
		return "Ending " + formatDate(end)
	default:
		return ""
	}
}

func layout(data CertificateData) []line {
	lines := []line{
		{text: data.UniversityName, size: 26, color: "#1F3A5F", y: 30},
		{text: "Certificate of Continuing Education", size: 34, color: "#1F3A5F", y: 52},
		{text: "This certifies that", size: 14, color: "#444444", y: 74},
		{text: data.PreceptorName, size: 30, color: "#111111", y: 92},
		{text: "has been awarded " + FormatHours(data.ContactHours) + " contact hours for precepting", size: 14, color: "#444444", y: 110},
		{text: data.RotationTitle, size: 18, color: "#111111", y: 124},
	}

	if dates := formatDateRange(data.StartDate, data.EndDate); dates != "" {
		lines = append(lines, line{text: dates, size: 12, color: "#444444", y: 136})
	}

	lines = append(lines,
		line{text: data.SignerName, size: 14, color: "#111111", y: 162},
		line{text: data.SignerTitle, size: 11, color: "#444444", y: 170},
		line{text: "Certificate No. " + data.CertificateNumber + "   Issued " + formatDate(&data.IssuedAt), size: 9, color: "#666666", y: 186},
		line{text: "Verify at " + data.VerifyURL, size: 9, color: "#666666", y: 192},
	)

	return lines
}

type Renderer struct {
	cfg        *Config
	fontFamily *canvas.FontFamily
}

func NewRenderer(cfg *Config) (*Renderer, error) {
	fontFamily, err := NewFontLoader(cfg).LoadFont(canvas.FontRegular)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.TmpDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tmp directory: %w", err)
	}

	return &Renderer{cfg: cfg, fontFamily: fontFamily}, nil
}

func (r *Renderer) drawPage(data CertificateData, output string) error {
	c := canvas.New(PageWidthMM, PageHeightMM)
	ctx := canvas.NewContext(c)
	// Change coordination from bottom-left to top-left
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Hex("#1F3A5F"))
	ctx.SetStrokeWidth(1.2)
	ctx.DrawPath(marginMM/2, marginMM/2, canvas.Rectangle(PageWidthMM-marginMM, PageHeightMM-marginMM))

	for _, l := range layout(data) {
		if l.text == "" {
			continue
		}

		face := r.fontFamily.Face(l.size, canvas.Hex(l.color), canvas.FontRegular, canvas.FontNormal)
		rt := canvas.NewRichText(face)
		rt.WriteString(l.text)

		textBox := rt.ToText(PageWidthMM-2*marginMM, 0, canvas.Center, canvas.Top, 0.0, 0.0)
		ctx.DrawText(marginMM, l.y, textBox)
	}

	if err := renderers.Write(output, c); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

// Render writes a one page certificate to outFile with a QR code of the verification url.
func (r *Renderer) Render(data CertificateData, outFile string) error {
	tmpPage, err := os.CreateTemp(r.cfg.TmpDir, "cecert_page_*.pdf")
	if err != nil {
		return err
	}
	tmpPage.Close()
	defer os.Remove(tmpPage.Name())

	if err := r.drawPage(data, tmpPage.Name()); err != nil {
		return err
	}

	tmpQr, err := os.CreateTemp(r.cfg.TmpDir, "cecert_qr_*.png")
	if err != nil {
		return err
	}
	tmpQr.Close()
	defer os.Remove(tmpQr.Name())

	if err := GenerateQRCode(data.VerifyURL, tmpQr.Name(), qrSizePx); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0755); err != nil {
		return err
	}

	if err := EmbedQRCodeToPdf(tmpPage.Name(), outFile, tmpQr.Name(), nil); err != nil {
		return err
	}

	pages, err := PageCount(outFile)
	if err != nil {
		return fmt.Errorf("failed to read rendered certificate: %w", err)
	}
	if pages != 1 {
		return fmt.Errorf("rendered certificate has %d pages, expected 1", pages)
	}

	return nil
}
