package cecert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() CertificateData {
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC)
	return CertificateData{
		CertificateNumber: "CE-8F3K2M9QZT",
		UniversityName:    "Northfield University",
		PreceptorName:     "Pat Preceptor",
		RotationTitle:     "Family Medicine Rotation",
		ContactHours:      12.5,
		StartDate:         &start,
		EndDate:           &end,
		IssuedAt:          time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
		SignerName:        "Dana Whitfield",
		SignerTitle:       "Director of Clinical Education",
		VerifyURL:         "https://rotationhub.test/ce/verify/5b0c6c1e-3f0e-4d43-9a55-0d7f0c1a2b3c",
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{12.5, "12.5"},
		{0.25, "0.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.in))
	}
}

func TestFormatDateRange(t *testing.T) {
	d := testData()
	assert.Equal(t, "January 5, 2026 - February 27, 2026", formatDateRange(d.StartDate, d.EndDate))
	assert.Equal(t, "Starting January 5, 2026", formatDateRange(d.StartDate, nil))
	assert.Equal(t, "", formatDateRange(nil, nil))
}

func TestLayout(t *testing.T) {
	lines := layout(testData())

	var all []string
	for _, l := range lines {
		all = append(all, l.text)
	}
	joined := strings.Join(all, "\n")

	for _, want := range []string{"Northfield University", "Pat Preceptor", "12.5 contact hours", "Family Medicine Rotation", "CE-8F3K2M9QZT", "Dana Whitfield", "/ce/verify/"} {
		assert.Contains(t, joined, want)
	}

	// lines are laid out top to bottom inside the page
	for i := 1; i < len(lines); i++ {
		assert.Greater(t, lines[i].y, lines[i-1].y)
		assert.Less(t, lines[i].y, PageHeightMM)
	}

	noDates := testData()
	noDates.StartDate, noDates.EndDate = nil, nil
	assert.Len(t, layout(noDates), len(lines)-1)
}

func TestGenerateQRCode(t *testing.T) {
	out := filepath.Join(t.TempDir(), "qr.png")
	require.NoError(t, GenerateQRCode(testData().VerifyURL, out, qrSizePx))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderer_Render(t *testing.T) {
	cfg := &Config{
		FontPath: os.Getenv("CE_FONT_PATH"),
		FontName: "DejaVu Sans",
		TmpDir:   t.TempDir(),
	}
	r, err := NewRenderer(cfg)
	if err != nil {
		t.Skipf("no usable font on this machine: %v", err)
	}

	out := filepath.Join(t.TempDir(), "cert.pdf")
	require.NoError(t, r.Render(testData(), out))

	pages, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF"))
}
