package cecert

import (
	"fmt"
	"os"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/sfnt"
)

type FontMetadata struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func getFontMetadataByPath(fontPath string) (*FontMetadata, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	font, err := sfnt.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	name, err := font.Name(nil, sfnt.NameIDFamily)
	if err != nil {
		return nil, fmt.Errorf("retrieving font name: %w", err)
	}

	return &FontMetadata{
		Name: name,
		Path: fontPath,
	}, nil
}

type FontLoader struct {
	Cfg *Config
}

func NewFontLoader(cfg *Config) *FontLoader {
	return &FontLoader{Cfg: cfg}
}

// LoadFont loads the configured font file, or the configured system font when no file is set.
func (fl *FontLoader) LoadFont(fontStyle canvas.FontStyle) (*canvas.FontFamily, error) {
	if fl.Cfg.FontPath != "" {
		meta, err := getFontMetadataByPath(fl.Cfg.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to get font metadata: %w", err)
		}

		fontFamily := canvas.NewFontFamily(meta.Name)
		if err := fontFamily.LoadFontFile(meta.Path, fontStyle); err != nil {
			return nil, fmt.Errorf("failed to load font file: %w", err)
		}
		return fontFamily, nil
	}

	if fl.Cfg.FontName == "" {
		return nil, fmt.Errorf("no font path or font name configured")
	}

	fontFamily := canvas.NewFontFamily(fl.Cfg.FontName)
	if err := fontFamily.LoadSystemFont(fl.Cfg.FontName, fontStyle); err != nil {
		return nil, fmt.Errorf("failed to load system font %s: %w", fl.Cfg.FontName, err)
	}

	return fontFamily, nil
}
