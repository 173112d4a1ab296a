package cecert

import (
	"fmt"
	"os"
)

type Config struct {
	// Path to a .ttf or .otf file. Empty means FontName is looked up on the system.
	FontPath string
	// Font family looked up on the system when FontPath is empty
	FontName string
	// Directory where the temporary files are stored during rendering, they are deleted after processing
	TmpDir string
}

func NewDefaultConfig(fontPath, fontName string) *Config {
	cfg := Config{
		FontPath: fontPath,
		FontName: fontName,
		TmpDir:   fmt.Sprintf("%s/cecert/render/tmp", os.TempDir()),
	}

	// 0755 mean owner can read, write and execute
	if err := os.MkdirAll(cfg.TmpDir, 0755); err != nil {
		fmt.Printf("Error creating tmp directory: %v\n", err)
	}

	return &cfg
}
