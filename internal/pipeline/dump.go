package pipeline

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"vobscribe/internal/segment"
)

// dumpImages writes every rendered line image to dir as
// "<event>-<line>.png", for eyeballing what the engine actually sees.
func dumpImages(dir string, prepared []segment.Prepared) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure dump directory: %w", err)
	}
	for _, p := range prepared {
		for line, img := range p.Images {
			name := filepath.Join(dir, fmt.Sprintf("%06d-%02d.png", p.Index, line))
			if err := writePNG(name, img); err != nil {
				return err
			}
		}
	}
	return nil
}

func writePNG(name string, img *image.Gray) error {
	file, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create dump file %s: %w", name, err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("write dump file %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close dump file %s: %w", name, err)
	}
	return nil
}
