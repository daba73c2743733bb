// Package screenshot writes rendered images to timestamped PNG files.
package screenshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Layout is the time layout of screenshot file names, down to milliseconds.
const Layout = "20060102.150405.000"

// Prefix starts every screenshot file name.
const Prefix = "mandelspiral.screenshot."

// Dir saves screenshots into a directory.
type Dir struct {
	Path string

	// Now defaults to time.Now; file names use its UTC value.
	Now func() time.Time
}

// Name returns the file name for a screenshot taken at t.
func Name(t time.Time) string {
	return Prefix + t.UTC().Format(Layout) + ".png"
}

// Save encodes img as a PNG and returns the path written.
func (d Dir) Save(img image.Image) (string, error) {
	now := d.Now
	if now == nil {
		now = time.Now
	}

	err := os.MkdirAll(d.Path, os.ModePerm)
	if err != nil {
		return "", err
	}

	path := filepath.Join(d.Path, Name(now()))
	if err := Write(path, img); err != nil {
		return "", err
	}

	return path, nil
}

// Write encodes img as a PNG at path.
func Write(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(f, img)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return f.Close()
}
