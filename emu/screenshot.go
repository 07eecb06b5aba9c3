package emu

import (
	"image"
	"image/png"
	"os"
)

// SaveAsPNG writes img as a PNG file at path.
func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
