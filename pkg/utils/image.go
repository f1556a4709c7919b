package utils

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// SaveImage writes img to filename as a PNG, appending the
// extension when it is missing.
func SaveImage(img image.Image, filename string) error {
	// does file have a .png extension?
	if filepath.Ext(filename) != ".png" {
		filename += ".png"
	}

	// save the image
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	// TODO add more formats
	return png.Encode(file, img)
}
