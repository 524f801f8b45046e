package imageio

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Registers the WebP decoder with image.Decode
)

// Load decodes an image file. PNG, JPEG, GIF, BMP, TIFF and WebP are understood.
// EXIF orientation is applied so the pixel order matches what a viewer shows.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode image '%s': %w", path, err)
	}
	return img, nil
}
