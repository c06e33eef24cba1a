package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log"

	"github.com/disintegration/imaging"
)

const (
	// Carousel thumbnails are shown in a 300px card
	maxSizeThumb = 300
	qualityThumb = 60
)

// ScaleToFit shrinks img so that neither side exceeds maxDim, keeping the aspect ratio.
// Images already small enough are returned unchanged.
func ScaleToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDim
		newHeight = int(float64(height) * float64(maxDim) / float64(width))
	} else {
		newHeight = maxDim
		newWidth = int(float64(width) * float64(maxDim) / float64(height))
	}

	log.Printf("🔄 Resizing image: %dx%d -> %dx%d", width, height, newWidth, newHeight)
	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}

// Thumbnail encodes a carousel-sized JPEG of img
func Thumbnail(img image.Image) ([]byte, error) {
	resized := ScaleToFit(img, maxSizeThumb)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: qualityThumb}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
