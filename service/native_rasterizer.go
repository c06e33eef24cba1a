package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"strings"

	"meme-generator/models"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	captionFontSize   = 20
	captionLineHeight = 28
)

var (
	placeholderColor = color.NRGBA{R: 0xcb, G: 0xd5, B: 0xe1, A: 0xff}
	captionColor     = color.Black
)

var captionFont = func() *opentype.Font {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("failed to parse caption font: %v", err))
	}
	return f
}()

// NativeRasterizer composes scenes in Go without a browser
// Implements Rasterizer
type NativeRasterizer struct {
	images *ImageFetcher
}

// Ensure NativeRasterizer implements Rasterizer
var _ Rasterizer = (*NativeRasterizer)(nil)

// NewNativeRasterizer creates a new NativeRasterizer
func NewNativeRasterizer(images *ImageFetcher) *NativeRasterizer {
	return &NativeRasterizer{images: images}
}

// Rasterize draws the template filling the display box and the caption at its offset.
// A template image that fails to load is replaced by a flat placeholder.
func (r *NativeRasterizer) Rasterize(ctx context.Context, scene models.Scene) ([]byte, error) {
	if scene.Width <= 0 || scene.Height <= 0 {
		return nil, fmt.Errorf("invalid scene size %dx%d", scene.Width, scene.Height)
	}

	var canvas *image.NRGBA
	img, err := r.images.Fetch(ctx, scene.Template.URL)
	if err != nil {
		var loadErr *ImageLoadError
		if !errors.As(err, &loadErr) {
			return nil, err
		}
		log.Printf("⚠️  Rasterize: using placeholder for template %s: %v", scene.Template.ID, err)
		canvas = imaging.New(scene.Width, scene.Height, placeholderColor)
	} else {
		canvas = imaging.Fill(img, scene.Width, scene.Height, imaging.Center, imaging.Lanczos)
	}

	if err := drawCaption(canvas, scene.Caption, scene.Offset); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCaption renders text the way the live scene lays it out:
// bold 20px on 28px lines, wrapped to the box width, shifted by offset.
func drawCaption(dst *image.NRGBA, text string, offset models.Offset) error {
	face, err := opentype.NewFace(captionFont, &opentype.FaceOptions{
		Size:    captionFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create caption face: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	halfLeading := (fixed.I(captionLineHeight) - metrics.Ascent - metrics.Descent) / 2

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(captionColor),
		Face: face,
	}

	x := fixed.Int26_6(offset.X * 64)
	top := fixed.Int26_6(offset.Y * 64)
	lines := wrapCaption(drawer, text, fixed.I(dst.Bounds().Dx()))
	for i, line := range lines {
		drawer.Dot = fixed.Point26_6{
			X: x,
			Y: top + fixed.I(i*captionLineHeight) + halfLeading + metrics.Ascent,
		}
		drawer.DrawString(line)
	}
	return nil
}

// wrapCaption splits text on newlines and wraps each paragraph greedily at maxWidth
func wrapCaption(d *font.Drawer, text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Split(paragraph, " ")
		line := ""
		for i, word := range words {
			if i == 0 {
				line = word
				continue
			}
			candidate := line + " " + word
			if d.MeasureString(candidate) > maxWidth && line != "" {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
