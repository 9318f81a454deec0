// Package export encodes decoded GIF frames (canvas bytes turned into
// image.Image) to still-image formats on disk. Grounded on
// internal/encode/encoder.go's Encoder interface in the teacher repo.
package export

import (
	"fmt"
	"image"
	"image/color"
)

// Encoder encodes an image into file bytes.
type Encoder interface {
	// Encode encodes an image to bytes in the target format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "png", "webp").
	Format() string

	// FileExtension returns the appropriate file extension, including the dot.
	FileExtension() string
}

// NewEncoder creates an encoder for the given format and quality. Quality is
// only meaningful for "webp"; it is ignored for "png".
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "png":
		return &PNGEncoder{}, nil
	case "webp":
		return newWebPEncoder(quality)
	default:
		return nil, fmt.Errorf("unsupported export format: %q (supported: png, webp)", format)
	}
}

// CanvasToImage wraps a decoder's raw RGB canvas (the [R,G,B, R,G,B, ...]
// layout NextFrame fills) in an image.Image without copying pixel data.
func CanvasToImage(canvas []byte, width, height int) image.Image {
	return &rgbImage{pix: canvas, w: width, h: height}
}

// rgbImage adapts a tightly packed 3-byte-per-pixel RGB buffer to
// image.Image; the decoder never produces an alpha channel (transparency is
// always resolved to a concrete color by compositeLine), so every pixel is
// opaque.
type rgbImage struct {
	pix  []byte
	w, h int
}

func (m *rgbImage) ColorModel() color.Model { return color.RGBAModel }

func (m *rgbImage) Bounds() image.Rectangle { return image.Rect(0, 0, m.w, m.h) }

func (m *rgbImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return color.RGBA{}
	}
	off := (y*m.w + x) * 3
	return color.RGBA{R: m.pix[off], G: m.pix[off+1], B: m.pix[off+2], A: 0xff}
}
