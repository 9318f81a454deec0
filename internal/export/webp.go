package export

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/webp"
)

// WebPEncoder encodes frames as WebP using gen2brain/webp, a pure-Go/WASM
// libwebp (no cgo, no system library). This repo calls the dependency its
// go.mod actually declares, unlike internal/encode/webp.go in the teacher
// repo, which linked system libwebp through cgo despite the module
// requiring gen2brain/webp.
type WebPEncoder struct {
	Quality  int
	Lossless bool
}

func newWebPEncoder(quality int) (Encoder, error) {
	if quality <= 0 {
		quality = 85
	}
	return &WebPEncoder{Quality: quality}, nil
}

func (e *WebPEncoder) Encode(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("webp: empty image")
	}
	var buf bytes.Buffer
	opts := webp.Options{Quality: float32(e.Quality), Lossless: e.Lossless}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, fmt.Errorf("webp: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *WebPEncoder) Format() string        { return "webp" }
func (e *WebPEncoder) FileExtension() string { return ".webp" }

// DecodeWebP decodes WebP image bytes, for completeness with the teacher's
// decode.go symmetry (Encode/Decode pair) — gifbatch never calls this, but
// it is here so a future comparison tool can round-trip exported frames.
func DecodeWebP(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("webp: empty data")
	}
	return webp.Decode(bytes.NewReader(data))
}
