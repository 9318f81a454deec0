package export

import (
	"bytes"
	"image/png"
	"testing"
)

func TestCanvasToImageAt(t *testing.T) {
	canvas := []byte{
		10, 20, 30, 40, 50, 60,
		70, 80, 90, 100, 110, 120,
	}
	img := CanvasToImage(canvas, 2, 2)

	r, g, b, a := img.At(1, 0).RGBA()
	if r>>8 != 40 || g>>8 != 50 || b>>8 != 60 || a>>8 != 255 {
		t.Fatalf("At(1,0) = %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}

	r, _, _, a = img.At(5, 5).RGBA()
	if r != 0 || a != 0 {
		t.Fatalf("out-of-bounds At should be zero value, got r=%d a=%d", r, a)
	}
}

func TestPNGEncoderRoundTrip(t *testing.T) {
	canvas := []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 255, 255, 255}
	img := CanvasToImage(canvas, 2, 2)

	enc := &PNGEncoder{}
	out, err := enc.Encode(img)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("png.Decode of our own output: %v", err)
	}
	if decoded.Bounds().Dx() != 2 || decoded.Bounds().Dy() != 2 {
		t.Fatalf("decoded bounds = %v", decoded.Bounds())
	}
	if enc.Format() != "png" || enc.FileExtension() != ".png" {
		t.Fatalf("unexpected Format/FileExtension: %s %s", enc.Format(), enc.FileExtension())
	}
}

func TestNewEncoderUnsupportedFormat(t *testing.T) {
	if _, err := NewEncoder("tiff", 0); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewEncoderPNGAndWebP(t *testing.T) {
	if e, err := NewEncoder("png", 0); err != nil || e.Format() != "png" {
		t.Fatalf("png: %v %v", e, err)
	}
	e, err := NewEncoder("webp", 0)
	if err != nil {
		t.Fatalf("webp: %v", err)
	}
	if e.Format() != "webp" || e.FileExtension() != ".webp" {
		t.Fatalf("unexpected webp encoder: %+v", e)
	}
}
