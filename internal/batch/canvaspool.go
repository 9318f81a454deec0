package batch

import "sync"

// canvasPoolKey identifies a pool by canvas dimensions.
type canvasPoolKey struct {
	w, h int
}

// canvasPools maps (width, height) → *sync.Pool of canvas []byte buffers.
// Grounded on internal/tile/rgbapool.go's GetRGBA/PutRGBA in the teacher
// repo, retargeted from *image.RGBA (4 bytes/pixel with alpha) to the
// decoder's raw 3-byte-per-pixel RGB canvas layout.
var canvasPools sync.Map

// getCanvas returns a zeroed canvas buffer of w*h*3 bytes from the pool, or
// allocates a new one.
func getCanvas(w, h int) []byte {
	key := canvasPoolKey{w, h}
	if p, ok := canvasPools.Load(key); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			buf := v.([]byte)
			clear(buf)
			return buf
		}
	}
	return make([]byte, w*h*3)
}

// putCanvas returns a canvas buffer to the pool for reuse by a later file
// of the same dimensions.
func putCanvas(w, h int, buf []byte) {
	if buf == nil {
		return
	}
	key := canvasPoolKey{w, h}
	p, _ := canvasPools.LoadOrStore(key, &sync.Pool{})
	p.(*sync.Pool).Put(buf)
}
