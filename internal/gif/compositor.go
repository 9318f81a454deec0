package gif

import "fmt"

// compositeLine applies palette lookup, transparency, and disposal to one
// decoded line of pixel indices, writing it into the caller's canvas
// (component C6). yInFrame is the frame-relative row Next returned by the
// interlace mapper; it never allocates.
func (d *Decoder) compositeLine(canvas []byte, line []byte, yInFrame int) error {
	canvasY := d.frameY + yInFrame
	if canvasY < 0 || canvasY >= d.canvasH {
		return d.fail(Decode, "compositeLine", fmt.Errorf("row %d outside canvas height %d", canvasY, d.canvasH))
	}
	rowBase := canvasY * d.canvasW * 3

	for x, idx := range line {
		cx := d.frameX + x
		if cx < 0 || cx >= d.canvasW {
			return d.fail(Decode, "compositeLine", fmt.Errorf("column %d outside canvas width %d", cx, d.canvasW))
		}
		off := rowBase + cx*3

		if d.transparent && idx == d.transparentIdx {
			switch d.disposal {
			case 2:
				// Restore-to-background: write the background color in
				// place of the transparent pixel (section 4.6).
				bg := d.backgroundColor()
				canvas[off], canvas[off+1], canvas[off+2] = bg[0], bg[1], bg[2]
			case 3:
				// Restore-to-previous (section 9's open question):
				// write back whatever was at this pixel before this
				// frame started drawing, from the snapshot decodeImage
				// captured.
				if d.havePrevSnapshot && off+2 < len(d.prevSnapshot) {
					canvas[off] = d.prevSnapshot[off]
					canvas[off+1] = d.prevSnapshot[off+1]
					canvas[off+2] = d.prevSnapshot[off+2]
				}
			default:
				// Methods 0 and 1: leave whatever is already there.
			}
			continue
		}

		p := int(idx) * 3
		if p+2 >= len(d.activePalette) {
			// Deliberately stricter than gif.h: the C original reads
			// palette+idx*3 unchecked, so a short color table referenced by
			// an out-of-range opaque index is undefined behavior there but
			// rejected here.
			return d.fail(Decode, "compositeLine", fmt.Errorf("palette index %d out of range (%d colors)", idx, len(d.activePalette)/3))
		}
		canvas[off] = d.activePalette[p]
		canvas[off+1] = d.activePalette[p+1]
		canvas[off+2] = d.activePalette[p+2]
	}
	return nil
}

// backgroundColor is always looked up in the global palette: bgIndex is a
// logical-screen-level field (section 3), never meaningful against a
// frame's local table.
func (d *Decoder) backgroundColor() [3]byte {
	p := int(d.bgIndex) * 3
	if p+2 >= len(d.globalPalette) {
		return [3]byte{}
	}
	return [3]byte{d.globalPalette[p], d.globalPalette[p+1], d.globalPalette[p+2]}
}
