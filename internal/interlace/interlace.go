// Package interlace implements component C5, translating (pass, line-in-pass)
// addresses to frame-relative row numbers for GIF's four-pass interlacing.
package interlace

// starts and strides are the four interlace passes in traversal order:
// every 8th row starting at 0, every 8th starting at 4, every 4th starting
// at 2, every 2nd starting at 1.
var starts = [4]int{0, 4, 2, 1}
var strides = [4]int{8, 8, 4, 2}

// Mapper produces the sequence of frame-relative row numbers a decoder
// should write successive decoded lines to. For a non-interlaced frame it
// is the identity sequence 0,1,2,...
type Mapper struct {
	height      int
	interlaced  bool
	pass        int
	lineInPass  int
	plainLine   int
}

// New returns a Mapper for a frame of the given height.
func New(height int, interlaced bool) *Mapper {
	return &Mapper{height: height, interlaced: interlaced}
}

// Next returns the next frame-relative row to draw. ok is false once all
// height rows have been returned (every pass is exhausted); asking for
// more rows than that is something a caller should treat as a malformed stream (section 4.5: "A mapping that
// yields y_draw >= frame_height after all passes signals Decode").
func (m *Mapper) Next() (y int, ok bool) {
	if !m.interlaced {
		y = m.plainLine
		m.plainLine++
		return y, y < m.height
	}

	for m.pass < 4 {
		y = starts[m.pass] + m.lineInPass*strides[m.pass]
		if y >= m.height {
			m.pass++
			m.lineInPass = 0
			continue
		}
		m.lineInPass++
		return y, true
	}
	return 0, false
}
