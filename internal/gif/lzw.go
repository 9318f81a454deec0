package gif

import (
	"fmt"

	"github.com/loopframe/gifdecode/internal/interlace"
)

// TraceEvent describes one step of the LZW decode loop, reported to a
// callback installed with SetTrace. It exists for cmd/gifdebug; normal
// decoding never looks at it.
type TraceEvent struct {
	Code     int // the code just pulled off the bitstream
	Width    int // the code width it was read with
	Inserted bool
	NewCode  int // the dictionary code just inserted, if Inserted
}

// SetTrace installs a callback invoked for every code pulled and every
// dictionary insertion during every runLZW call until it is replaced.
// Pass nil to disable.
// Grounded on cmd/debug/main.go's raw-internals dump in the teacher repo,
// which exposes IFD/tile internals the same way for TIFF debugging.
func (d *Decoder) SetTrace(fn func(TraceEvent)) {
	d.traceFn = fn
}

// runLZW drives components C3+C4+C5+C6 for one image block: it pulls codes
// through the bit reader, expands them through the dictionary, and streams
// completed lines through the interlace mapper into the compositor. This is
// the algorithm in section 4.4, transcribed directly.
func (d *Decoder) runLZW(canvas []byte) error {
	clear := 1 << d.minCodeSize
	end := clear + 1

	d.dict.reset(d.minCodeSize)
	d.resetBits()
	mapper := interlace.New(d.frameH, d.interlace)

	line := d.line[:0]
	totalPixels := 0
	wantPixels := d.frameW * d.frameH

	emit := func(bytes []byte) error {
		for len(bytes) > 0 {
			room := d.frameW - len(line)
			n := room
			if n > len(bytes) {
				n = len(bytes)
			}
			line = append(line, bytes[:n]...)
			bytes = bytes[n:]
			if len(line) == d.frameW {
				y, ok := mapper.Next()
				if !ok {
					return d.fail(Decode, "runLZW", fmt.Errorf("interlace mapping exhausted before frame height reached"))
				}
				if err := d.compositeLine(canvas, line, y); err != nil {
					return err
				}
				totalPixels += len(line)
				line = line[:0]
			}
		}
		return nil
	}

	var prevCode int

decodeLoop:
	for {
		width := d.dict.width()
		code, err := d.pullCode(width)
		if err != nil {
			return err
		}
		if d.traceFn != nil {
			d.traceFn(TraceEvent{Code: code, Width: width})
		}
		if code == clear {
			continue decodeLoop
		}
		if code == end {
			break decodeLoop
		}
		if code >= d.dict.next() {
			return d.fail(Decode, "runLZW", fmt.Errorf("first code %d of segment not yet in dictionary (next=%d)", code, d.dict.next()))
		}
		exp, eerr := d.dict.expand(code)
		if eerr != nil {
			return d.fail(Decode, "runLZW", eerr)
		}
		if err := emit(exp); err != nil {
			return err
		}
		prevCode = code

		for {
			width := d.dict.width()
			code, err = d.pullCode(width)
			if err != nil {
				return err
			}
			if d.traceFn != nil {
				d.traceFn(TraceEvent{Code: code, Width: width})
			}
			if code == clear {
				d.dict.reset(d.minCodeSize)
				continue decodeLoop
			}
			if code == end {
				break decodeLoop
			}

			next := d.dict.next()
			var out []byte
			switch {
			case code < next:
				exp, eerr := d.dict.expand(code)
				if eerr != nil {
					return d.fail(Decode, "runLZW", eerr)
				}
				out = exp
			case code == next:
				prevExp, eerr := d.dict.expand(prevCode)
				if eerr != nil {
					return d.fail(Decode, "runLZW", eerr)
				}
				if len(prevExp)+1 > len(d.kwkwkBuf) {
					return d.fail(Decode, "runLZW", fmt.Errorf("dictionary entry exceeds scratch (%d bytes)", len(d.kwkwkBuf)))
				}
				n := copy(d.kwkwkBuf, prevExp)
				d.kwkwkBuf[n] = prevExp[0]
				out = d.kwkwkBuf[:n+1]
			default:
				return d.fail(Decode, "runLZW", fmt.Errorf("invalid code %d (next=%d)", code, next))
			}

			if err := emit(out); err != nil {
				return err
			}
			suffix := out[0]

			if next < maxDictEntries {
				prevExp, eerr := d.dict.expand(prevCode)
				if eerr != nil {
					return d.fail(Decode, "runLZW", eerr)
				}
				if err := d.dict.insert(prevCode, prevExp, suffix); err != nil {
					return d.fail(Decode, "runLZW", err)
				}
				if d.traceFn != nil {
					d.traceFn(TraceEvent{Code: code, Width: width, Inserted: true, NewCode: next})
				}
			}
			prevCode = code
		}
	}

	if totalPixels != wantPixels || len(line) != 0 {
		return d.fail(Decode, "runLZW", fmt.Errorf("produced %d pixels, want %d", totalPixels, wantPixels))
	}
	return nil
}
