package gif

import "bytes"

// Shared GIF-stream construction helpers for the scenario and property
// tests below. Rather than hand-deriving LZW bitstream bytes (easy to get
// subtly wrong and impossible to check without running a decoder),
// encodeLiteralLZW writes each pixel index as its own literal code,
// mirroring runLZW's own code-width growth schedule exactly. A literal
// code is always numerically below next_code, so this is always a valid
// stream for any pixel sequence: it never depends on matching runs.

type frameSpec struct {
	x, y, w, h     int
	interlace      bool
	localPalette   []byte
	minCodeSize    int
	indices        []byte
	hasGCE         bool
	disposal       int
	transparent    bool
	transparentIdx byte
	delayMS        int
	compress       bool // use encodeLZW (real back-references) instead of encodeLiteralLZW
}

func writeU16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}

func sizeCodeFor(n int) byte {
	code := 0
	for (1 << uint(code+1)) < n {
		code++
	}
	return byte(code)
}

func subBlocksOf(data []byte) []byte {
	var out []byte
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	out = append(out, 0)
	return out
}

type bitWriter struct {
	bits  []byte
	acc   uint32
	nbits uint
}

func (w *bitWriter) writeCode(code, width int) {
	w.acc |= uint32(code) << w.nbits
	w.nbits += uint(width)
	for w.nbits >= 8 {
		w.bits = append(w.bits, byte(w.acc))
		w.acc >>= 8
		w.nbits -= 8
	}
}

func (w *bitWriter) flush() []byte {
	if w.nbits > 0 {
		w.bits = append(w.bits, byte(w.acc))
		w.acc, w.nbits = 0, 0
	}
	return w.bits
}

// encodeLiteralLZW produces the LZW code stream (not yet sub-block-wrapped)
// for indices, using only literal (single-pixel) codes. It mirrors
// runLZW's dictionary growth schedule so the code width it writes with
// always matches the width the decoder will read with.
func encodeLiteralLZW(minCodeSize int, indices []byte) []byte {
	clear := 1 << minCodeSize
	end := clear + 1
	codeSize := minCodeSize + 1
	nextCode := end + 1
	nextLim := 1 << codeSize

	w := &bitWriter{}
	w.writeCode(clear, codeSize)
	for i, idx := range indices {
		w.writeCode(int(idx), codeSize)
		if i == 0 {
			// runLZW never inserts on the first code of a segment.
			continue
		}
		nextCode++
		if nextCode == nextLim && codeSize < MaxCodeSize {
			codeSize++
			nextLim <<= 1
		}
	}
	w.writeCode(end, codeSize)
	return w.flush()
}

// encodeLZW is a real compressing LZW encoder: it builds the same
// (prefix code, suffix byte) -> code table a conforming GIF encoder would
// and only emits a code when no existing table entry extends the current
// match, so its output exercises runLZW's multi-byte dictionary-match
// branch and, for inputs with the right repetition, the KwKwK
// self-referential case — unlike encodeLiteralLZW above, which never
// does either.
//
// Code-width growth needs one more bit of care than encodeLiteralLZW's:
// a decoder only learns that a new table entry exists once it has read
// the code *after* the one that completed the match (it needs that next
// code's leading byte to supply the new entry's suffix), while an
// encoder with lookahead learns it immediately, one code earlier. So the
// point in the table's growth where next_code reaches the current width
// limit lands on different code positions for the two sides; deferring
// the encoder's own width bump by two written codes re-aligns them (see
// deferBump below).
func encodeLZW(minCodeSize int, indices []byte) []byte {
	clear := 1 << minCodeSize
	end := clear + 1
	codeSize := minCodeSize + 1
	nextCode := end + 1
	nextLim := 1 << codeSize
	deferBump := 0

	type key struct {
		prefix int
		suffix byte
	}
	table := make(map[key]int)

	w := &bitWriter{}
	w.writeCode(clear, codeSize)

	write := func(code int) {
		if deferBump > 0 {
			deferBump--
			if deferBump == 0 {
				codeSize++
				nextLim <<= 1
			}
		}
		w.writeCode(code, codeSize)
	}

	if len(indices) == 0 {
		write(end)
		return w.flush()
	}

	prefix := int(indices[0])
	for _, suffix := range indices[1:] {
		k := key{prefix, suffix}
		if code, ok := table[k]; ok {
			prefix = code
			continue
		}
		write(prefix)
		if nextCode < maxDictEntries {
			table[k] = nextCode
			nextCode++
			if nextCode == nextLim && codeSize < MaxCodeSize {
				deferBump = 2
			}
		} else {
			// A conforming encoder resets the table once it's full rather
			// than growing past MaxCodeSize; mirror that here.
			write(clear)
			table = make(map[key]int)
			codeSize = minCodeSize + 1
			nextCode = end + 1
			nextLim = 1 << codeSize
			deferBump = 0
		}
		prefix = int(suffix)
	}
	write(prefix)
	write(end)
	return w.flush()
}

// buildGIF assembles a complete GIF87a/89a byte stream from a screen
// descriptor and a sequence of image blocks, optionally preceded by a
// NETSCAPE loop-count application extension.
func buildGIF(canvasW, canvasH int, globalPalette []byte, bgIndex byte, loopCount *int, frames []frameSpec) []byte {
	var buf bytes.Buffer
	buf.WriteString("GIF89a")
	writeU16(&buf, uint16(canvasW))
	writeU16(&buf, uint16(canvasH))

	packed := byte(0)
	if len(globalPalette) > 0 {
		packed = 0x80 | sizeCodeFor(len(globalPalette)/3)
	}
	buf.WriteByte(packed)
	buf.WriteByte(bgIndex)
	buf.WriteByte(0) // pixel aspect ratio
	buf.Write(globalPalette)

	if loopCount != nil {
		buf.WriteByte(0x21)
		buf.WriteByte(0xFF)
		buf.WriteByte(11)
		buf.WriteString("NETSCAPE2.0")
		buf.WriteByte(3)
		buf.WriteByte(1)
		writeU16(&buf, uint16(*loopCount))
		buf.WriteByte(0)
	}

	for _, f := range frames {
		if f.hasGCE {
			buf.WriteByte(0x21)
			buf.WriteByte(0xF9)
			buf.WriteByte(4)
			p := byte(f.disposal << 2)
			if f.transparent {
				p |= 0x01
			}
			buf.WriteByte(p)
			writeU16(&buf, uint16(f.delayMS/10))
			buf.WriteByte(f.transparentIdx)
			buf.WriteByte(0)
		}

		buf.WriteByte(0x2C)
		writeU16(&buf, uint16(f.x))
		writeU16(&buf, uint16(f.y))
		writeU16(&buf, uint16(f.w))
		writeU16(&buf, uint16(f.h))

		ip := byte(0)
		if f.interlace {
			ip |= 0x40
		}
		if len(f.localPalette) > 0 {
			ip |= 0x80 | sizeCodeFor(len(f.localPalette)/3)
		}
		buf.WriteByte(ip)
		buf.Write(f.localPalette)

		buf.WriteByte(byte(f.minCodeSize))
		encode := encodeLiteralLZW
		if f.compress {
			encode = encodeLZW
		}
		buf.Write(subBlocksOf(encode(f.minCodeSize, f.indices)))
	}

	buf.WriteByte(0x3B)
	return buf.Bytes()
}

var blackWhitePalette = []byte{0, 0, 0, 255, 255, 255}

func decodeAll(t interface {
	Fatalf(format string, args ...any)
}, input []byte, opts Options) (*Decoder, [][]byte, []FrameResult) {
	scratch := make([]byte, RequiredScratchSize(opts))
	d, err := New(input, scratch, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w, h := d.Info()
	canvas := make([]byte, w*h*3)
	var canvases [][]byte
	var results []FrameResult
	for {
		res, err := d.NextFrame(canvas)
		if err != nil {
			t.Fatalf("NextFrame: %v", err)
		}
		if res.Done {
			results = append(results, res)
			break
		}
		snapshot := append([]byte(nil), canvas...)
		canvases = append(canvases, snapshot)
		results = append(results, res)
	}
	return d, canvases, results
}
