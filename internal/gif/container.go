// Package gif decodes GIF87a/GIF89a animated images one frame at a time
// into a caller-owned RGB canvas. New allocates the dictionary tables up
// front; after that, decoding allocates only to grow the flattened
// dictionary's stream past its initial capacity and to hold the canvas
// snapshot that disposal method 3 needs. Input is read only from the slice
// it was given.
package gif

import "fmt"

// Stats counts, per kind, the extensions the container driver read without
// rendering (one count per extension, not per sub-block), per section 4 "Supplemented features: comment and
// plain text extension byte accounting".
type Stats struct {
	Comments    int
	PlainText   int
	Unknown     int
	Application int
}

// FrameResult is returned by NextFrame. Done true with a nil error means
// the animation has finished (the abstract surface's 0 case); Done false
// means a frame was produced and DelayMS holds its display delay.
type FrameResult struct {
	Done    bool
	DelayMS int
}

// Decoder is the Decoder Context from section 3: a long-lived state record
// driven by New, Info, NextFrame, Rewind, and Close. A Decoder is single-
// owner; concurrent calls on the same value are undefined behavior, same
// as the abstract spec's reentrancy rule.
type Decoder struct {
	opts Options

	input []byte
	pos   int

	// Sub-block assembler + bit reader state (C2/C3), touched directly by
	// stream.go, subblock.go, and bitreader.go.
	buf        []byte
	bufFill    int
	bitByte    int
	endOfFrame bool
	bitAcc     uint32
	bitCount   int

	dict     dictionary
	kwkwkBuf []byte
	line     []byte

	canvasW, canvasH int
	bgIndex          byte
	globalPalette    []byte
	localPalette     []byte
	activePalette    []byte
	firstFrameOffset int

	frameX, frameY, frameW, frameH int
	interlace                      bool
	minCodeSize                    int

	disposal       int
	transparent    bool
	transparentIdx byte
	delayMS        int

	prevSnapshot     []byte
	havePrevSnapshot bool

	loopConfigured int
	loopRemaining  int
	finished       bool

	stats   Stats
	errCB   func(Kind, string)
	traceFn func(TraceEvent)
}

// New parses the GIF header and logical screen descriptor, partitions
// scratch for the LZW runtime, and returns a ready Decoder positioned at
// the first block after the logical screen descriptor.
func New(input, scratch []byte, opts Options) (*Decoder, error) {
	d := &Decoder{}

	if len(input) == 0 {
		return nil, d.fail(InvalidParam, "New", fmt.Errorf("input is empty"))
	}
	if scratch == nil {
		return nil, d.fail(InvalidParam, "New", fmt.Errorf("scratch is nil"))
	}
	required := RequiredScratchSize(opts)
	if len(scratch) < required {
		return nil, d.fail(BufferTooSmall, "New", fmt.Errorf("need %d byte(s), have %d", required, len(scratch)))
	}

	d.opts = opts
	maxW := opts.maxWidth()
	d.buf = scratch[:subBlockBufSize]
	d.line = scratch[subBlockBufSize : subBlockBufSize+maxW][:0]
	d.dict = newDictionary(opts.Dictionary)
	d.kwkwkBuf = make([]byte, maxDictEntries)
	d.globalPalette = make([]byte, 0, opts.maxColors()*3)
	d.localPalette = make([]byte, 0, opts.maxColors()*3)

	d.input = input
	d.pos = 0

	sig, err := d.readN(6)
	if err != nil {
		return nil, err
	}
	if string(sig) != "GIF87a" && string(sig) != "GIF89a" {
		return nil, d.fail(BadFile, "New", fmt.Errorf("bad signature %q", sig))
	}

	width, err := d.readU16LE()
	if err != nil {
		return nil, err
	}
	height, err := d.readU16LE()
	if err != nil {
		return nil, err
	}
	packed, err := d.readByte()
	if err != nil {
		return nil, err
	}
	bgIndex, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if _, err := d.readByte(); err != nil { // pixel aspect ratio, unused
		return nil, err
	}

	if width == 0 || height == 0 {
		return nil, d.fail(InvalidFrameDimensions, "New", fmt.Errorf("zero-sized canvas %dx%d", width, height))
	}
	if int(width) > maxW {
		return nil, d.fail(InvalidFrameDimensions, "New", fmt.Errorf("canvas width %d exceeds MaxWidth %d", width, maxW))
	}
	d.canvasW = int(width)
	d.canvasH = int(height)
	d.bgIndex = bgIndex

	if packed&0x80 != 0 {
		gct, err := d.readColorTable(colorTableSize(packed))
		if err != nil {
			return nil, err
		}
		d.globalPalette = append(d.globalPalette, gct...)
	}
	d.activePalette = d.globalPalette

	d.firstFrameOffset = d.pos
	// Without a NETSCAPE loop-count extension the animation plays once.
	d.loopConfigured = 0
	d.loopRemaining = 0

	return d, nil
}

// Info reports the logical screen (canvas) dimensions.
func (d *Decoder) Info() (width, height int) {
	return d.canvasW, d.canvasH
}

// SetErrorCallback installs fn to receive a formatted message alongside
// every Kind this Decoder reports, including non-fatal warnings. A nil fn
// (the default) makes error reporting silent beyond the returned error.
func (d *Decoder) SetErrorCallback(fn func(Kind, string)) {
	d.errCB = fn
}

// Stats reports how many extensions of each kind this Decoder has read
// without rendering so far.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Close zeroizes the Decoder's own fields. The input and scratch slices it
// was given remain owned by the caller and are not modified.
func (d *Decoder) Close() {
	*d = Decoder{}
}

// Rewind idempotently resets animation position, LZW stream state, and the
// configured loop budget back to what New (or the most recent NETSCAPE
// loop-count extension) established.
func (d *Decoder) Rewind() error {
	d.rewindPosition()
	d.loopRemaining = d.loopConfigured
	return nil
}

// rewindPosition resets everything Rewind does except the loop budget; it
// is also used internally when a trailer triggers an in-animation loop,
// which must keep decrementing loopRemaining rather than restoring it.
func (d *Decoder) rewindPosition() {
	d.pos = d.firstFrameOffset
	d.finished = false
	d.resetBits()
	d.havePrevSnapshot = false
	d.disposal = 0
	d.transparent = false
	d.transparentIdx = 0
	d.delayMS = 0
	d.activePalette = d.globalPalette
}

// NextFrame advances to and decodes the next image block, compositing it
// into canvas (which must be at least canvas_w*canvas_h*3 bytes and, for
// every call after the first, the same buffer previously passed so that
// disposal-based compositing builds on what is already drawn there).
func (d *Decoder) NextFrame(canvas []byte) (FrameResult, error) {
	if d.finished {
		return FrameResult{Done: true}, nil
	}
	need := d.canvasW * d.canvasH * 3
	if len(canvas) < need {
		return FrameResult{}, d.fail(InvalidParam, "NextFrame", fmt.Errorf("canvas too small: need %d byte(s), have %d", need, len(canvas)))
	}

	// A graphic control extension binds to the next image descriptor only
	// (section 4.7); successive images without one inherit disposal 0 and
	// no transparency.
	d.disposal = 0
	d.transparent = false
	d.transparentIdx = 0
	d.delayMS = 0

	for {
		b, err := d.readByte()
		if err != nil {
			return FrameResult{}, err
		}
		switch b {
		case 0x3B:
			if d.loopRemaining != 0 {
				if d.loopRemaining > 0 {
					d.loopRemaining--
				}
				d.rewindPosition()
				continue
			}
			d.finished = true
			return FrameResult{Done: true}, nil

		case 0x21:
			if err := d.parseExtension(); err != nil {
				return FrameResult{}, err
			}

		case 0x2C:
			return d.decodeImage(canvas)

		default:
			return FrameResult{}, d.fail(BadFile, "NextFrame", fmt.Errorf("unexpected block introducer 0x%02X", b))
		}
	}
}

// decodeImage handles the 0x2C image descriptor: frame rectangle, optional
// local color table, min-code-size byte, then the LZW sub-block stream.
func (d *Decoder) decodeImage(canvas []byte) (FrameResult, error) {
	xoff, err := d.readU16LE()
	if err != nil {
		return FrameResult{}, err
	}
	yoff, err := d.readU16LE()
	if err != nil {
		return FrameResult{}, err
	}
	w, err := d.readU16LE()
	if err != nil {
		return FrameResult{}, err
	}
	h, err := d.readU16LE()
	if err != nil {
		return FrameResult{}, err
	}
	packed, err := d.readByte()
	if err != nil {
		return FrameResult{}, err
	}

	d.frameX, d.frameY, d.frameW, d.frameH = int(xoff), int(yoff), int(w), int(h)
	d.interlace = packed&0x40 != 0

	if d.frameW <= 0 || d.frameH <= 0 {
		return FrameResult{}, d.fail(InvalidFrameDimensions, "decodeImage", fmt.Errorf("zero-sized frame %dx%d", d.frameW, d.frameH))
	}
	if d.frameW > d.opts.maxWidth() {
		return FrameResult{}, d.fail(InvalidFrameDimensions, "decodeImage", fmt.Errorf("frame width %d exceeds MaxWidth %d", d.frameW, d.opts.maxWidth()))
	}
	if d.frameX+d.frameW > d.canvasW || d.frameY+d.frameH > d.canvasH {
		return FrameResult{}, d.fail(InvalidFrameDimensions, "decodeImage", fmt.Errorf("frame rect (%d,%d)+(%d,%d) exceeds canvas %dx%d", d.frameX, d.frameY, d.frameW, d.frameH, d.canvasW, d.canvasH))
	}

	if packed&0x80 != 0 {
		lct, err := d.readColorTable(colorTableSize(packed))
		if err != nil {
			return FrameResult{}, err
		}
		d.localPalette = append(d.localPalette[:0], lct...)
		d.activePalette = d.localPalette
	} else {
		d.activePalette = d.globalPalette
	}

	minCodeByte, err := d.readByte()
	if err != nil {
		return FrameResult{}, err
	}
	if minCodeByte < 2 || minCodeByte > 8 {
		return FrameResult{}, d.fail(UnsupportedColorDepth, "decodeImage", fmt.Errorf("min code size %d out of range", minCodeByte))
	}
	d.minCodeSize = int(minCodeByte)

	if d.disposal == 3 {
		if len(d.prevSnapshot) != len(canvas) {
			d.prevSnapshot = make([]byte, len(canvas))
		}
		copy(d.prevSnapshot, canvas)
		d.havePrevSnapshot = true
	}

	if err := d.runLZW(canvas); err != nil {
		return FrameResult{}, err
	}

	return FrameResult{Done: false, DelayMS: d.delayMS}, nil
}

// parseExtension reads the 0x21-introduced extension's label and routes to
// the handler for graphic control (0xF9) or application (0xFF) extensions;
// everything else is discarded sub-block by sub-block.
func (d *Decoder) parseExtension() error {
	label, err := d.readByte()
	if err != nil {
		return err
	}
	switch label {
	case 0xF9:
		return d.parseGraphicControl()
	case 0xFF:
		return d.parseApplication()
	default:
		return d.discardExtension(label)
	}
}

func (d *Decoder) parseGraphicControl() error {
	blockSize, err := d.readByte()
	if err != nil {
		return err
	}
	data, err := d.readN(int(blockSize))
	if err != nil {
		return err
	}
	if len(data) < 4 {
		return d.fail(BadFile, "parseGraphicControl", fmt.Errorf("block size %d too short", blockSize))
	}
	packed := data[0]
	delayRaw := int(data[1]) | int(data[2])<<8
	disposal := int(packed>>2) & 0x07
	if disposal > 3 {
		disposal = 0 // reserved values fall back to "unspecified"
	}
	d.disposal = disposal
	d.transparent = packed&0x01 != 0
	d.transparentIdx = data[3]
	d.delayMS = delayRaw * 10

	terminator, err := d.readByte()
	if err != nil {
		return err
	}
	if terminator != 0 {
		return d.fail(BadFile, "parseGraphicControl", fmt.Errorf("missing block terminator"))
	}
	return nil
}

func (d *Decoder) parseApplication() error {
	d.stats.Application++
	blockSize, err := d.readByte()
	if err != nil {
		return err
	}
	appID, err := d.readN(int(blockSize))
	if err != nil {
		return err
	}
	isNetscape := string(appID) == "NETSCAPE2.0" || string(appID) == "ANIMEXTS1.0"

	for {
		n, err := d.readByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		sub, err := d.readN(int(n))
		if err != nil {
			return err
		}
		if isNetscape && n == 3 && sub[0] == 0x01 {
			raw := int(sub[1]) | int(sub[2])<<8
			configured := raw
			if raw == 0 {
				configured = -1
			}
			// The extension is read again after every trailer-driven
			// rewind; only a changed value resets the remaining budget,
			// so repeats keep draining across automatic loops.
			if configured != d.loopConfigured {
				d.loopConfigured = configured
				d.loopRemaining = configured
			}
		}
	}
}

// discardExtension consumes an unrendered extension's sub-blocks (comment
// 0xFE, plain text 0x01, or anything else), counting what kind it saw.
func (d *Decoder) discardExtension(label byte) error {
	switch label {
	case 0xFE:
		d.stats.Comments++
	case 0x01:
		d.stats.PlainText++
	default:
		d.stats.Unknown++
	}
	d.warn("discardExtension", fmt.Sprintf("discarding extension label 0x%02X", label))

	for {
		n, err := d.readByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := d.readN(int(n)); err != nil {
			return err
		}
	}
}

// FrameCount does a read-only pre-scan of image descriptors from the first
// frame to the trailer (or input end), without running LZW decode, then
// restores the Stream Reader's cursor. ok is always true in this
// implementation: every sub-block is length-prefixed, so cheap skipping is
// always possible; the bool is kept for forward compatibility rather than
// assuming that will remain true of every future input variant.
func (d *Decoder) FrameCount() (int, bool) {
	saved := d.pos
	defer func() { d.pos = saved }()

	d.pos = d.firstFrameOffset
	count := 0
	for {
		b, err := d.readByte()
		if err != nil {
			return count, true
		}
		switch b {
		case 0x3B:
			return count, true
		case 0x21:
			if _, err := d.readByte(); err != nil { // label
				return count, true
			}
			if err := d.skipSubBlocks(); err != nil {
				return count, true
			}
		case 0x2C:
			if err := d.skipImageForScan(); err != nil {
				return count, true
			}
			count++
		default:
			return count, true
		}
	}
}

// skipSubBlocks discards a length-prefixed sub-block sequence without
// interpreting its contents; every extension body (graphic control,
// application, comment, plain text) has this shape.
func (d *Decoder) skipSubBlocks() error {
	for {
		n, err := d.readByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := d.readN(int(n)); err != nil {
			return err
		}
	}
}

func (d *Decoder) skipImageForScan() error {
	if _, err := d.readN(8); err != nil { // xoff,yoff,w,h
		return err
	}
	packed, err := d.readByte()
	if err != nil {
		return err
	}
	if packed&0x80 != 0 {
		if _, err := d.readN(colorTableSize(packed) * 3); err != nil {
			return err
		}
	}
	if _, err := d.readByte(); err != nil { // min code size
		return err
	}
	return d.skipSubBlocks()
}
