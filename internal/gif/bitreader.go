package gif

// Variable-width code extraction (component C3). GIF packs LZW codes
// least-significant-bit first, unlike TIFF's MSB-first packing in the
// teacher's cog/lzw.go — the widest code is 12 bits, so a 32-bit
// accumulator topped up one byte at a time until it holds at least width
// bits (at most 2 fresh bytes per code) always has enough headroom.

// pullCode reads the next LZW code of the given width (3..MaxCodeSize bits)
// from the sub-block stream, refilling from d.buf as needed.
func (d *Decoder) pullCode(width int) (int, error) {
	for d.bitCount < width {
		if err := d.refill(); err != nil {
			return 0, err
		}
		if d.bitByte >= d.bufFill {
			if d.endOfFrame {
				return 0, d.fail(Decode, "pullCode", errShortInput(width, d.bitCount))
			}
			return 0, d.fail(EarlyEof, "pullCode", errShortInput(width, d.bitCount))
		}
		d.bitAcc |= uint32(d.buf[d.bitByte]) << uint(d.bitCount)
		d.bitByte++
		d.bitCount += 8
	}

	code := int(d.bitAcc & ((1 << uint(width)) - 1))
	d.bitAcc >>= uint(width)
	d.bitCount -= width
	return code, nil
}

// resetBits clears the accumulator and sub-block assembler state at the
// start of a new image's LZW stream (a fresh sub-block sequence starts
// byte-aligned with nothing buffered from any previous image).
func (d *Decoder) resetBits() {
	d.bitAcc = 0
	d.bitCount = 0
	d.bufFill = 0
	d.bitByte = 0
	d.endOfFrame = false
}
