package gif

import "fmt"

// Configuration constants from the container format itself.
const (
	// DefaultMaxWidth bounds canvas/frame width (section 6: "MAX_WIDTH").
	DefaultMaxWidth = 480
	// MaxColors rejects palettes larger than this (section 6: "MAX_COLORS").
	MaxColors = 256
	// MaxCodeSize is the widest LZW code this decoder ever reads.
	MaxCodeSize = 12

	maxDictEntries = 1 << MaxCodeSize // 4096
)

// subBlockBufSize is sized at least 6 sub-blocks (6*255 bytes) plus 4 bytes
// of tail padding so the bit reader's 32-bit-accumulator overread (see
// bitreader.go) never walks off the end of the buffer.
const subBlockBufSize = 6*255 + 4

// DictMode selects the LZW dictionary's internal representation (section 9,
// "Dictionary representation choice").
type DictMode int

const (
	// DictLinked stores each entry as a (prefix code, suffix byte) pair and
	// expands by walking the prefix chain into a reversal buffer. Favors
	// memory footprint.
	DictLinked DictMode = iota
	// DictFlattened stores each entry as an (offset, length) pair into an
	// append-only byte arena and expands with a single contiguous copy.
	// Favors throughput at the cost of the arena's extra scratch.
	DictFlattened
)

func (m DictMode) String() string {
	if m == DictFlattened {
		return "flattened"
	}
	return "linked"
}

// ParseDictMode converts a string to a DictMode, for CLI flags and config.
func ParseDictMode(s string) (DictMode, error) {
	switch s {
	case "linked", "":
		return DictLinked, nil
	case "flattened":
		return DictFlattened, nil
	default:
		return 0, fmt.Errorf("unknown dictionary mode %q (supported: linked, flattened)", s)
	}
}

// flattenedStreamInitialCap seeds the flattened dictionary's backing
// stream (see dict.go); it grows by append as a segment needs more, so
// this is a sizing hint rather than a hard limit.
const flattenedStreamInitialCap = 1 << 12 // 4 KiB

// flattenedStreamMaxSize guards the flattened dictionary's backing stream
// against unbounded growth from a non-conforming stream. A conforming GIF
// LZW encoder stays far below it regardless of frame size or run length;
// see the tail-sharing note on flattenedDict.insert in dict.go.
const flattenedStreamMaxSize = 8 << 20 // 8 MiB

// Options configures a Decoder.
type Options struct {
	// MaxWidth bounds canvas and frame width (the line buffer is sized
	// against it); height is not bounded. Zero selects DefaultMaxWidth.
	MaxWidth int
	// MaxColors rejects global/local color tables larger than this many
	// entries. Zero selects MaxColors (256).
	MaxColors int
	// Dictionary selects the LZW dictionary representation. Zero value is
	// DictLinked.
	Dictionary DictMode
}

func (o Options) maxWidth() int {
	if o.MaxWidth <= 0 {
		return DefaultMaxWidth
	}
	return o.MaxWidth
}

func (o Options) maxColors() int {
	if o.MaxColors <= 0 {
		return MaxColors
	}
	return o.MaxColors
}

// RequiredScratchSize reports the scratch buffer size New requires for the
// given Options, letting a caller size its buffer up front instead of
// discovering the requirement via a failed New call's BufferTooSmall error.
// New partitions only the first subBlockBufSize+MaxWidth bytes; the
// dictionary-dependent remainder is reserved but unused, since New
// allocates the dictionary tables separately.
func RequiredScratchSize(opts Options) int {
	size := subBlockBufSize + opts.maxWidth()
	switch opts.Dictionary {
	case DictFlattened:
		size += maxDictEntries*8 + flattenedStreamInitialCap // reserve: (offset,length) int32 pairs + stream seed
	default:
		size += maxDictEntries*3 + maxDictEntries // reserve: 3 bytes per entry + reversal buffer
	}
	return size
}
