package gif

import "fmt"

// dictionary is the code->string table driving component C4. Both
// representations permitted by section 9 ("Dictionary representation
// choice") implement it identically from runLZW's point of view; New picks
// one based on Options.Dictionary.
type dictionary interface {
	// reset reinitializes the table for a fresh LZW segment (start of frame
	// or a mid-stream CLEAR code): root entries [0,1<<minCodeSize) become
	// single-byte literals, next_code becomes END+1, code_size becomes
	// minCodeSize+1.
	reset(minCodeSize int)
	// width reports the current code_size in bits.
	width() int
	// next reports next_code, the first unused table index.
	next() int
	// expand returns the byte string for code. The returned slice is only
	// valid until the next call to expand or insert on this dictionary.
	expand(code int) ([]byte, error)
	// insert adds a new entry at next_code whose string is
	// prefixExpansion+suffix, chained from prefixCode, then advances
	// next_code and grows width() when it crosses a power of two. The
	// caller must not call insert when next() >= maxDictEntries.
	insert(prefixCode int, prefixExpansion []byte, suffix byte) error
}

func newDictionary(mode DictMode) dictionary {
	if mode == DictFlattened {
		return &flattenedDict{
			offset: make([]int32, maxDictEntries),
			length: make([]int32, maxDictEntries),
			stream: make([]byte, 0, flattenedStreamInitialCap),
		}
	}
	return &linkedDict{
		prefix:     make([]int32, maxDictEntries),
		suffix:     make([]byte, maxDictEntries),
		reverseBuf: make([]byte, maxDictEntries),
	}
}

// linkedDict is the memory-lean representation: each entry is a (prefix
// code, suffix byte) pair, expanded by walking the chain backward into a
// scratch buffer.
type linkedDict struct {
	prefix      []int32 // -1 for root (single-byte) entries
	suffix      []byte
	reverseBuf  []byte
	minCodeSize int
	codeSize    int
	nextCode    int
	nextLim     int
}

func (ld *linkedDict) reset(minCodeSize int) {
	ld.minCodeSize = minCodeSize
	clear := 1 << minCodeSize
	for i := 0; i < clear; i++ {
		ld.prefix[i] = -1
		ld.suffix[i] = byte(i)
	}
	ld.codeSize = minCodeSize + 1
	ld.nextCode = clear + 2 // CLEAR, END reserved; first assignable is END+1
	ld.nextLim = 1 << ld.codeSize
}

func (ld *linkedDict) width() int { return ld.codeSize }
func (ld *linkedDict) next() int  { return ld.nextCode }

func (ld *linkedDict) expand(code int) ([]byte, error) {
	if code < 0 || code >= ld.nextCode {
		return nil, fmt.Errorf("code %d not in dictionary (next=%d)", code, ld.nextCode)
	}
	pos := len(ld.reverseBuf)
	c := code
	for {
		pos--
		if pos < 0 {
			return nil, fmt.Errorf("dictionary chain longer than scratch (%d bytes)", len(ld.reverseBuf))
		}
		ld.reverseBuf[pos] = ld.suffix[c]
		p := ld.prefix[c]
		if p < 0 {
			break
		}
		c = int(p)
	}
	return ld.reverseBuf[pos:], nil
}

// insert ignores prefixExpansion: the linked representation chains by
// index, so only the prefix code itself is stored.
func (ld *linkedDict) insert(prefixCode int, prefixExpansion []byte, suffix byte) error {
	if ld.nextCode >= maxDictEntries {
		return fmt.Errorf("dictionary full")
	}
	ld.prefix[ld.nextCode] = int32(prefixCode)
	ld.suffix[ld.nextCode] = suffix
	ld.nextCode++
	if ld.nextCode == ld.nextLim && ld.codeSize < MaxCodeSize {
		ld.codeSize++
		ld.nextLim <<= 1
	}
	return nil
}

// flattenedDict is the throughput representation: each entry is an
// (offset, length) pair into an append-only stream of already-emitted byte
// strings, expanded with a single contiguous slice (no chain walk).
//
// insert shares backing bytes across entries instead of copying a fresh
// prefix+suffix string for every entry: when prefixCode's own string
// already sits at the current tail of the stream (the common case — a new
// entry's prefix is usually the code the decoder inserted last), the new
// entry just extends that same range by one byte. A run of like-indexed
// pixels that builds N entries then costs the stream O(N) bytes total
// instead of O(N^2); only a prefix that isn't at the tail (a literal, or a genuine
// dictionary branch) pays for its own copy.
type flattenedDict struct {
	offset      []int32
	length      []int32
	stream      []byte
	minCodeSize int
	codeSize    int
	nextCode    int
	nextLim     int
}

func (fd *flattenedDict) reset(minCodeSize int) {
	fd.minCodeSize = minCodeSize
	clear := 1 << minCodeSize
	for i := 0; i < clear; i++ {
		fd.length[i] = 1 // literal entries read straight from the code value, see expand
	}
	fd.codeSize = minCodeSize + 1
	fd.nextCode = clear + 2
	fd.nextLim = 1 << fd.codeSize
	fd.stream = fd.stream[:0]
}

func (fd *flattenedDict) width() int { return fd.codeSize }
func (fd *flattenedDict) next() int  { return fd.nextCode }

func (fd *flattenedDict) expand(code int) ([]byte, error) {
	if code < 0 || code >= fd.nextCode {
		return nil, fmt.Errorf("code %d not in dictionary (next=%d)", code, fd.nextCode)
	}
	if code < 1<<fd.minCodeSize {
		// Root literal: its one-byte string equals the code's own value.
		// literalByte is a package-level [256]byte{0,1,2,...} so expand can
		// return a stable slice without per-call allocation.
		return literalByte[code : code+1], nil
	}
	off := fd.offset[code]
	ln := fd.length[code]
	return fd.stream[off : off+ln], nil
}

// insert ignores prefixCode's expansion bytes when they can be shared (see
// the type doc); otherwise it falls back to copying prefixExpansion plus
// suffix onto the stream's tail, same as a plain append-only arena would.
func (fd *flattenedDict) insert(prefixCode int, prefixExpansion []byte, suffix byte) error {
	if fd.nextCode >= maxDictEntries {
		return fmt.Errorf("dictionary full")
	}
	n := len(prefixExpansion)
	isLiteral := prefixCode < 1<<fd.minCodeSize

	var start int32
	if !isLiteral && int(fd.offset[prefixCode])+int(fd.length[prefixCode]) == len(fd.stream) {
		start = fd.offset[prefixCode]
		fd.stream = append(fd.stream, suffix)
	} else {
		start = int32(len(fd.stream))
		fd.stream = append(fd.stream, prefixExpansion...)
		fd.stream = append(fd.stream, suffix)
	}
	if len(fd.stream) > flattenedStreamMaxSize {
		return fmt.Errorf("flattened dictionary stream exceeds %d bytes (non-conforming input)", flattenedStreamMaxSize)
	}

	fd.offset[fd.nextCode] = start
	fd.length[fd.nextCode] = int32(n + 1)
	fd.nextCode++
	if fd.nextCode == fd.nextLim && fd.codeSize < MaxCodeSize {
		fd.codeSize++
		fd.nextLim <<= 1
	}
	return nil
}

// literalByte[i] == byte(i) for every possible code value; shared so
// flattenedDict.expand never allocates for the common single-byte case.
var literalByte = func() [256]byte {
	var b [256]byte
	for i := range b {
		b[i] = byte(i)
	}
	return b
}()
