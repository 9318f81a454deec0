// Package iox loads whole files into memory for the gif decoder's
// caller-provided-buffer contract (spec section 1: "the caller provides a
// memory buffer"). Grounded on internal/cog/mmap_unix.go / mmap_other.go in
// the teacher repo, which memory-maps GeoTIFF files the same way.
package iox

import (
	"fmt"
	"os"
)

// LoadFile returns the full contents of path as a byte slice, along with a
// release function the caller must invoke once done with the data. On unix
// platforms the file is memory-mapped read-only; elsewhere, or when mapping
// fails, it is read into a heap buffer and release is a no-op.
func LoadFile(path string) (data []byte, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err = mmapFile(f.Fd(), int(size))
	if err != nil {
		// Fall back to a plain read rather than failing outright; mmap can
		// be refused on some filesystems (e.g. network mounts) even on unix.
		buf, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, rerr)
		}
		return buf, func() error { return nil }, nil
	}
	return data, func() error { return munmapFile(data) }, nil
}
