package batch

import (
	"log"
	"runtime"
)

// DefaultMemoryPressurePercent is the fraction of total RAM Run is allowed
// to commit to per-worker decode scratch buffers at once.
const DefaultMemoryPressurePercent = 0.90

// ComputeMemoryLimit returns the maximum bytes Run should commit to
// per-worker decode scratch buffers before it caps concurrency down from
// cfg.Concurrency (see Run). It takes a fraction (e.g. 0.90 for 90%) of
// total system RAM and subtracts the current Go heap overhead to give
// headroom for the canvas pool, the export encoders, and the rest of the
// process.
//
// This bounds scratch usage only, not canvas memory: a decode scratch
// buffer's size is fixed by Options (RequiredScratchSize), but a frame's
// height is open-ended by the format — only width is bounded, by
// Options.MaxWidth — so the canvas pool (canvaspool.go) cannot be sized
// against this limit the way a tile store can be capped against disk
// spilling. Run throttles the one per-worker cost this limit can actually
// see.
//
// Grounded on internal/tile/memlimit.go's ComputeMemoryLimit in the teacher
// repo, retargeted from "tile store spilling to disk" (no analogue here —
// a GIF canvas pool never spills) to "cap worker concurrency by scratch
// buffer budget".
//
// Returns 0 if RAM detection fails or the computed limit is unreasonably
// small.
func ComputeMemoryLimit(fraction float64, verbose bool) int64 {
	totalRAM, err := totalSystemRAM()
	if err != nil {
		if verbose {
			log.Printf("Cannot detect system RAM: %v; worker concurrency left uncapped", err)
		}
		return 0
	}

	if verbose {
		log.Printf("System RAM: %.1f GB", float64(totalRAM)/(1024*1024*1024))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	overhead := m.Sys + 256*1024*1024 // current usage + 256 MB headroom

	limit := int64(float64(totalRAM)*fraction) - int64(overhead)
	if limit < 16*1024*1024 { // minimum 16 MB
		if verbose {
			log.Printf("Computed memory limit too small (%.1f MB); worker concurrency left uncapped",
				float64(limit)/(1024*1024))
		}
		return 0
	}

	if verbose {
		log.Printf("Decode scratch memory limit: %.1f MB (%.0f%% of RAM minus %.1f MB overhead)",
			float64(limit)/(1024*1024), fraction*100, float64(overhead)/(1024*1024))
	}

	return limit
}
