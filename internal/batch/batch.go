// Package batch decodes many GIF files concurrently, exporting every frame
// of each to a still-image format. Grounded on internal/tile/generator.go
// in the teacher repo: a worker-pool pulling jobs off a channel, reporting
// progress with progressBar, and accumulating atomic counters — retargeted
// from "render map tiles from COG sources" to "decode GIF files to PNG/WebP
// frame sheets".
package batch

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/loopframe/gifdecode/internal/export"
	"github.com/loopframe/gifdecode/internal/gif"
	"github.com/loopframe/gifdecode/internal/iox"
)

// Config holds batch decode configuration.
type Config struct {
	OutDir      string
	Format      string // "png" or "webp"
	Quality     int    // webp only
	Concurrency int
	Verbose     bool
	DecodeOpts  gif.Options
}

// Stats holds run statistics.
type Stats struct {
	FilesProcessed int64
	FramesWritten  int64
	TotalBytes     int64
	Errors         int64
}

// fileJob is one input file to decode.
type fileJob struct {
	path string
}

// Run decodes every path in paths, exporting each frame under cfg.OutDir.
// Distinct files get distinct *gif.Decoder contexts and scratch buffers
// (spec section 5's single-owner-per-context rule), so workers never share
// decoder state; only the stateless encoder, the canvas buffer pool, and
// the progress counters are shared, and all are concurrency-safe.
func Run(cfg Config, paths []string) (Stats, error) {
	if len(paths) == 0 {
		return Stats{}, fmt.Errorf("no input files")
	}
	enc, err := export.NewEncoder(cfg.Format, cfg.Quality)
	if err != nil {
		return Stats{}, err
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("creating output directory: %w", err)
		}
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	memLimit := ComputeMemoryLimit(DefaultMemoryPressurePercent, cfg.Verbose)
	if memLimit > 0 {
		if perWorker := int64(gif.RequiredScratchSize(cfg.DecodeOpts)); perWorker > 0 {
			if capped := int(memLimit / perWorker); capped < concurrency {
				if capped < 1 {
					capped = 1
				}
				if cfg.Verbose {
					log.Printf("Capping concurrency %d -> %d workers (%.1f MB scratch budget / %.1f KB per worker)",
						concurrency, capped, float64(memLimit)/(1024*1024), float64(perWorker)/1024)
				}
				concurrency = capped
			}
		}
	}

	pb := newProgressBar("Decoding", int64(len(paths)))

	jobs := make(chan fileJob, concurrency*2)
	var wg sync.WaitGroup
	var filesDone, framesDone, totalBytes, errCount atomic.Int64
	errCh := make(chan error, 1)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				n, bytesWritten, err := decodeOneFile(job.path, cfg, enc)
				if err != nil {
					errCount.Add(1)
					log.Printf("decoding %s: %v", job.path, err)
					select {
					case errCh <- fmt.Errorf("decoding %s: %w", job.path, err):
					default:
					}
					pb.Increment()
					continue
				}
				filesDone.Add(1)
				framesDone.Add(int64(n))
				totalBytes.Add(bytesWritten)
				pb.Increment()
			}
		}()
	}

	for _, p := range paths {
		jobs <- fileJob{path: p}
	}
	close(jobs)
	wg.Wait()
	pb.Finish()

	stats := Stats{
		FilesProcessed: filesDone.Load(),
		FramesWritten:  framesDone.Load(),
		TotalBytes:     totalBytes.Load(),
		Errors:         errCount.Load(),
	}
	return stats, nil
}

// decodeOneFile decodes a single GIF file and writes one encoded file per
// frame to cfg.OutDir, named "<base>.frame<NNN><ext>".
func decodeOneFile(path string, cfg Config, enc export.Encoder) (frames int, bytesWritten int64, err error) {
	data, release, err := iox.LoadFile(path)
	if err != nil {
		return 0, 0, err
	}
	defer release()

	scratch := make([]byte, gif.RequiredScratchSize(cfg.DecodeOpts))
	d, err := gif.New(data, scratch, cfg.DecodeOpts)
	if err != nil {
		return 0, 0, err
	}
	defer d.Close()

	w, h := d.Info()
	canvas := getCanvas(w, h)
	defer putCanvas(w, h, canvas)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := 0
	for {
		res, err := d.NextFrame(canvas)
		if err != nil {
			return frames, bytesWritten, err
		}
		if res.Done {
			break
		}
		img := export.CanvasToImage(canvas, w, h)
		encoded, err := enc.Encode(img)
		if err != nil {
			return frames, bytesWritten, fmt.Errorf("encoding frame %d: %w", idx, err)
		}
		outPath := filepath.Join(cfg.OutDir, fmt.Sprintf("%s.frame%03d%s", base, idx, enc.FileExtension()))
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return frames, bytesWritten, fmt.Errorf("writing %s: %w", outPath, err)
		}
		bytesWritten += int64(len(encoded))
		frames++
		idx++
	}
	return frames, bytesWritten, nil
}
