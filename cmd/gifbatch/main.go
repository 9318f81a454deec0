// Command gifbatch decodes many GIF files concurrently, writing each
// frame of each file out as PNG or WebP. Grounded on
// cmd/geotiff2pmtiles/main.go's flag-based CLI in the teacher repo.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/loopframe/gifdecode/internal/batch"
	"github.com/loopframe/gifdecode/internal/gif"
)

func main() {
	var (
		format      string
		quality     int
		outDir      string
		concurrency int
		dictMode    string
		verbose     bool
	)
	flag.StringVar(&format, "format", "png", "Output encoding: png, webp")
	flag.IntVar(&quality, "quality", 85, "WebP quality 1-100 (ignored for png)")
	flag.StringVar(&outDir, "out", "frames", "Output directory")
	flag.IntVar(&concurrency, "concurrency", runtime.NumCPU(), "Number of parallel workers")
	flag.StringVar(&dictMode, "dict", "linked", "LZW dictionary representation: linked, flattened")
	flag.BoolVar(&verbose, "verbose", false, "Verbose progress output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gifbatch [flags] <input.gif...>\n\n")
		fmt.Fprintf(os.Stderr, "Decode many GIF files concurrently to individual frame images.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	dict, err := gif.ParseDictMode(dictMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := batch.Config{
		OutDir:      outDir,
		Format:      format,
		Quality:     quality,
		Concurrency: concurrency,
		Verbose:     verbose,
		DecodeOpts:  gif.Options{Dictionary: dict},
	}

	stats, err := batch.Run(cfg, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d file(s), %d frame(s), %d byte(s) written, %d error(s)\n",
		stats.FilesProcessed, stats.FramesWritten, stats.TotalBytes, stats.Errors)
	if stats.Errors > 0 {
		os.Exit(1)
	}
}
