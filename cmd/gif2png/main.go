// Command gif2png decodes every frame of a single GIF file and writes each
// one to disk as PNG or WebP. Grounded on cmd/geotiff2pmtiles/main.go's
// flag-based CLI shape in the teacher repo, trimmed to the single-file case
// (cmd/gifbatch covers the concurrent multi-file case).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loopframe/gifdecode/internal/export"
	"github.com/loopframe/gifdecode/internal/gif"
	"github.com/loopframe/gifdecode/internal/iox"
)

func main() {
	var (
		format   string
		quality  int
		outDir   string
		dictMode string
		verbose  bool
	)
	flag.StringVar(&format, "format", "png", "Output encoding: png, webp")
	flag.IntVar(&quality, "quality", 85, "WebP quality 1-100 (ignored for png)")
	flag.StringVar(&outDir, "out", "", "Output directory (default: alongside input file)")
	flag.StringVar(&dictMode, "dict", "linked", "LZW dictionary representation: linked, flattened")
	flag.BoolVar(&verbose, "verbose", false, "Print one line per frame written")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gif2png [flags] <input.gif>\n\n")
		fmt.Fprintf(os.Stderr, "Decode a GIF's frames to individual image files.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	path := flag.Arg(0)

	dict, err := gif.ParseDictMode(dictMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	enc, err := export.NewEncoder(format, quality)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	data, release, err := iox.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer release()

	opts := gif.Options{Dictionary: dict}
	scratch := make([]byte, gif.RequiredScratchSize(opts))
	d, err := gif.New(data, scratch, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	w, h := d.Info()
	canvas := make([]byte, w*h*3)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	frameN := 0
	for {
		res, err := d.NextFrame(canvas)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding frame %d: %v\n", frameN, err)
			os.Exit(1)
		}
		if res.Done {
			break
		}
		img := export.CanvasToImage(canvas, w, h)
		encoded, err := enc.Encode(img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding frame %d: %v\n", frameN, err)
			os.Exit(1)
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("%s.frame%03d%s", base, frameN, enc.FileExtension()))
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
			os.Exit(1)
		}
		if verbose {
			fmt.Printf("wrote %s (%d bytes, delay=%dms)\n", outPath, len(encoded), res.DelayMS)
		}
		frameN++
	}

	fmt.Printf("%s: %d frame(s) written to %s\n", path, frameN, outDir)
}
