// Command gifinfo prints a GIF file's logical screen, frame, and
// discarded-extension statistics. It decodes every frame into an in-memory
// canvas to report its delay but writes no image files. Grounded on
// cmd/coginfo/main.go's shape in the teacher repo.
package main

import (
	"fmt"
	"os"

	"github.com/loopframe/gifdecode/internal/gif"
	"github.com/loopframe/gifdecode/internal/iox"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: gifinfo <file.gif>\n")
		os.Exit(1)
	}
	path := os.Args[1]

	data, release, err := iox.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer release()

	opts := gif.Options{}
	scratch := make([]byte, gif.RequiredScratchSize(opts))
	d, err := gif.New(data, scratch, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	w, h := d.Info()
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Logical screen: %d x %d\n", w, h)

	if count, ok := d.FrameCount(); ok {
		fmt.Printf("Frame count: %d\n", count)
	} else {
		fmt.Printf("Frame count: unavailable\n")
	}

	canvas := make([]byte, w*h*3)
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
		fmt.Printf("  frame %d: delay=%dms\n", frameN, res.DelayMS)
		frameN++
	}

	stats := d.Stats()
	fmt.Printf("Discarded extensions: comments=%d plaintext=%d application=%d unknown=%d\n",
		stats.Comments, stats.PlainText, stats.Application, stats.Unknown)
}
