// Command gifdebug traces the LZW bitstream of a GIF file's first frame:
// every code pulled, its width, and every dictionary insertion. Grounded on
// cmd/debug/main.go's raw-internals dump style in the teacher repo, which
// does the same thing for a GeoTIFF's IFD/tile internals.
package main

import (
	"fmt"
	"os"

	"github.com/loopframe/gifdecode/internal/gif"
	"github.com/loopframe/gifdecode/internal/iox"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: gifdebug <file.gif>\n")
		os.Exit(1)
	}
	path := os.Args[1]

	data, release, err := iox.LoadFile(path)
	if err != nil {
		fmt.Printf("Error opening: %v\n", err)
		os.Exit(1)
	}
	defer release()

	opts := gif.Options{}
	scratch := make([]byte, gif.RequiredScratchSize(opts))
	d, err := gif.New(data, scratch, opts)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer d.Close()

	w, h := d.Info()
	fmt.Printf("Logical screen: %d x %d\n", w, h)

	codeCount := 0
	insertCount := 0
	d.SetTrace(func(ev gif.TraceEvent) {
		if ev.Inserted {
			insertCount++
			fmt.Printf("  code=%-4d width=%-2d  -> insert #%d\n", ev.Code, ev.Width, ev.NewCode)
		} else {
			codeCount++
			fmt.Printf("  code=%-4d width=%-2d\n", ev.Code, ev.Width)
		}
	})

	canvas := make([]byte, w*h*3)
	fmt.Println("--- frame 0 LZW trace ---")
	res, err := d.NextFrame(canvas)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	d.SetTrace(nil)

	if res.Done {
		fmt.Println("(no frames in this file)")
		return
	}
	fmt.Printf("--- %d codes, %d dictionary insertions, delay=%dms ---\n", codeCount, insertCount, res.DelayMS)
}
