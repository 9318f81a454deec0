package gif

import (
	"bytes"
	"testing"
)

// TestLZWKwKwK hand-verifies the self-referential case: encodeLZW
// compressing a run of identical pixels emits a code equal to next_code
// (the KwKwK condition at lzw.go's inner "code == next" branch) because
// the table entry it names won't exist until the decoder finishes
// resolving this very code. encodeLiteralLZW never produces this.
func TestLZWKwKwK(t *testing.T) {
	indices := bytes.Repeat([]byte{0}, 8)
	input := buildGIF(8, 1, blackWhitePalette, 0, nil, []frameSpec{
		{w: 8, h: 1, minCodeSize: 2, indices: indices, compress: true},
	})
	_, canvases, _ := decodeAll(t, input, Options{})
	want := bytes.Repeat([]byte{0, 0, 0}, 8)
	if !bytes.Equal(canvases[0], want) {
		t.Fatalf("canvas = % X, want % X", canvases[0], want)
	}
}

// TestLZWBackReferenceRoundTrip exercises the plain (non-KwKwK)
// multi-byte dictionary-match branch: a repeating multi-pixel pattern
// gives the encoder's table real back-references to reuse.
func TestLZWBackReferenceRoundTrip(t *testing.T) {
	pattern := []byte{0, 1, 2, 3}
	indices := bytes.Repeat(pattern, 16) // 64 pixels, 4 distinct colors
	palette := []byte{
		0, 0, 0,
		64, 64, 64,
		128, 128, 128,
		255, 255, 255,
	}
	input := buildGIF(8, 8, palette, 0, nil, []frameSpec{
		{w: 8, h: 8, minCodeSize: 2, indices: indices, compress: true},
	})
	_, canvases, _ := decodeAll(t, input, Options{})
	want := make([]byte, 0, len(indices)*3)
	for _, idx := range indices {
		want = append(want, palette[int(idx)*3:int(idx)*3+3]...)
	}
	if !bytes.Equal(canvases[0], want) {
		t.Fatalf("canvas = % X, want % X", canvases[0], want)
	}
}

// TestDictionaryModeEquivalenceBackReferences extends
// TestDictionaryModeEquivalence (gif_test.go) to a real compressing
// stream instead of pure literal codes, so DictLinked and DictFlattened
// are compared against each other across both expand branches.
func TestDictionaryModeEquivalenceBackReferences(t *testing.T) {
	pattern := []byte{0, 1, 2, 3, 1, 2}
	indices := bytes.Repeat(pattern, 20) // 120 pixels, plenty of repetition
	palette := []byte{
		0, 0, 0,
		64, 64, 64,
		128, 128, 128,
		255, 255, 255,
	}
	input := buildGIF(12, 10, palette, 0, nil, []frameSpec{
		{w: 12, h: 10, minCodeSize: 2, indices: indices, compress: true},
	})

	_, linked, _ := decodeAll(t, input, Options{Dictionary: DictLinked})
	_, flattened, _ := decodeAll(t, input, Options{Dictionary: DictFlattened})
	if !bytes.Equal(linked[0], flattened[0]) {
		t.Fatal("DictLinked and DictFlattened produced different canvases for a compressing back-reference stream")
	}
}

// TestFlattenedDictSolidColorRegression is the regression case for a
// flattened dictionary that copied every entry's full expansion into a
// fixed-size arena on insert: a long run of identical pixels (any real,
// low-entropy frame) builds entries of growing length, and a naive
// per-entry copy exhausts a fixed arena long before the dictionary
// itself fills, producing a spurious error on entirely valid input.
// flattenedDict.insert's tail-sharing must keep this bounded.
func TestFlattenedDictSolidColorRegression(t *testing.T) {
	const w, h = 256, 256
	indices := bytes.Repeat([]byte{0}, w*h)
	input := buildGIF(w, h, blackWhitePalette, 0, nil, []frameSpec{
		{w: w, h: h, minCodeSize: 2, indices: indices, compress: true},
	})

	_, canvases, _ := decodeAll(t, input, Options{Dictionary: DictFlattened})
	for i := 0; i < len(canvases[0]); i++ {
		if canvases[0][i] != 0 {
			t.Fatalf("byte %d = %d, want 0 (solid black)", i, canvases[0][i])
		}
	}
}
