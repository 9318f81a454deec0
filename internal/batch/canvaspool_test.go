package batch

import "testing"

func TestCanvasPoolRoundTrip(t *testing.T) {
	buf := getCanvas(4, 3)
	if len(buf) != 4*3*3 {
		t.Fatalf("getCanvas size = %d, want %d", len(buf), 4*3*3)
	}
	for i := range buf {
		buf[i] = 0xAB
	}
	putCanvas(4, 3, buf)

	reused := getCanvas(4, 3)
	for i, b := range reused {
		if b != 0 {
			t.Fatalf("reused canvas not zeroed at %d: %d", i, b)
		}
	}
}

func TestCanvasPoolDistinctSizes(t *testing.T) {
	a := getCanvas(2, 2)
	b := getCanvas(3, 3)
	if len(a) == len(b) {
		t.Fatalf("expected different sizes, both got %d", len(a))
	}
}

func TestPutCanvasNil(t *testing.T) {
	putCanvas(1, 1, nil) // must not panic
}
