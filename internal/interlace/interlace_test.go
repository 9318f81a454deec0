package interlace

import "testing"

func TestMapperNonInterlaced(t *testing.T) {
	m := New(4, false)
	want := []int{0, 1, 2, 3}
	for i, w := range want {
		y, ok := m.Next()
		if !ok || y != w {
			t.Fatalf("line %d: got (%d,%v), want (%d,true)", i, y, ok, w)
		}
	}
	if _, ok := m.Next(); ok {
		t.Fatal("expected exhaustion after height rows")
	}
}

func TestMapperInterlaced8x8(t *testing.T) {
	m := New(8, true)
	want := []int{0, 4, 2, 6, 1, 3, 5, 7}
	for i, w := range want {
		y, ok := m.Next()
		if !ok || y != w {
			t.Fatalf("line %d: got (%d,%v), want (%d,true)", i, y, ok, w)
		}
	}
	if _, ok := m.Next(); ok {
		t.Fatal("expected exhaustion after all four passes")
	}
}

func TestMapperInterlacedNonMultipleOf8(t *testing.T) {
	// Height 5: pass0 {0}, pass1 {4}, pass2 {2}, pass3 {1,3} = 5 rows.
	m := New(5, true)
	want := []int{0, 4, 2, 1, 3}
	for i, w := range want {
		y, ok := m.Next()
		if !ok || y != w {
			t.Fatalf("line %d: got (%d,%v), want (%d,true)", i, y, ok, w)
		}
	}
	if _, ok := m.Next(); ok {
		t.Fatal("expected exhaustion")
	}
}
