package grok_test

import (
	"testing"

	grok "github.com/vangroan/grok-glow"
)

func TestPackerQuarters(t *testing.T) {
	p := grok.NewPacker(100, 100)

	want := [][2]uint32{{0, 0}, {50, 0}, {0, 50}, {50, 50}}
	for i, w := range want {
		pos, ok := p.TryInsert(50, 50)
		if !ok {
			t.Fatalf("insert %d: expected a slot", i)
		}
		if pos != w {
			t.Errorf("insert %d: expected %v, got %v", i, w, pos)
		}
	}

	if _, ok := p.TryInsert(1, 1); ok {
		t.Error("expected a full packer to reject a 1x1 insert")
	}
	if p.HasSpace() {
		t.Errorf("expected no space, %d rectangles available", p.Available())
	}
}

func TestPackerFullInsert(t *testing.T) {
	p := grok.NewPacker(100, 100)
	if p.Available() != 1 {
		t.Fatalf("expected 1 available rectangle, got %d", p.Available())
	}

	pos, ok := p.TryInsert(100, 100)
	if !ok || pos != [2]uint32{0, 0} {
		t.Fatalf("expected [0 0], got %v (ok=%v)", pos, ok)
	}
	if p.Available() != 0 {
		t.Errorf("expected 0 available, got %d", p.Available())
	}
	if _, ok := p.TryInsert(1, 1); ok {
		t.Error("expected insert into full packer to fail")
	}
}

func TestPackerTooLarge(t *testing.T) {
	p := grok.NewPacker(64, 32)
	if _, ok := p.TryInsert(65, 1); ok {
		t.Error("expected wider rectangle to be rejected")
	}
	if _, ok := p.TryInsert(1, 33); ok {
		t.Error("expected taller rectangle to be rejected")
	}
	if p.Available() != 1 {
		t.Errorf("failed inserts must not change the packer, available=%d", p.Available())
	}
}

func TestPackerRightChildUsesWidth(t *testing.T) {
	// Non-square slots expose a split that confuses width and height.
	p := grok.NewPacker(100, 100)

	if pos, _ := p.TryInsert(30, 10); pos != [2]uint32{0, 0} {
		t.Fatalf("expected [0 0], got %v", pos)
	}
	pos, ok := p.TryInsert(70, 10)
	if !ok {
		t.Fatal("expected the remainder of the first row to fit")
	}
	if pos != [2]uint32{30, 0} {
		t.Errorf("expected [30 0], got %v", pos)
	}
	pos, ok = p.TryInsert(100, 90)
	if !ok || pos != [2]uint32{0, 10} {
		t.Errorf("expected [0 10], got %v (ok=%v)", pos, ok)
	}
	if p.HasSpace() {
		t.Errorf("expected packer to be full, %d available", p.Available())
	}
}

func TestPackerNoOverlap(t *testing.T) {
	p := grok.NewPacker(256, 256)
	sizes := [][2]uint32{{40, 20}, {17, 33}, {64, 64}, {5, 90}, {100, 7}, {31, 31}, {12, 48}, {80, 16}}

	var placed []grok.Rect[uint32]
	bounds := grok.NewRect[uint32](0, 0, 256, 256)
	for round := 0; round < 6; round++ {
		for _, s := range sizes {
			pos, ok := p.TryInsert(s[0], s[1])
			if !ok {
				continue
			}
			r := grok.Rect[uint32]{Pos: pos, Size: s}
			if !bounds.CanFit(r) {
				t.Fatalf("slot %v lies outside the packer", r)
			}
			for _, other := range placed {
				if r.Intersects(other) {
					t.Fatalf("slot %v overlaps %v", r, other)
				}
			}
			placed = append(placed, r)
		}
	}
	if len(placed) == 0 {
		t.Fatal("expected some inserts to succeed")
	}
}

func TestPackerDeterministic(t *testing.T) {
	sizes := [][2]uint32{{10, 20}, {30, 5}, {7, 7}, {50, 12}, {3, 40}, {22, 22}}
	run := func() [][2]uint32 {
		p := grok.NewPacker(128, 64)
		var out [][2]uint32
		for _, s := range sizes {
			pos, ok := p.TryInsert(s[0], s[1])
			if !ok {
				pos = [2]uint32{^uint32(0), ^uint32(0)}
			}
			out = append(out, pos)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("insert %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestPackerAvailableTracksFreeRectangles(t *testing.T) {
	p := grok.NewPacker(100, 100)

	// Slot of full height leaves only a right remainder.
	p.TryInsert(40, 100)
	if p.Available() != 1 {
		t.Errorf("expected 1 available after full-height slot, got %d", p.Available())
	}
	// Corner slot of the remainder leaves right and bottom.
	p.TryInsert(20, 20)
	if p.Available() != 2 {
		t.Errorf("expected 2 available, got %d", p.Available())
	}
}
