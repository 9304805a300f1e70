package pattern

import (
	"image/color"
	"testing"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestChecker(t *testing.T) {
	img := Checker(8, 8, 4, red, blue)
	if img.RGBAAt(0, 0) != red || img.RGBAAt(4, 0) != blue || img.RGBAAt(4, 4) != red {
		t.Error("unexpected checker layout")
	}
}

func TestGradient(t *testing.T) {
	img := Gradient(2, 3, red, blue)
	if img.RGBAAt(1, 0) != red || img.RGBAAt(0, 2) != blue {
		t.Error("expected gradient endpoints to match")
	}
	if mid := img.RGBAAt(0, 1); mid.R != 128 || mid.B != 128 {
		t.Errorf("unexpected midpoint %v", mid)
	}
}

func TestDisc(t *testing.T) {
	img := Disc(10, 10, red)
	if img.RGBAAt(5, 5) != red {
		t.Error("expected center filled")
	}
	if img.RGBAAt(0, 0).A != 0 {
		t.Error("expected corner transparent")
	}
}

func TestPalette(t *testing.T) {
	p := Palette(6)
	want := []color.RGBA{
		{255, 0, 0, 255}, {255, 255, 0, 255}, {0, 255, 0, 255},
		{0, 255, 255, 255}, {0, 0, 255, 255}, {255, 0, 255, 255},
	}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("color %d: expected %v, got %v", i, want[i], p[i])
		}
	}
}
