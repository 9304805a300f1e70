package grok

import (
	"cmp"
	"fmt"
)

// Rect represents a rectangle with position and size.
type Rect[T cmp.Ordered] struct {
	Pos  [2]T // Top-left position
	Size [2]T // Width and height
}

// NewRect builds a rectangle from its components.
func NewRect[T cmp.Ordered](x, y, w, h T) Rect[T] {
	return Rect[T]{Pos: [2]T{x, y}, Size: [2]T{w, h}}
}

// Max returns the exclusive bottom-right corner.
func (r Rect[T]) Max() [2]T {
	return [2]T{r.Pos[0] + r.Size[0], r.Pos[1] + r.Size[1]}
}

// Empty reports whether either dimension is zero.
func (r Rect[T]) Empty() bool {
	var zero T
	return r.Size[0] <= zero || r.Size[1] <= zero
}

// CanFit returns true if other lies entirely inside r: its position is not
// before r's position and its far corner is not past r's far corner.
func (r Rect[T]) CanFit(other Rect[T]) bool {
	rm, om := r.Max(), other.Max()
	return other.Pos[0] >= r.Pos[0] && other.Pos[1] >= r.Pos[1] &&
		other.Size[0] <= r.Size[0] && other.Size[1] <= r.Size[1] &&
		om[0] <= rm[0] && om[1] <= rm[1]
}

// Intersects returns true if two rectangles overlap.
func (r Rect[T]) Intersects(other Rect[T]) bool {
	rm, om := r.Max(), other.Max()
	return r.Pos[0] < om[0] && rm[0] > other.Pos[0] &&
		r.Pos[1] < om[1] && rm[1] > other.Pos[1]
}

func (r Rect[T]) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.Pos[0], r.Pos[1], r.Size[0], r.Size[1])
}

// Vertex is the interleaved vertex layout shared by every vertex buffer.
// Memory layout matches the attribute locations of the sprite shader:
// position=0, uv=1, color=2.
type Vertex struct {
	Position [2]float32 // Pixel-space position (x, y)
	UV       [2]float32 // Texture coordinates (u, v)
	Color    [4]float32 // RGBA, 0..1
}

// Common colors.
var (
	White       = [4]float32{1, 1, 1, 1}
	Black       = [4]float32{0, 0, 0, 1}
	Transparent = [4]float32{0, 0, 0, 0}
)

// RGBA creates a float color from 8-bit components.
func RGBA(r, g, b, a uint8) [4]float32 {
	return [4]float32{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// isPowerOfTwo reports whether n is a non-zero power of two.
func isPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
