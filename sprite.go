package grok

// Sprite is a drawable rectangle in pixel space with the origin at the
// top-left of the viewport. It has no GPU state of its own; sprites
// without a texture are skipped when drawn.
type Sprite struct {
	Pos     [2]int32
	Size    [2]uint32
	Texture *Texture
}

// NewSprite returns an untextured sprite.
func NewSprite(pos [2]int32, size [2]uint32) Sprite {
	return Sprite{Pos: pos, Size: size}
}

// SetTexture sets the texture drawn by the sprite. The sprite borrows the
// texture; it does not release it.
func (s *Sprite) SetTexture(tex *Texture) {
	s.Texture = tex
}

