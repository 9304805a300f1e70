package grok

import (
	"fmt"
	"log/slog"

	"github.com/vangroan/grok-glow/glapi"
)

// BatchSize is the number of sprites drawn by a single flush. With four
// vertices per sprite the largest index is 4*BatchSize-1, which must fit
// in a 16-bit index.
const BatchSize = 2048

const (
	batchVertices = BatchSize * 4
	batchIndices  = BatchSize * 6
)

// The largest vertex index must fit in a uint16.
var _ = [1]struct{}{}[batchVertices/65537]

type batchItem struct {
	pos     [2]float32
	size    [2]float32
	texture *Texture
}

// BatchStats describes the work done by the last Draw.
type BatchStats struct {
	Sprites      int // Sprites drawn
	Flushes      int // Draw calls issued
	TextureBinds int // Texture switches
	Indices      int // Indices submitted across all flushes
}

// SpriteBatch accumulates sprites over a frame and draws them with as few
// indexed draw calls as the texture changes allow. Sprites are drawn in
// the order they were added, so grouping sprites by texture minimizes draw
// calls.
type SpriteBatch struct {
	items    []batchItem
	vertices []Vertex
	indices  []uint16
	buffer   *VertexBuffer
	stats    BatchStats
}

// NewSpriteBatch allocates the batch's dynamic vertex buffer.
func NewSpriteBatch(d *Device) (*SpriteBatch, error) {
	buf, err := NewDynamicVertexBuffer(d, batchVertices, batchIndices)
	if err != nil {
		return nil, fmt.Errorf("sprite batch: %w", err)
	}
	return &SpriteBatch{
		items:    make([]batchItem, 0, BatchSize),
		vertices: make([]Vertex, 0, batchVertices),
		indices:  make([]uint16, 0, batchIndices),
		buffer:   buf,
	}, nil
}

// Add queues a sprite for the next Draw. Sprites without a texture are
// discarded. The batch holds its own reference to the texture until Draw.
func (b *SpriteBatch) Add(s Sprite) {
	if s.Texture == nil {
		return
	}
	b.items = append(b.items, batchItem{
		pos:     [2]float32{float32(s.Pos[0]), float32(s.Pos[1])},
		size:    [2]float32{float32(s.Size[0]), float32(s.Size[1])},
		texture: s.Texture.Clone(),
	})
}

// Len returns the number of sprites waiting to be drawn.
func (b *SpriteBatch) Len() int {
	return len(b.items)
}

// Stats returns the statistics of the last Draw.
func (b *SpriteBatch) Stats() BatchStats {
	return b.stats
}

// Draw renders every queued sprite with shader and empties the batch. The
// program, vertex array and texture bindings are reset to zero afterwards.
// Once the device is shutting down the queued sprites are dropped without
// drawing.
func (b *SpriteBatch) Draw(d *Device, shader *Shader) {
	b.stats = BatchStats{}
	if len(b.items) == 0 {
		return
	}
	if d.ShuttingDown() {
		d.lg.Debug("device shutting down, dropping sprites", slog.Int("sprites", len(b.items)))
		b.reset()
		return
	}

	gl := d.gl
	width, height := d.ViewportSize()
	d.applyViewport()
	gl.UseProgram(shader.program)
	gl.Uniform2f(shader.resolutionLoc, float32(width), float32(height))
	gl.BindVertexArray(b.buffer.vao)
	d.assertGL("batch setup")

	var (
		count   int
		current uint32
		bound   bool
	)
	for _, item := range b.items {
		if count == BatchSize {
			b.flush(d)
			count = 0
		}

		// Flush whenever the texture changes.
		if handle := item.texture.Handle(); !bound || handle != current {
			b.flush(d)
			count = 0

			// Texture unit determined by the sprite shader.
			gl.ActiveTexture(glapi.TEXTURE0)
			gl.BindTexture(glapi.TEXTURE_2D, handle)
			current, bound = handle, true
			b.stats.TextureBinds++
		}

		uv0, uv1 := item.texture.UV()
		b.vertices, b.indices = appendQuad(b.vertices, b.indices, uint16(count*4), item.pos, item.size, uv0, uv1)
		count++
		b.stats.Sprites++
	}
	b.flush(d)
	b.reset()

	gl.BindTexture(glapi.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	d.assertGL("batch cleanup")
}

// flush uploads the pending geometry and issues one draw call.
func (b *SpriteBatch) flush(d *Device) {
	if len(b.vertices) == 0 {
		return
	}
	if err := b.buffer.UpdateVertices(d, b.vertices); err != nil {
		d.drawFailed("flush vertices", err)
	}
	if err := b.buffer.UpdateIndices(d, b.indices); err != nil {
		d.drawFailed("flush indices", err)
	}

	d.gl.DrawElements(glapi.TRIANGLES, int32(len(b.indices)), glapi.UNSIGNED_SHORT, 0)
	d.assertGL("draw elements")

	b.stats.Flushes++
	b.stats.Indices += len(b.indices)
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

// reset drops all queued sprites and the batch's texture references.
func (b *SpriteBatch) reset() {
	for i := range b.items {
		b.items[i].texture.Release()
	}
	clear(b.items)
	b.items = b.items[:0]
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
}

// Release drops any queued sprites and queues the batch's buffers for
// deletion.
func (b *SpriteBatch) Release() {
	b.reset()
	b.buffer.Release()
}
