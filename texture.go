package grok

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/image/draw"

	"github.com/vangroan/grok-glow/glapi"
)

// textureHandle owns a GL texture name. It is shared by every Texture view
// cut from the same allocation and enqueues the deletion when the last view
// is released.
type textureHandle struct {
	handle  uint32
	size    [2]uint32
	destroy DestroySender
	refs    atomic.Int32
	cleanup runtime.Cleanup
}

func (h *textureHandle) acquire() {
	h.refs.Add(1)
}

func (h *textureHandle) release() {
	switch n := h.refs.Add(-1); {
	case n == 0:
		h.cleanup.Stop()
		h.destroy.mustSend(Destroy{Kind: DestroyTexture, Handle: h.handle})
	case n < 0:
		panic(fmt.Sprintf("grok: texture %d released too many times", h.handle))
	}
}

// Texture is an RGBA8 texture in video memory, or a rectangular view into
// one. Views share the GPU allocation with the texture they were cut from;
// the allocation is deleted once every view has been released.
//
// A Texture is not safe for concurrent use.
type Texture struct {
	inner    *textureHandle
	rect     Rect[uint32]
	released bool
}

// NewTexture allocates a width x height RGBA8 texture with nearest
// filtering and clamp-to-edge wrapping. The storage is left uninitialized.
func NewTexture(d *Device, width, height uint32) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, &InvalidTextureSizeError{Width: width, Height: height}
	}
	if !d.HasExtension(glapi.ExtTextureNonPowerOfTwo) && (!isPowerOfTwo(width) || !isPowerOfTwo(height)) {
		return nil, &InvalidTextureSizeError{Width: width, Height: height}
	}

	gl := d.gl
	handle, err := glCreated(gl, gl.CreateTexture(), "texture")
	if err != nil {
		return nil, err
	}

	save := saveTexture(gl)
	gl.BindTexture(glapi.TEXTURE_2D, handle)
	gl.TexImage2D(glapi.TEXTURE_2D, 0, int32(glapi.RGBA8), int32(width), int32(height),
		glapi.RGBA, glapi.UNSIGNED_BYTE, nil)
	if err := glError(gl); err != nil {
		save.restore()
		gl.DeleteTexture(handle)
		return nil, fmt.Errorf("allocate texture %dx%d: %w", width, height, err)
	}
	gl.TexParameteri(glapi.TEXTURE_2D, glapi.TEXTURE_MIN_FILTER, int32(glapi.NEAREST))
	gl.TexParameteri(glapi.TEXTURE_2D, glapi.TEXTURE_MAG_FILTER, int32(glapi.NEAREST))
	gl.TexParameteri(glapi.TEXTURE_2D, glapi.TEXTURE_WRAP_S, int32(glapi.CLAMP_TO_EDGE))
	gl.TexParameteri(glapi.TEXTURE_2D, glapi.TEXTURE_WRAP_T, int32(glapi.CLAMP_TO_EDGE))
	save.restore()

	inner := &textureHandle{
		handle:  handle,
		size:    [2]uint32{width, height},
		destroy: d.DestroySender(),
	}
	inner.refs.Store(1)
	// Handles dropped without Release still get deleted on the GL thread.
	inner.cleanup = runtime.AddCleanup(inner, func(l leak) { l.sender.leaked(l.res) },
		leak{sender: inner.destroy, res: Destroy{Kind: DestroyTexture, Handle: handle}})

	d.lg.Debug("texture created", slog.Uint64("handle", uint64(handle)),
		slog.Uint64("width", uint64(width)), slog.Uint64("height", uint64(height)))

	return &Texture{
		inner: inner,
		rect:  NewRect(0, 0, width, height),
	}, nil
}

type leak struct {
	sender DestroySender
	res    Destroy
}

// NewSub returns a view of the region at pos with the given size. pos is
// in the coordinates of the underlying allocation and the region must lie
// inside this view.
func (t *Texture) NewSub(pos, size [2]uint32) (*Texture, error) {
	t.checkLive()

	target := Rect[uint32]{Pos: pos, Size: size}
	if target.Empty() || !t.rect.CanFit(target) {
		return nil, &InvalidSubTextureError{Source: t.rect, Target: target}
	}

	t.inner.acquire()
	return &Texture{inner: t.inner, rect: target}, nil
}

// Clone returns another view of the same region sharing the allocation.
func (t *Texture) Clone() *Texture {
	t.checkLive()
	t.inner.acquire()
	return &Texture{inner: t.inner, rect: t.rect}
}

// Release drops this view. The GPU allocation is queued for deletion when
// its last view is released. Releasing twice is a no-op.
func (t *Texture) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.inner.release()
}

func (t *Texture) checkLive() {
	if t.released {
		panic(fmt.Sprintf("grok: use of released texture %d", t.inner.handle))
	}
}

// Handle returns the raw GL texture name shared by all views.
func (t *Texture) Handle() uint32 {
	return t.inner.handle
}

// Rect returns the view rectangle in texels of the underlying allocation.
func (t *Texture) Rect() Rect[uint32] {
	return t.rect
}

// Size returns the size of the view in texels.
func (t *Texture) Size() [2]uint32 {
	return t.rect.Size
}

// OrigSize returns the size of the underlying allocation.
func (t *Texture) OrigSize() [2]uint32 {
	return t.inner.size
}

// UV returns the normalized texture coordinates of the view's top-left and
// bottom-right corners.
func (t *Texture) UV() (uv0, uv1 [2]float32) {
	w, h := float32(t.inner.size[0]), float32(t.inner.size[1])
	end := t.rect.Max()
	uv0 = [2]float32{float32(t.rect.Pos[0]) / w, float32(t.rect.Pos[1]) / h}
	uv1 = [2]float32{float32(end[0]) / w, float32(end[1]) / h}
	return uv0, uv1
}

// DataLen returns the number of bytes in the allocation's RGBA storage.
func (t *Texture) DataLen() int {
	return int(t.inner.size[0]) * int(t.inner.size[1]) * 4
}

// UpdateSubData uploads RGBA pixels into the region at pos of the
// underlying allocation. The texture binding of the caller is preserved.
func (t *Texture) UpdateSubData(d *Device, pos, size [2]uint32, data []byte) error {
	t.checkLive()

	expected := int(size[0]) * int(size[1]) * 4
	if len(data) != expected {
		return &InvalidImageDataError{Expected: expected, Actual: len(data)}
	}
	region := Rect[uint32]{Pos: pos, Size: size}
	if full := NewRect(0, 0, t.inner.size[0], t.inner.size[1]); !full.CanFit(region) {
		return &InvalidSubTextureError{Source: full, Target: region}
	}

	gl := d.gl
	defer saveTexture(gl).restore()

	gl.BindTexture(glapi.TEXTURE_2D, t.inner.handle)
	gl.TexSubImage2D(glapi.TEXTURE_2D, 0, int32(pos[0]), int32(pos[1]), int32(size[0]), int32(size[1]),
		glapi.RGBA, glapi.UNSIGNED_BYTE, data)
	if err := glError(gl); err != nil {
		return fmt.Errorf("upload texture %d: %w", t.inner.handle, err)
	}
	return nil
}

// UpdateData replaces the contents of the whole allocation.
func (t *Texture) UpdateData(d *Device, data []byte) error {
	return t.UpdateSubData(d, [2]uint32{0, 0}, t.inner.size, data)
}

// UpdateImage uploads img into this view, which must match its size.
func (t *Texture) UpdateImage(d *Device, img image.Image) error {
	b := img.Bounds()
	if uint32(b.Dx()) != t.rect.Size[0] || uint32(b.Dy()) != t.rect.Size[1] {
		return &InvalidImageDataError{Expected: int(t.rect.Size[0]) * int(t.rect.Size[1]) * 4, Actual: b.Dx() * b.Dy() * 4}
	}
	return t.UpdateSubData(d, t.rect.Pos, t.rect.Size, rgbaPixels(img))
}

// rgbaPixels returns img as tightly packed, non-premultiplied RGBA bytes.
func rgbaPixels(img image.Image) []byte {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == 4*b.Dx() {
		return nrgba.Pix[:4*b.Dx()*b.Dy()]
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return nrgba.Pix
}

// textureSave records the 2D texture binding so a local texture mutation
// does not disturb the caller's state. Use as:
//
//	defer saveTexture(gl).restore()
type textureSave struct {
	gl     glapi.Backend
	handle uint32
}

func saveTexture(gl glapi.Backend) textureSave {
	return textureSave{gl: gl, handle: uint32(gl.GetInteger(glapi.TEXTURE_BINDING_2D))}
}

func (s textureSave) restore() {
	s.gl.BindTexture(glapi.TEXTURE_2D, s.handle)
}
