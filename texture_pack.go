package grok

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/vangroan/grok-glow/glapi"
)

// DefaultDim is the default width and height of an atlas texture in texels.
// OpenGL 4 guarantees a MAX_TEXTURE_SIZE of at least 1024.
const DefaultDim = 1024

// DefaultPadding is the number of texels left empty around every image to
// avoid bleeding between neighbours when sampling.
const DefaultPadding = 1

type packPage struct {
	texture *Texture
	packer  *Packer
}

// TexturePack places many small images into few atlas textures and hands
// back views into them. Each returned view can be used, cloned and
// released like an independent texture; an atlas is deleted once the pack
// and every view into it have been released.
//
// Slots are write-once: there is no eviction or defragmentation.
type TexturePack struct {
	open    []packPage
	closed  []*Texture
	minSize [2]uint32
	padding uint32
	lg      *slog.Logger
}

// PackOption configures a TexturePack.
type PackOption func(*TexturePack)

// WithSize sets the size of the first atlas.
func WithSize(width, height uint32) PackOption {
	return func(tp *TexturePack) { tp.minSize = [2]uint32{width, height} }
}

// WithPadding sets the padding around each packed image.
func WithPadding(padding uint32) PackOption {
	return func(tp *TexturePack) { tp.padding = padding }
}

// NewTexturePack allocates a pack with one DefaultDim x DefaultDim atlas.
func NewTexturePack(d *Device, opts ...PackOption) (*TexturePack, error) {
	tp := &TexturePack{
		minSize: [2]uint32{DefaultDim, DefaultDim},
		padding: DefaultPadding,
		lg:      d.lg,
	}
	for _, opt := range opts {
		opt(tp)
	}

	// Largest addressable dimension; the device may still run out of
	// memory below it.
	maxSize := d.gl.GetInteger(glapi.MAX_TEXTURE_SIZE)
	tp.lg.Info("texture pack created", slog.Int("max_texture_size", int(maxSize)),
		slog.Uint64("width", uint64(tp.minSize[0])), slog.Uint64("height", uint64(tp.minSize[1])),
		slog.Uint64("padding", uint64(tp.padding)))

	if err := tp.addPage(d, tp.minSize[0], tp.minSize[1]); err != nil {
		return nil, err
	}
	return tp, nil
}

func (tp *TexturePack) addPage(d *Device, width, height uint32) error {
	tex, err := NewTexture(d, width, height)
	if err != nil {
		return fmt.Errorf("allocate atlas: %w", err)
	}
	tp.open = append(tp.open, packPage{texture: tex, packer: NewPacker(width, height)})
	return nil
}

// AddImageData copies width x height RGBA pixels into an atlas and returns
// a view of them. A new atlas is allocated when no open atlas has room.
func (tp *TexturePack) AddImageData(d *Device, width, height uint32, data []byte) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, &InvalidTextureSizeError{Width: width, Height: height}
	}
	if expected := int(width) * int(height) * 4; len(data) != expected {
		return nil, &InvalidImageDataError{Expected: expected, Actual: len(data)}
	}

	padded := [2]uint32{width + 2*tp.padding, height + 2*tp.padding}
	for i := 0; i < len(tp.open); i++ {
		page := tp.open[i]
		if slot, ok := page.packer.TryInsert(padded[0], padded[1]); ok {
			view, err := tp.place(d, page, slot, width, height, data)
			if !page.packer.HasSpace() {
				tp.closePage(i)
			}
			return view, err
		}
	}

	// No open atlas fits. New atlases are capped at DefaultDim.
	if padded[0] > DefaultDim || padded[1] > DefaultDim {
		return nil, &InvalidTextureSizeError{Width: width, Height: height}
	}
	if err := tp.addPage(d, min(padded[0], DefaultDim), min(padded[1], DefaultDim)); err != nil {
		return nil, err
	}
	last := len(tp.open) - 1
	page := tp.open[last]
	slot, ok := page.packer.TryInsert(padded[0], padded[1])
	if !ok {
		panic(fmt.Sprintf("grok: new %v atlas cannot hold a %v image", page.packer.Size(), padded))
	}
	view, err := tp.place(d, page, slot, width, height, data)
	if !page.packer.HasSpace() {
		tp.closePage(last)
	}
	return view, err
}

func (tp *TexturePack) place(d *Device, page packPage, slot [2]uint32, width, height uint32, data []byte) (*Texture, error) {
	origin := [2]uint32{slot[0] + tp.padding, slot[1] + tp.padding}
	size := [2]uint32{width, height}
	if err := page.texture.UpdateSubData(d, origin, size, data); err != nil {
		return nil, err
	}
	return page.texture.NewSub(origin, size)
}

// closePage moves a full atlas out of the open set.
func (tp *TexturePack) closePage(i int) {
	page := tp.open[i]
	tp.open = append(tp.open[:i], tp.open[i+1:]...)
	tp.closed = append(tp.closed, page.texture)
	tp.lg.Debug("atlas full", slog.Uint64("handle", uint64(page.texture.Handle())))
}

// AddImage packs img, converting it to non-premultiplied RGBA if needed.
func (tp *TexturePack) AddImage(d *Device, img image.Image) (*Texture, error) {
	b := img.Bounds()
	return tp.AddImageData(d, uint32(b.Dx()), uint32(b.Dy()), rgbaPixels(img))
}

// PackStats describes the atlases owned by a pack.
type PackStats struct {
	Open   int
	Closed int
	Bytes  int
}

// Stats returns the number of atlases and the video memory they occupy.
func (tp *TexturePack) Stats() PackStats {
	st := PackStats{Open: len(tp.open), Closed: len(tp.closed)}
	for _, page := range tp.open {
		st.Bytes += page.texture.DataLen()
	}
	for _, tex := range tp.closed {
		st.Bytes += tex.DataLen()
	}
	return st
}

// Pages returns a new reference to every atlas texture, open ones first.
// The caller releases them.
func (tp *TexturePack) Pages() []*Texture {
	pages := make([]*Texture, 0, len(tp.open)+len(tp.closed))
	for _, page := range tp.open {
		pages = append(pages, page.texture.Clone())
	}
	for _, tex := range tp.closed {
		pages = append(pages, tex.Clone())
	}
	return pages
}

// Release drops the pack's references to its atlases. Views handed out by
// AddImageData stay valid until they are released themselves.
func (tp *TexturePack) Release() {
	for _, page := range tp.open {
		page.texture.Release()
	}
	for _, tex := range tp.closed {
		tex.Release()
	}
	tp.open, tp.closed = nil, nil
}
