package grok_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	grok "github.com/vangroan/grok-glow"
)

func solid(w, h uint32, v byte) []byte {
	data := make([]byte, 4*w*h)
	for i := range data {
		data[i] = v
	}
	return data
}

func TestTexturePackSameAtlas(t *testing.T) {
	d, gl := newTestDevice(t)
	tp, err := grok.NewTexturePack(d)
	if err != nil {
		t.Fatal(err)
	}

	want := [][2]uint32{{1, 1}, {67, 1}, {133, 1}}
	var views []*grok.Texture
	for i, pos := range want {
		view, err := tp.AddImageData(d, 64, 64, solid(64, 64, byte(i+1)))
		if err != nil {
			t.Fatalf("image %d: %v", i, err)
		}
		if view.Rect().Pos != pos || view.Size() != [2]uint32{64, 64} {
			t.Errorf("image %d: expected origin %v, got %v", i, pos, view.Rect())
		}
		views = append(views, view)
	}

	for _, v := range views[1:] {
		if v.Handle() != views[0].Handle() {
			t.Error("expected all images on the same atlas")
		}
	}
	if got := tp.Stats(); got.Open != 1 || got.Closed != 0 || got.Bytes != grok.DefaultDim*grok.DefaultDim*4 {
		t.Errorf("unexpected stats %+v", got)
	}

	// The padding ring stays empty.
	px := gl.Textures[views[0].Handle()].Pixels
	if px[0] != 0 {
		t.Error("expected padding texel to stay untouched")
	}
	if at := 4 * (1*grok.DefaultDim + 1); px[at] != 1 {
		t.Errorf("expected first image at (1,1), got %d", px[at])
	}
}

func TestTexturePackValidation(t *testing.T) {
	d, _ := newTestDevice(t)
	tp, err := grok.NewTexturePack(d)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := tp.AddImageData(d, 0, 4, nil); !errors.Is(err, grok.ErrInvalidTextureSize) {
		t.Errorf("expected ErrInvalidTextureSize, got %v", err)
	}
	if _, err := tp.AddImageData(d, 4, 4, make([]byte, 10)); !errors.Is(err, grok.ErrInvalidImageData) {
		t.Errorf("expected ErrInvalidImageData, got %v", err)
	}
	if _, err := tp.AddImageData(d, grok.DefaultDim, 4, solid(grok.DefaultDim, 4, 0)); !errors.Is(err, grok.ErrInvalidTextureSize) {
		t.Errorf("expected padded image larger than an atlas to fail, got %v", err)
	}
}

func TestTexturePackNewAtlas(t *testing.T) {
	d, gl := newTestDevice(t)
	tp, err := grok.NewTexturePack(d, grok.WithSize(64, 64))
	if err != nil {
		t.Fatal(err)
	}

	first, err := tp.AddImageData(d, 40, 40, solid(40, 40, 1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := tp.AddImageData(d, 40, 40, solid(40, 40, 2))
	if err != nil {
		t.Fatal(err)
	}
	if first.Handle() == second.Handle() {
		t.Fatal("expected the second image on a new atlas")
	}
	obj := gl.Textures[second.Handle()]
	if obj.Width != 42 || obj.Height != 42 {
		t.Errorf("expected new atlas sized to the padded image, got %dx%d", obj.Width, obj.Height)
	}
	if second.Rect().Pos != [2]uint32{1, 1} {
		t.Errorf("expected origin (1,1), got %v", second.Rect().Pos)
	}

	// The exact-fit atlas has no free rectangle left.
	if st := tp.Stats(); st.Open != 1 || st.Closed != 1 {
		t.Errorf("expected one open and one closed atlas, got %+v", st)
	}

	pages := tp.Pages()
	if len(pages) != 2 || pages[0].Handle() != first.Handle() || pages[1].Handle() != second.Handle() {
		t.Fatalf("unexpected pages %v", pages)
	}
	if pages[1].Size() != [2]uint32{42, 42} {
		t.Errorf("expected page view to cover the atlas, got %v", pages[1].Size())
	}
	for _, p := range pages {
		p.Release()
	}
}

func TestTexturePackRelease(t *testing.T) {
	d, gl := newTestDevice(t)
	tp, err := grok.NewTexturePack(d, grok.WithSize(32, 32), grok.WithPadding(0))
	if err != nil {
		t.Fatal(err)
	}
	view, err := tp.AddImageData(d, 8, 8, solid(8, 8, 9))
	if err != nil {
		t.Fatal(err)
	}
	if view.Rect().Pos != [2]uint32{0, 0} {
		t.Errorf("expected unpadded origin, got %v", view.Rect().Pos)
	}

	tp.Release()
	if err := d.Maintain(); err != nil {
		t.Fatal(err)
	}
	if _, ok := gl.Textures[view.Handle()]; !ok {
		t.Fatal("atlas deleted while a view is alive")
	}

	view.Release()
	if err := d.Maintain(); err != nil {
		t.Fatal(err)
	}
	if len(gl.Textures) != 0 {
		t.Errorf("expected every atlas deleted, %d remain", len(gl.Textures))
	}
}

func TestTexturePackAddImage(t *testing.T) {
	d, gl := newTestDevice(t)
	tp, err := grok.NewTexturePack(d)
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewGray(image.Rect(10, 10, 13, 12))
	img.Set(10, 10, color.Gray{Y: 200})
	view, err := tp.AddImage(d, img)
	if err != nil {
		t.Fatal(err)
	}
	if view.Size() != [2]uint32{3, 2} {
		t.Errorf("expected 3x2 view, got %v", view.Size())
	}
	px := gl.Textures[view.Handle()].Pixels
	at := 4 * (1*grok.DefaultDim + 1)
	if px[at] != 200 || px[at+3] != 255 {
		t.Errorf("expected converted gray texel, got %v", px[at:at+4])
	}
}

func TestTexturePackLargeOpenAtlas(t *testing.T) {
	d, gl := newTestDevice(t)
	tp, err := grok.NewTexturePack(d, grok.WithSize(2048, 2048))
	if err != nil {
		t.Fatal(err)
	}

	view, err := tp.AddImageData(d, 1500, 1500, make([]byte, 1500*1500*4))
	if err != nil {
		t.Fatalf("image fits the open atlas: %v", err)
	}
	obj := gl.Textures[view.Handle()]
	if obj.Width != 2048 || obj.Height != 2048 {
		t.Errorf("expected the 2048 atlas, got %dx%d", obj.Width, obj.Height)
	}

	// The 1500 image left no room, and a new atlas cannot exceed DefaultDim.
	if _, err := tp.AddImageData(d, 1500, 1500, make([]byte, 1500*1500*4)); !errors.Is(err, grok.ErrInvalidTextureSize) {
		t.Errorf("expected ErrInvalidTextureSize, got %v", err)
	}
}

func TestTexturePackAddImageStraightAlpha(t *testing.T) {
	d, gl := newTestDevice(t)
	tp, err := grok.NewTexturePack(d)
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 64, A: 128})
	view, err := tp.AddImage(d, img)
	if err != nil {
		t.Fatal(err)
	}
	px := gl.Textures[view.Handle()].Pixels
	at := 4 * (1*grok.DefaultDim + 1)
	if r := px[at]; r < 126 || r > 128 || px[at+3] != 128 {
		t.Errorf("expected non-premultiplied texel, got %v", px[at:at+4])
	}
}
