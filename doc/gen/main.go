// Command gen renders sample sprite scenes offscreen, captures framebuffer
// pixels, and saves JPEG screenshots to doc/imgs/.
//
// Usage:
//
//	devbox shell
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"

	grok "github.com/vangroan/grok-glow"
	"github.com/vangroan/grok-glow/backend/opengl"
	"github.com/vangroan/grok-glow/internal/pattern"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot defines a single scene to capture.
type screenshot struct {
	name   string // filename without extension
	width  int    // viewport width
	height int    // viewport height
	draw   func(r *resources, b *grok.SpriteBatch)
}

// resources are shared by every scene.
type resources struct {
	atlas    *grok.Texture   // whole first atlas page
	views    []*grok.Texture // packed images
	checker  *grok.Texture   // standalone texture
	quarters []*grok.Texture // sub views of checker
}

func run() error {
	// The hidden window stays at 800x600, larger than every screenshot.
	win, err := opengl.NewWindow(opengl.WindowConfig{Title: "screenshot-gen", Width: 800, Height: 600, Hidden: true})
	if err != nil {
		return err
	}
	defer win.Destroy()
	win.Backend().EnableAlphaBlend()

	d := grok.NewDevice(win.Backend())
	shader, err := grok.NewShader(d, grok.SpriteVertexShader, grok.SpriteFragmentShader)
	if err != nil {
		return err
	}
	batch, err := grok.NewSpriteBatch(d)
	if err != nil {
		return err
	}
	pack, err := grok.NewTexturePack(d, grok.WithSize(256, 256))
	if err != nil {
		return err
	}
	res, err := loadResources(d, pack)
	if err != nil {
		return err
	}

	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	shots := buildScreenshots()
	for _, s := range shots {
		if err := capture(d, win.Backend(), batch, shader, res, s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.jpg (%dx%d)\n", s.name, s.width, s.height)
	}

	if err := d.Shutdown(); err != nil {
		return err
	}
	res.release()
	pack.Release()
	batch.Release()
	shader.Release()
	if err := d.Close(); err != nil {
		return err
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

func loadResources(d *grok.Device, pack *grok.TexturePack) (*resources, error) {
	res := &resources{}
	dark := color.RGBA{R: 20, G: 20, B: 24, A: 255}
	for i, c := range pattern.Palette(12) {
		var img image.Image
		switch i % 3 {
		case 0:
			img = pattern.Checker(48, 48, 12, c, dark)
		case 1:
			img = pattern.Gradient(48, 48, c, dark)
		default:
			img = pattern.Disc(48, 48, c)
		}
		view, err := pack.AddImage(d, img)
		if err != nil {
			return nil, err
		}
		res.views = append(res.views, view)
	}

	pages := pack.Pages()
	res.atlas = pages[0]
	for _, p := range pages[1:] {
		p.Release()
	}

	checker, err := grok.NewTexture(d, 64, 64)
	if err != nil {
		return nil, err
	}
	white := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	if err := checker.UpdateImage(d, pattern.Checker(64, 64, 8, white, color.RGBA{R: 200, A: 255})); err != nil {
		return nil, err
	}
	res.checker = checker
	for _, pos := range [][2]uint32{{0, 0}, {32, 0}, {0, 32}, {32, 32}} {
		q, err := checker.NewSub(pos, [2]uint32{32, 32})
		if err != nil {
			return nil, err
		}
		res.quarters = append(res.quarters, q)
	}
	return res, nil
}

func (r *resources) release() {
	for _, v := range r.views {
		v.Release()
	}
	for _, q := range r.quarters {
		q.Release()
	}
	r.atlas.Release()
	r.checker.Release()
}

func capture(d *grok.Device, gl *opengl.Backend, b *grok.SpriteBatch, shader *grok.Shader, res *resources, s screenshot, outDir string) error {
	d.SetViewportSize(s.width, s.height)
	if err := d.Maintain(); err != nil {
		return err
	}
	d.Clear(grok.RGBA(30, 30, 36, 255))
	s.draw(res, b)
	b.Draw(d, shader)

	img := gl.ReadPixels(s.width, s.height)

	path := filepath.Join(outDir, s.name+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func sprite(x, y int32, w, h uint32, tex *grok.Texture) grok.Sprite {
	s := grok.NewSprite([2]int32{x, y}, [2]uint32{w, h})
	s.SetTexture(tex)
	return s
}

// buildScreenshots returns the scenes to capture.
func buildScreenshots() []screenshot {
	return []screenshot{
		{
			name: "grid", width: 480, height: 320,
			draw: func(r *resources, b *grok.SpriteBatch) {
				for row := range 6 {
					for col := range 9 {
						tex := r.views[(row*9+col)%len(r.views)]
						b.Add(sprite(int32(12+col*52), int32(8+row*52), 48, 48, tex))
					}
				}
			},
		},
		{
			name: "atlas", width: 272, height: 272,
			draw: func(r *resources, b *grok.SpriteBatch) {
				b.Add(sprite(8, 8, 256, 256, r.atlas))
			},
		},
		{
			name: "sub-textures", width: 320, height: 160,
			draw: func(r *resources, b *grok.SpriteBatch) {
				b.Add(sprite(8, 8, 128, 128, r.checker))
				for i, q := range r.quarters {
					b.Add(sprite(int32(152+(i%2)*80), int32(8+(i/2)*72), 64, 64, q))
				}
			},
		},
		{
			name: "scaled", width: 400, height: 200,
			draw: func(r *resources, b *grok.SpriteBatch) {
				for i, v := range r.views[:4] {
					size := uint32(24 * (i + 1))
					b.Add(sprite(int32(8+i*(i+1)*12), 8, size, size, v))
				}
			},
		},
	}
}
