// Example draws a grid of sprites packed into a texture atlas.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//
// Image files (PNG, BMP or WebP) given as arguments are packed alongside
// the generated artwork:
//
//	go run ./example/ -config example/config.yaml a.png b.webp
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"runtime"

	grok "github.com/vangroan/grok-glow"
	"github.com/vangroan/grok-glow/backend/opengl"
	"github.com/vangroan/grok-glow/internal/log"
)

const statsInterval = 300 // frames

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	lg, err := log.New(log.Options{Level: cfg.Log.Level, Dir: cfg.Log.Dir, Stderr: os.Stderr})
	if err != nil {
		return err
	}
	defer lg.Close()

	// Decoding does not need the GL context.
	files, err := decodeImages(context.Background(), cfg.Sprites.Images)
	if err != nil {
		return err
	}

	win, err := opengl.NewWindow(opengl.WindowConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()
	win.Backend().EnableAlphaBlend()

	fbWidth, fbHeight := win.FramebufferSize()
	d := grok.NewDevice(win.Backend(),
		grok.WithLogger(lg.Logger),
		grok.WithDebug(cfg.Debug),
		grok.WithViewportSize(fbWidth, fbHeight))
	win.OnResize(d.SetViewportSize)
	lg.Info(d.OpenGLInfo().String())

	s, err := newScene(d, cfg, files)
	if err != nil {
		d.Close()
		return err
	}

	frame := 0
	for {
		if err := d.Maintain(); err != nil {
			lg.Error("maintain", slog.Any("error", err))
		}
		d.Clear(grok.RGBA(30, 30, 36, 255))
		s.draw(d)

		if frame++; frame%statsInterval == 0 {
			st, ps := s.batch.Stats(), s.pack.Stats()
			lg.Debug("frame", slog.Int("frame", frame), slog.Int("sprites", st.Sprites),
				slog.Int("flushes", st.Flushes), slog.Int("atlases", ps.Open+ps.Closed))
		}
		if !win.Frame() {
			break
		}
	}

	// Stop drawing, let every owner go, then drain and close.
	if err := d.Shutdown(); err != nil {
		lg.Error("shutdown", slog.Any("error", err))
	}
	s.release()
	return d.Close()
}

// scene owns every GPU resource the example draws with.
type scene struct {
	shader  *grok.Shader
	pack    *grok.TexturePack
	batch   *grok.SpriteBatch
	views   []*grok.Texture
	sprites []grok.Sprite
}

func newScene(d *grok.Device, cfg Config, files []image.Image) (_ *scene, err error) {
	s := &scene{}
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	if s.shader, err = grok.NewShader(d, grok.SpriteVertexShader, grok.SpriteFragmentShader); err != nil {
		return nil, err
	}
	if s.pack, err = grok.NewTexturePack(d,
		grok.WithSize(cfg.Atlas.Size, cfg.Atlas.Size),
		grok.WithPadding(cfg.Atlas.Padding)); err != nil {
		return nil, err
	}
	if s.batch, err = grok.NewSpriteBatch(d); err != nil {
		return nil, err
	}

	images := append(proceduralImages(9, int(cfg.Sprites.Size)), files...)
	for i, img := range images {
		view, err := s.pack.AddImage(d, img)
		if err != nil {
			d.Logger().Warn("skipping image", slog.Int("index", i), slog.Any("error", err))
			continue
		}
		s.views = append(s.views, view)
	}
	if len(s.views) == 0 {
		return nil, fmt.Errorf("no images could be packed")
	}

	size := cfg.Sprites.Size
	gap := int32(size / 4)
	for row := range cfg.Sprites.Rows {
		for col := range cfg.Sprites.Columns {
			sp := grok.NewSprite(
				[2]int32{gap + int32(col)*(int32(size)+gap), gap + int32(row)*(int32(size)+gap)},
				[2]uint32{size, size})
			sp.SetTexture(s.views[(row*cfg.Sprites.Columns+col)%len(s.views)])
			s.sprites = append(s.sprites, sp)
		}
	}
	return s, nil
}

func (s *scene) draw(d *grok.Device) {
	for _, sp := range s.sprites {
		s.batch.Add(sp)
	}
	s.batch.Draw(d, s.shader)
}

func (s *scene) release() {
	for _, v := range s.views {
		v.Release()
	}
	s.views, s.sprites = nil, nil
	if s.batch != nil {
		s.batch.Release()
	}
	if s.pack != nil {
		s.pack.Release()
	}
	if s.shader != nil {
		s.shader.Release()
	}
}
