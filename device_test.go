package grok_test

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	grok "github.com/vangroan/grok-glow"
	"github.com/vangroan/grok-glow/glapi"
	"github.com/vangroan/grok-glow/internal/gltest"
)

func TestDeviceSetup(t *testing.T) {
	d, gl := newTestDevice(t)

	if gl.FrontFaceMode != glapi.CCW {
		t.Errorf("expected counter-clockwise front face, got %x", gl.FrontFaceMode)
	}
	if !d.HasExtension(glapi.ExtTextureNonPowerOfTwo) {
		t.Error("expected non-power-of-two extension to be detected")
	}
	if d.HasExtension("GL_made_up") {
		t.Error("unexpected extension")
	}
	exts := d.Extensions()
	slices.Sort(exts)
	if len(exts) != 2 {
		t.Errorf("expected 2 extensions, got %v", exts)
	}
	if w, h := d.ViewportSize(); w != 640 || h != 480 {
		t.Errorf("expected default viewport 640x480, got %dx%d", w, h)
	}

	info := d.OpenGLInfo()
	if info.Vendor != "gltest" || !strings.Contains(info.String(), "Renderer: fake") {
		t.Errorf("unexpected info %q", info)
	}
}

func TestDeviceClear(t *testing.T) {
	d, gl := newTestDevice(t)
	d.SetViewportSize(320, 200)
	if gl.ViewportRect != [4]int32{} {
		t.Error("SetViewportSize must not touch GL")
	}

	d.Clear(grok.Black)
	if gl.ViewportRect != [4]int32{0, 0, 320, 200} {
		t.Errorf("unexpected viewport %v", gl.ViewportRect)
	}
	if gl.Clears != 1 || gl.ClearColorVal != grok.Black {
		t.Errorf("unexpected clear: %d %v", gl.Clears, gl.ClearColorVal)
	}
}

func TestDeviceMaintainDeletesByKind(t *testing.T) {
	d, gl := newTestDevice(t)

	tex, err := grok.NewTexture(d, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	vb, err := grok.NewQuadVertexBuffer(d, 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	shader, err := grok.NewShader(d, grok.SpriteVertexShader, grok.SpriteFragmentShader)
	if err != nil {
		t.Fatal(err)
	}

	tex.Release()
	vb.Release()
	shader.Release()
	if len(gl.Deleted["texture"]) != 0 {
		t.Fatal("release must not delete before Maintain")
	}

	if err := d.Maintain(); err != nil {
		t.Fatal(err)
	}
	if got := gl.Deleted["texture"]; len(got) != 1 || got[0] != tex.Handle() {
		t.Errorf("unexpected texture deletes %v", got)
	}
	if got := gl.Deleted["program"]; len(got) != 1 || got[0] != shader.Program() {
		t.Errorf("unexpected program deletes %v", got)
	}
	if got := gl.Deleted["vertex array"]; len(got) != 1 || got[0] != vb.VAO() {
		t.Errorf("unexpected vertex array deletes %v", got)
	}
	if got := gl.Deleted["buffer"]; len(got) != 2 {
		t.Errorf("expected both buffers deleted, got %v", got)
	}

	// Nothing left to delete.
	before := len(gl.Deleted["texture"])
	if err := d.Maintain(); err != nil {
		t.Fatal(err)
	}
	if len(gl.Deleted["texture"]) != before {
		t.Error("expected second Maintain to be a no-op")
	}
}

func TestDeviceMaintainReportsGLError(t *testing.T) {
	d, gl := newTestDevice(t)
	gl.Errors = []glapi.Enum{glapi.OUT_OF_MEMORY}

	err := d.Maintain()
	var glErr *grok.OpenGLError
	if !errors.As(err, &glErr) || glErr.Code != glapi.OUT_OF_MEMORY {
		t.Errorf("expected OUT_OF_MEMORY, got %v", err)
	}
}

func TestDeviceConcurrentRelease(t *testing.T) {
	d, gl := newTestDevice(t)

	var textures []*grok.Texture
	for range 32 {
		tex, err := grok.NewTexture(d, 4, 4)
		if err != nil {
			t.Fatal(err)
		}
		textures = append(textures, tex)
	}

	var wg sync.WaitGroup
	for _, tex := range textures {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tex.Release()
		}()
	}
	wg.Wait()

	if err := d.Maintain(); err != nil {
		t.Fatal(err)
	}
	if len(gl.Textures) != 0 {
		t.Errorf("expected all textures deleted, %d remain", len(gl.Textures))
	}
}

func TestDeviceSendAfterClose(t *testing.T) {
	d, _ := newTestDevice(t)
	sender := d.DestroySender()
	if err := sender.Send(grok.Destroy{Kind: grok.DestroyBuffer, Handle: 99}); err != nil {
		t.Fatal(err)
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("expected second Close to succeed, got %v", err)
	}
	if !d.ShuttingDown() {
		t.Error("expected closed device to be shutting down")
	}

	err := sender.Send(grok.Destroy{Kind: grok.DestroyBuffer, Handle: 100})
	if !errors.Is(err, grok.ErrDeviceClosed) {
		t.Errorf("expected ErrDeviceClosed, got %v", err)
	}
}

func TestDeviceReleaseAfterClosePanics(t *testing.T) {
	gl := gltest.New()
	d := grok.NewDevice(gl)
	tex, err := grok.NewTexture(d, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, grok.ErrDeviceClosed) {
			t.Errorf("expected ErrDeviceClosed panic, got %v", r)
		}
	}()
	tex.Release()
}

func TestDestroyKindString(t *testing.T) {
	kinds := map[grok.DestroyKind]string{
		grok.DestroyTexture:     "texture",
		grok.DestroyShader:      "shader",
		grok.DestroyVertexArray: "vertex array",
		grok.DestroyBuffer:      "buffer",
		grok.DestroyKind(42):    "DestroyKind(42)",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("expected %q, got %q", want, k.String())
		}
	}
}
