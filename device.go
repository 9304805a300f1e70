package grok

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vangroan/grok-glow/glapi"
)

// Device is the single point of access to the GL backend and decides when
// GPU objects are actually deleted.
//
// A Device is bound to the GL context's thread: create it and call all of
// its methods (and those of every resource created from it) on the
// goroutine that holds the context, locked with runtime.LockOSThread.
type Device struct {
	gl         glapi.Backend
	lg         *slog.Logger
	extensions map[string]struct{}
	queue      *destroyQueue
	scratch    []Destroy

	width, height int
	debug         bool
	shuttingDown  bool
	closed        bool
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithLogger sets the logger used by the device and its resources.
func WithLogger(lg *slog.Logger) DeviceOption {
	return func(d *Device) {
		if lg != nil {
			d.lg = lg
		}
	}
}

// WithDebug enables GL error assertions on the draw path. A GL error
// raised while drawing panics instead of being silently ignored.
func WithDebug(debug bool) DeviceOption {
	return func(d *Device) { d.debug = debug }
}

// WithViewportSize sets the initial viewport size.
func WithViewportSize(width, height int) DeviceOption {
	return func(d *Device) { d.width, d.height = width, height }
}

// NewDevice wraps a GL backend whose context is current on the calling
// thread.
func NewDevice(gl glapi.Backend, opts ...DeviceOption) *Device {
	d := &Device{
		gl:         gl,
		lg:         slog.New(slog.DiscardHandler),
		extensions: make(map[string]struct{}),
		width:      640,
		height:     480,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = newDestroyQueue(d.lg)

	n := gl.GetInteger(glapi.NUM_EXTENSIONS)
	for i := range n {
		d.extensions[gl.GetStringi(glapi.EXTENSIONS, uint32(i))] = struct{}{}
	}

	// Counter-clockwise winding, matching the quads the batch emits.
	gl.FrontFace(glapi.CCW)

	d.lg.Info("graphics device created", slog.Int("extensions", len(d.extensions)),
		slog.Int("width", d.width), slog.Int("height", d.height))
	return d
}

// Backend returns the GL backend the device drives.
func (d *Device) Backend() glapi.Backend {
	return d.gl
}

// Logger returns the device logger.
func (d *Device) Logger() *slog.Logger {
	return d.lg
}

// HasExtension reports whether the context advertises the named extension.
func (d *Device) HasExtension(name string) bool {
	_, ok := d.extensions[name]
	return ok
}

// Extensions returns the advertised extensions.
func (d *Device) Extensions() []string {
	exts := make([]string, 0, len(d.extensions))
	for ext := range d.extensions {
		exts = append(exts, ext)
	}
	return exts
}

// OpenGLInfo describes the driver behind the context.
type OpenGLInfo struct {
	Version  string
	Vendor   string
	Renderer string
}

func (info OpenGLInfo) String() string {
	var sb strings.Builder
	sb.WriteString("OpenGL Info:\n")
	fmt.Fprintf(&sb, "    Version: %s\n", info.Version)
	fmt.Fprintf(&sb, "    Vendor: %s\n", info.Vendor)
	fmt.Fprintf(&sb, "    Renderer: %s\n", info.Renderer)
	return sb.String()
}

// OpenGLInfo queries the driver strings.
func (d *Device) OpenGLInfo() OpenGLInfo {
	info := OpenGLInfo{
		Version:  d.gl.GetString(glapi.VERSION),
		Vendor:   d.gl.GetString(glapi.VENDOR),
		Renderer: d.gl.GetString(glapi.RENDERER),
	}
	d.assertGL("opengl info")
	return info
}

// DestroySender returns the producer side of the destruction queue.
func (d *Device) DestroySender() DestroySender {
	return DestroySender{q: d.queue}
}

// SetViewportSize updates the cached viewport size. It does not call GL;
// the size is applied on the next Clear or Draw.
func (d *Device) SetViewportSize(width, height int) {
	d.width, d.height = width, height
}

// ViewportSize returns the cached viewport size.
func (d *Device) ViewportSize() (width, height int) {
	return d.width, d.height
}

// ShuttingDown reports whether Shutdown has been called.
func (d *Device) ShuttingDown() bool {
	return d.shuttingDown
}

// Clear applies the viewport and clears the color buffer.
func (d *Device) Clear(color [4]float32) {
	d.applyViewport()
	d.gl.ClearColor(color[0], color[1], color[2], color[3])
	d.gl.Clear(glapi.COLOR_BUFFER_BIT)
	d.assertGL("clear")
}

func (d *Device) applyViewport() {
	d.gl.Viewport(0, 0, int32(d.width), int32(d.height))
}

// Maintain deletes every GL object whose owner has been released since the
// last call. Call it once per frame, before drawing.
func (d *Device) Maintain() error {
	d.scratch = d.queue.drain(d.scratch[:0])
	for _, res := range d.scratch {
		switch res.Kind {
		case DestroyTexture:
			d.gl.DeleteTexture(res.Handle)
		case DestroyShader:
			d.gl.DeleteProgram(res.Handle)
		case DestroyVertexArray:
			d.gl.DeleteVertexArray(res.Handle)
		case DestroyBuffer:
			d.gl.DeleteBuffer(res.Handle)
		}
		d.lg.Debug("destroyed", slog.String("kind", res.Kind.String()), slog.Uint64("handle", uint64(res.Handle)))
	}
	clear(d.scratch)

	if err := glError(d.gl); err != nil {
		return fmt.Errorf("maintain: %w", err)
	}
	return nil
}

// Shutdown turns subsequent draws into no-ops and drains the destruction
// queue. Release every resource owner before calling Close.
func (d *Device) Shutdown() error {
	d.shuttingDown = true
	return d.Maintain()
}

// Close shuts the device down, performs a final drain and closes the
// destruction queue. Releasing a resource after Close panics.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	err := d.Shutdown()
	if n := d.queue.close(); n > 0 {
		d.lg.Error("destruction queue closed with pending resources", slog.Int("pending", n))
	}
	d.closed = true
	d.lg.Info("graphics device closed")
	return err
}

// drawFailed reports a GL failure on the draw path: a panic with debug
// assertions enabled, an error log otherwise.
func (d *Device) drawFailed(op string, err error) {
	if d.debug {
		panic(fmt.Errorf("%s: %w", op, err))
	}
	d.lg.Error("draw failed", slog.String("op", op), slog.Any("error", err))
}

// assertGL panics on a pending GL error when debug assertions are enabled.
func (d *Device) assertGL(op string) {
	if !d.debug {
		return
	}
	if err := glError(d.gl); err != nil {
		panic(fmt.Errorf("%s: %w", op, err))
	}
}
