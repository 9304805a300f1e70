package opengl

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowConfig describes the window opened by NewWindow.
type WindowConfig struct {
	Title         string
	Width, Height int
	VSync         bool
	// Hidden opens an invisible window, for offscreen rendering.
	Hidden bool
}

// Window is a GLFW window with a current OpenGL 4.1 core context.
//
// GLFW must be driven from the main thread: call runtime.LockOSThread in
// an init function of the program's main package.
type Window struct {
	*glfw.Window
	backend *Backend

	onResize func(width, height int)
}

// NewWindow initializes GLFW, opens a window, makes its context current
// and loads the GL bindings. Call Destroy when done.
func NewWindow(cfg WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	backend, err := NewBackend()
	if err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	w := &Window{Window: win, backend: backend}
	win.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	win.SetKeyCallback(w.keyCallback)
	return w, nil
}

// Backend returns the GL backend bound to the window's context.
func (w *Window) Backend() *Backend {
	return w.backend
}

// OnResize registers a callback for framebuffer size changes, typically
// Device.SetViewportSize.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = fn
}

// FramebufferSize returns the size of the framebuffer in pixels, which may
// differ from the window size on high DPI displays.
func (w *Window) FramebufferSize() (width, height int) {
	return w.GetFramebufferSize()
}

// Frame swaps the buffers and polls events. It reports whether the window
// should stay open.
func (w *Window) Frame() bool {
	w.SwapBuffers()
	glfw.PollEvents()
	return !w.ShouldClose()
}

// Destroy closes the window and terminates GLFW.
func (w *Window) Destroy() {
	w.Window.Destroy()
	glfw.Terminate()
}

func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *Window) keyCallback(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		win.SetShouldClose(true)
	}
}
