// Package opengl implements glapi.Backend on top of the go-gl OpenGL 4.1
// core bindings, and opens GLFW windows with a matching context.
package opengl

import (
	"image"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/vangroan/grok-glow/glapi"
)

// Backend forwards glapi calls to the go-gl bindings. The zero value is
// ready to use once gl.Init has succeeded on the current context.
type Backend struct{}

// NewBackend loads the GL function pointers for the current context.
func NewBackend() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Backend{}, nil
}

var _ glapi.Backend = (*Backend)(nil)

func (*Backend) FrontFace(mode glapi.Enum) { gl.FrontFace(mode) }
func (*Backend) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*Backend) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (*Backend) Clear(mask glapi.Enum) { gl.Clear(mask) }
func (*Backend) GetError() glapi.Enum { return gl.GetError() }
func (*Backend) UseProgram(program uint32) { gl.UseProgram(program) }
func (*Backend) Uniform2f(location int32, v0, v1 float32) { gl.Uniform2f(location, v0, v1) }
func (*Backend) ActiveTexture(unit glapi.Enum) { gl.ActiveTexture(unit) }

func (*Backend) GetInteger(pname glapi.Enum) int32 {
	var v int32
	gl.GetIntegerv(pname, &v)
	return v
}

func (*Backend) GetString(name glapi.Enum) string {
	if s := gl.GetString(name); s != nil {
		return gl.GoStr(s)
	}
	return ""
}

func (*Backend) GetStringi(name glapi.Enum, index uint32) string {
	if s := gl.GetStringi(name, index); s != nil {
		return gl.GoStr(s)
	}
	return ""
}

func (*Backend) CreateShader(typ glapi.Enum) uint32 { return gl.CreateShader(typ) }

func (*Backend) ShaderSource(shader uint32, source string) {
	csource, free := gl.Strs(terminated(source))
	defer free()
	gl.ShaderSource(shader, 1, csource, nil)
}

func (*Backend) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*Backend) GetShaderi(shader uint32, pname glapi.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (b *Backend) GetShaderInfoLog(shader uint32) string {
	n := b.GetShaderi(shader, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	log := make([]byte, n+1)
	gl.GetShaderInfoLog(shader, n, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (*Backend) DeleteShader(shader uint32) { gl.DeleteShader(shader) }
func (*Backend) CreateProgram() uint32 { return gl.CreateProgram() }
func (*Backend) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (*Backend) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }
func (*Backend) LinkProgram(program uint32) { gl.LinkProgram(program) }
func (*Backend) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*Backend) GetProgrami(program uint32, pname glapi.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (b *Backend) GetProgramInfoLog(program uint32) string {
	n := b.GetProgrami(program, gl.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	log := make([]byte, n+1)
	gl.GetProgramInfoLog(program, n, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (*Backend) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(terminated(name)))
}

func (*Backend) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(terminated(name)))
}

func (*Backend) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*Backend) BindBuffer(target glapi.Enum, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*Backend) BufferData(target glapi.Enum, data []byte, usage glapi.Enum) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (*Backend) BufferSubData(target glapi.Enum, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(target, offset, len(data), ptr(data))
}

func (*Backend) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (*Backend) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*Backend) BindVertexArray(array uint32) { gl.BindVertexArray(array) }
func (*Backend) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }
func (*Backend) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (*Backend) VertexAttribPointer(index uint32, size int32, typ glapi.Enum, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, typ, normalized, stride, offset)
}

func (*Backend) CreateTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (*Backend) BindTexture(target glapi.Enum, texture uint32) { gl.BindTexture(target, texture) }
func (*Backend) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (*Backend) TexImage2D(target glapi.Enum, level, internalFormat, width, height int32, format, typ glapi.Enum, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, typ, ptr(pixels))
}

func (*Backend) TexSubImage2D(target glapi.Enum, level, x, y, width, height int32, format, typ glapi.Enum, pixels []byte) {
	gl.TexSubImage2D(target, level, x, y, width, height, format, typ, ptr(pixels))
}

func (*Backend) TexParameteri(target, pname glapi.Enum, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*Backend) DrawElements(mode glapi.Enum, count int32, typ glapi.Enum, offset uintptr) {
	gl.DrawElementsWithOffset(mode, count, typ, offset)
}

// ReadPixels reads the lower-left width x height region of the framebuffer.
// Rows are flipped so the result has its origin at the top-left.
func (*Backend) ReadPixels(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return img
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	stride := img.Stride
	row := make([]byte, stride)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*stride : (y+1)*stride]
		bottom := img.Pix[(height-1-y)*stride : (height-y)*stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return img
}

// EnableAlphaBlend turns on straight alpha blending.
func (*Backend) EnableAlphaBlend() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// ptr returns a pointer to the first byte of data, or nil when it is
// empty. gl.Ptr panics on empty slices.
func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

// terminated appends the NUL terminator go-gl expects on Go strings.
func terminated(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}
