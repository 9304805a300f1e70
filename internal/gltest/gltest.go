// Package gltest provides an in-memory glapi.Backend for tests. It hands
// out object names, tracks bindings and object contents, and records the
// calls the renderer cares about, without a GL context.
package gltest

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vangroan/grok-glow/glapi"
)

// TextureObject is a texture created through the backend.
type TextureObject struct {
	Width, Height int32
	Pixels        []byte
	Params        map[glapi.Enum]int32
}

// Upload records a TexSubImage2D call.
type Upload struct {
	Texture             uint32
	X, Y, Width, Height int32
	Len                 int
}

// DrawCall records a DrawElements call together with the state it used.
type DrawCall struct {
	Mode     glapi.Enum
	Count    int32
	Type     glapi.Enum
	Program  uint32
	VAO      uint32
	Texture  uint32
	Unit     glapi.Enum
	Indices  []uint16
	Vertices []byte
}

// Uniform records a Uniform2f call.
type Uniform struct {
	Program  uint32
	Location int32
	V0, V1   float32
}

// Attrib records a VertexAttribPointer call.
type Attrib struct {
	VAO        uint32
	Buffer     uint32
	Index      uint32
	Size       int32
	Type       glapi.Enum
	Normalized bool
	Stride     int32
	Offset     uintptr
}

type vertexArray struct {
	elementBuffer uint32
	enabled       map[uint32]bool
}

type shaderObject struct {
	typ      glapi.Enum
	source   string
	compiled bool
}

type programObject struct {
	attached []uint32
	linked   bool
}

// Backend is a fake glapi.Backend.
type Backend struct {
	// Extensions advertised through GetStringi.
	Extensions []string
	// MaxTextureSize reported for MAX_TEXTURE_SIZE.
	MaxTextureSize int32
	Vendor         string
	Renderer       string
	Version        string

	// CompileError makes every shader whose source contains it fail to
	// compile with it as the info log.
	CompileError string
	// LinkError makes every link fail with it as the info log.
	LinkError string
	// FailCreate makes Create* calls of the named kind return 0
	// ("texture", "buffer", "vertex array", "program", "shader").
	FailCreate map[string]bool
	// Errors are returned by GetError in order, then NO_ERROR.
	Errors []glapi.Enum

	Textures     map[uint32]*TextureObject
	Buffers      map[uint32][]byte
	VertexArrays map[uint32]*vertexArray
	Shaders      map[uint32]*shaderObject
	Programs     map[uint32]*programObject

	Uploads  []Upload
	Draws    []DrawCall
	Uniforms []Uniform
	Attribs  []Attrib
	Deleted  map[string][]uint32

	FrontFaceMode glapi.Enum
	ViewportRect  [4]int32
	ClearColorVal [4]float32
	Clears        int

	BoundTexture     uint32
	ActiveUnit       glapi.Enum
	BoundArrayBuffer uint32
	BoundVAO         uint32
	CurrentProgram   uint32

	next uint32
}

// New returns a backend advertising the non-power-of-two extension.
func New() *Backend {
	return &Backend{
		Extensions:     []string{glapi.ExtTextureNonPowerOfTwo, "GL_ARB_debug_output"},
		MaxTextureSize: 16384,
		Vendor:         "gltest",
		Renderer:       "fake",
		Version:        "4.1 gltest",
		FailCreate:     map[string]bool{},
		Textures:       map[uint32]*TextureObject{},
		Buffers:        map[uint32][]byte{},
		VertexArrays:   map[uint32]*vertexArray{},
		Shaders:        map[uint32]*shaderObject{},
		Programs:       map[uint32]*programObject{},
		Deleted:        map[string][]uint32{},
		ActiveUnit:     glapi.TEXTURE0,
	}
}

func (b *Backend) name(kind string) uint32 {
	if b.FailCreate[kind] {
		return 0
	}
	b.next++
	return b.next
}

// Live returns the number of live objects per kind.
func (b *Backend) Live() map[string]int {
	return map[string]int{
		"texture":      len(b.Textures),
		"buffer":       len(b.Buffers),
		"vertex array": len(b.VertexArrays),
		"shader":       len(b.Shaders),
		"program":      len(b.Programs),
	}
}

func (b *Backend) FrontFace(mode glapi.Enum) { b.FrontFaceMode = mode }

func (b *Backend) Viewport(x, y, width, height int32) {
	b.ViewportRect = [4]int32{x, y, width, height}
}

func (b *Backend) ClearColor(r, g, bl, a float32) { b.ClearColorVal = [4]float32{r, g, bl, a} }

func (b *Backend) Clear(mask glapi.Enum) {
	if mask&glapi.COLOR_BUFFER_BIT != 0 {
		b.Clears++
	}
}

func (b *Backend) GetError() glapi.Enum {
	if len(b.Errors) == 0 {
		return glapi.NO_ERROR
	}
	err := b.Errors[0]
	b.Errors = b.Errors[1:]
	return err
}

func (b *Backend) GetInteger(pname glapi.Enum) int32 {
	switch pname {
	case glapi.TEXTURE_BINDING_2D:
		return int32(b.BoundTexture)
	case glapi.ARRAY_BUFFER_BINDING:
		return int32(b.BoundArrayBuffer)
	case glapi.VERTEX_ARRAY_BINDING:
		return int32(b.BoundVAO)
	case glapi.CURRENT_PROGRAM:
		return int32(b.CurrentProgram)
	case glapi.NUM_EXTENSIONS:
		return int32(len(b.Extensions))
	case glapi.MAX_TEXTURE_SIZE:
		return b.MaxTextureSize
	}
	b.Errors = append(b.Errors, glapi.INVALID_ENUM)
	return 0
}

func (b *Backend) GetString(name glapi.Enum) string {
	switch name {
	case glapi.VENDOR:
		return b.Vendor
	case glapi.RENDERER:
		return b.Renderer
	case glapi.VERSION:
		return b.Version
	}
	b.Errors = append(b.Errors, glapi.INVALID_ENUM)
	return ""
}

func (b *Backend) GetStringi(name glapi.Enum, index uint32) string {
	if name != glapi.EXTENSIONS || int(index) >= len(b.Extensions) {
		b.Errors = append(b.Errors, glapi.INVALID_VALUE)
		return ""
	}
	return b.Extensions[index]
}

func (b *Backend) CreateShader(typ glapi.Enum) uint32 {
	h := b.name("shader")
	if h != 0 {
		b.Shaders[h] = &shaderObject{typ: typ}
	}
	return h
}

func (b *Backend) ShaderSource(shader uint32, source string) {
	if s, ok := b.Shaders[shader]; ok {
		s.source = source
	}
}

func (b *Backend) CompileShader(shader uint32) {
	s, ok := b.Shaders[shader]
	if !ok {
		b.Errors = append(b.Errors, glapi.INVALID_VALUE)
		return
	}
	s.compiled = b.CompileError == "" || !strings.Contains(s.source, b.CompileError)
}

func (b *Backend) GetShaderi(shader uint32, pname glapi.Enum) int32 {
	s, ok := b.Shaders[shader]
	if !ok {
		return 0
	}
	switch pname {
	case glapi.COMPILE_STATUS:
		if s.compiled {
			return glapi.TRUE
		}
		return glapi.FALSE
	case glapi.INFO_LOG_LENGTH:
		return int32(len(b.CompileError))
	}
	return 0
}

func (b *Backend) GetShaderInfoLog(shader uint32) string {
	if s, ok := b.Shaders[shader]; ok && !s.compiled {
		return b.CompileError + "\x00"
	}
	return ""
}

func (b *Backend) DeleteShader(shader uint32) {
	delete(b.Shaders, shader)
	b.Deleted["shader"] = append(b.Deleted["shader"], shader)
}

func (b *Backend) CreateProgram() uint32 {
	h := b.name("program")
	if h != 0 {
		b.Programs[h] = &programObject{}
	}
	return h
}

func (b *Backend) AttachShader(program, shader uint32) {
	if p, ok := b.Programs[program]; ok {
		p.attached = append(p.attached, shader)
	}
}

func (b *Backend) DetachShader(program, shader uint32) {
	if p, ok := b.Programs[program]; ok {
		p.attached = slices.DeleteFunc(p.attached, func(s uint32) bool { return s == shader })
	}
}

func (b *Backend) LinkProgram(program uint32) {
	if p, ok := b.Programs[program]; ok {
		p.linked = b.LinkError == ""
	}
}

func (b *Backend) GetProgrami(program uint32, pname glapi.Enum) int32 {
	p, ok := b.Programs[program]
	if !ok {
		return 0
	}
	switch pname {
	case glapi.LINK_STATUS:
		if p.linked {
			return glapi.TRUE
		}
		return glapi.FALSE
	case glapi.INFO_LOG_LENGTH:
		return int32(len(b.LinkError))
	}
	return 0
}

func (b *Backend) GetProgramInfoLog(program uint32) string {
	if p, ok := b.Programs[program]; ok && !p.linked {
		return b.LinkError
	}
	return ""
}

func (b *Backend) DeleteProgram(program uint32) {
	delete(b.Programs, program)
	b.Deleted["program"] = append(b.Deleted["program"], program)
}

// Attached returns the shaders still attached to a program.
func (b *Backend) Attached(program uint32) []uint32 {
	if p, ok := b.Programs[program]; ok {
		return p.attached
	}
	return nil
}

func (b *Backend) UseProgram(program uint32) { b.CurrentProgram = program }

func (b *Backend) GetAttribLocation(program uint32, name string) int32 {
	switch name {
	case "a_Position":
		return 0
	case "a_UV":
		return 1
	case "a_Color":
		return 2
	}
	return -1
}

func (b *Backend) GetUniformLocation(program uint32, name string) int32 {
	switch name {
	case "u_Resolution":
		return 0
	case "u_Texture":
		return 1
	}
	return -1
}

func (b *Backend) Uniform2f(location int32, v0, v1 float32) {
	b.Uniforms = append(b.Uniforms, Uniform{Program: b.CurrentProgram, Location: location, V0: v0, V1: v1})
}

func (b *Backend) CreateBuffer() uint32 {
	h := b.name("buffer")
	if h != 0 {
		b.Buffers[h] = nil
	}
	return h
}

// boundBuffer resolves the buffer bound to target.
func (b *Backend) boundBuffer(target glapi.Enum) uint32 {
	switch target {
	case glapi.ARRAY_BUFFER:
		return b.BoundArrayBuffer
	case glapi.ELEMENT_ARRAY_BUFFER:
		if vao, ok := b.VertexArrays[b.BoundVAO]; ok {
			return vao.elementBuffer
		}
	}
	return 0
}

func (b *Backend) BindBuffer(target glapi.Enum, buffer uint32) {
	switch target {
	case glapi.ARRAY_BUFFER:
		b.BoundArrayBuffer = buffer
	case glapi.ELEMENT_ARRAY_BUFFER:
		vao, ok := b.VertexArrays[b.BoundVAO]
		if !ok {
			b.Errors = append(b.Errors, glapi.INVALID_OPERATION)
			return
		}
		vao.elementBuffer = buffer
	}
}

func (b *Backend) BufferData(target glapi.Enum, data []byte, usage glapi.Enum) {
	buf := b.boundBuffer(target)
	if buf == 0 {
		b.Errors = append(b.Errors, glapi.INVALID_OPERATION)
		return
	}
	b.Buffers[buf] = slices.Clone(data)
}

func (b *Backend) BufferSubData(target glapi.Enum, offset int, data []byte) {
	buf := b.boundBuffer(target)
	store, ok := b.Buffers[buf]
	if buf == 0 || !ok || offset+len(data) > len(store) {
		b.Errors = append(b.Errors, glapi.INVALID_VALUE)
		return
	}
	copy(store[offset:], data)
}

func (b *Backend) DeleteBuffer(buffer uint32) {
	delete(b.Buffers, buffer)
	b.Deleted["buffer"] = append(b.Deleted["buffer"], buffer)
}

func (b *Backend) CreateVertexArray() uint32 {
	h := b.name("vertex array")
	if h != 0 {
		b.VertexArrays[h] = &vertexArray{enabled: map[uint32]bool{}}
	}
	return h
}

func (b *Backend) BindVertexArray(array uint32) { b.BoundVAO = array }

func (b *Backend) DeleteVertexArray(array uint32) {
	delete(b.VertexArrays, array)
	b.Deleted["vertex array"] = append(b.Deleted["vertex array"], array)
}

func (b *Backend) EnableVertexAttribArray(index uint32) {
	if vao, ok := b.VertexArrays[b.BoundVAO]; ok {
		vao.enabled[index] = true
	}
}

func (b *Backend) VertexAttribPointer(index uint32, size int32, typ glapi.Enum, normalized bool, stride int32, offset uintptr) {
	b.Attribs = append(b.Attribs, Attrib{
		VAO: b.BoundVAO, Buffer: b.BoundArrayBuffer, Index: index, Size: size,
		Type: typ, Normalized: normalized, Stride: stride, Offset: offset,
	})
}

// ElementBuffer returns the index buffer recorded in a vertex array.
func (b *Backend) ElementBuffer(array uint32) uint32 {
	if vao, ok := b.VertexArrays[array]; ok {
		return vao.elementBuffer
	}
	return 0
}

func (b *Backend) CreateTexture() uint32 {
	h := b.name("texture")
	if h != 0 {
		b.Textures[h] = &TextureObject{Params: map[glapi.Enum]int32{}}
	}
	return h
}

func (b *Backend) BindTexture(target glapi.Enum, texture uint32) { b.BoundTexture = texture }

func (b *Backend) DeleteTexture(texture uint32) {
	delete(b.Textures, texture)
	b.Deleted["texture"] = append(b.Deleted["texture"], texture)
}

func (b *Backend) TexImage2D(target glapi.Enum, level, internalFormat, width, height int32, format, typ glapi.Enum, pixels []byte) {
	tex, ok := b.Textures[b.BoundTexture]
	if !ok {
		b.Errors = append(b.Errors, glapi.INVALID_OPERATION)
		return
	}
	if width > b.MaxTextureSize || height > b.MaxTextureSize {
		b.Errors = append(b.Errors, glapi.INVALID_VALUE)
		return
	}
	tex.Width, tex.Height = width, height
	tex.Pixels = make([]byte, 4*int(width)*int(height))
	copy(tex.Pixels, pixels)
}

func (b *Backend) TexSubImage2D(target glapi.Enum, level, x, y, width, height int32, format, typ glapi.Enum, pixels []byte) {
	tex, ok := b.Textures[b.BoundTexture]
	if !ok || x+width > tex.Width || y+height > tex.Height {
		b.Errors = append(b.Errors, glapi.INVALID_VALUE)
		return
	}
	for row := range height {
		dst := 4 * (int(y+row)*int(tex.Width) + int(x))
		src := 4 * int(row) * int(width)
		copy(tex.Pixels[dst:dst+4*int(width)], pixels[src:src+4*int(width)])
	}
	b.Uploads = append(b.Uploads, Upload{Texture: b.BoundTexture, X: x, Y: y, Width: width, Height: height, Len: len(pixels)})
}

func (b *Backend) TexParameteri(target, pname glapi.Enum, param int32) {
	if tex, ok := b.Textures[b.BoundTexture]; ok {
		tex.Params[pname] = param
	}
}

func (b *Backend) ActiveTexture(unit glapi.Enum) { b.ActiveUnit = unit }

func (b *Backend) DrawElements(mode glapi.Enum, count int32, typ glapi.Enum, offset uintptr) {
	call := DrawCall{
		Mode: mode, Count: count, Type: typ,
		Program: b.CurrentProgram, VAO: b.BoundVAO, Texture: b.BoundTexture, Unit: b.ActiveUnit,
	}
	vao, ok := b.VertexArrays[b.BoundVAO]
	if !ok {
		b.Errors = append(b.Errors, glapi.INVALID_OPERATION)
		b.Draws = append(b.Draws, call)
		return
	}
	if ebo := b.Buffers[vao.elementBuffer]; typ == glapi.UNSIGNED_SHORT && int(count)*2 <= len(ebo) {
		call.Indices = make([]uint16, count)
		for i := range call.Indices {
			call.Indices[i] = binary.NativeEndian.Uint16(ebo[2*i:])
		}
	}
	for _, a := range b.Attribs {
		if a.VAO == b.BoundVAO && a.Index == 0 {
			call.Vertices = slices.Clone(b.Buffers[a.Buffer])
			break
		}
	}
	b.Draws = append(b.Draws, call)
}

// Vertex decodes the position and uv of vertex i from a recorded vertex
// buffer using the 32-byte interleaved layout.
func Vertex(data []byte, i int) (pos, uv [2]float32) {
	const stride = 32
	f := func(off int) float32 {
		return math.Float32frombits(binary.NativeEndian.Uint32(data[i*stride+off:]))
	}
	return [2]float32{f(0), f(4)}, [2]float32{f(8), f(12)}
}

var _ glapi.Backend = (*Backend)(nil)

func (b *Backend) String() string {
	return fmt.Sprintf("gltest.Backend{textures: %d, buffers: %d, vaos: %d, programs: %d, draws: %d}",
		len(b.Textures), len(b.Buffers), len(b.VertexArrays), len(b.Programs), len(b.Draws))
}
