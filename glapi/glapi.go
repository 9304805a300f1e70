// Package glapi describes the slice of the OpenGL 4 core profile that the
// sprite renderer calls. The renderer never talks to a GL loader directly;
// it is handed a Backend and routes every call through it.
//
// Enum values are the ones defined by the Khronos registry, so a Backend
// built on any binding can pass them straight through.
package glapi

// Enum is a GLenum value.
type Enum = uint32

// Backend is the GL capability consumed by the renderer. All object names
// are plain uint32 handles, 0 meaning "none".
//
// Implementations are not expected to be safe for concurrent use: every
// method is called from the goroutine that owns the GL context.
type Backend interface {
	// State
	FrontFace(mode Enum)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	GetError() Enum
	GetInteger(pname Enum) int32
	GetString(name Enum) string
	GetStringi(name Enum, index uint32) string

	// Shaders and programs
	CreateShader(typ Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetAttribLocation(program uint32, name string) int32
	GetUniformLocation(program uint32, name string) int32
	Uniform2f(location int32, v0, v1 float32)

	// Buffers
	CreateBuffer() uint32
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)
	DeleteBuffer(buffer uint32)

	// Vertex arrays
	CreateVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride int32, offset uintptr)

	// Textures
	CreateTexture() uint32
	BindTexture(target Enum, texture uint32)
	DeleteTexture(texture uint32)
	TexImage2D(target Enum, level, internalFormat, width, height int32, format, typ Enum, pixels []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, typ Enum, pixels []byte)
	TexParameteri(target, pname Enum, param int32)
	ActiveTexture(unit Enum)

	// Drawing
	DrawElements(mode Enum, count int32, typ Enum, offset uintptr)
}

// GL constants used by the renderer.
const (
	NO_ERROR          Enum = 0
	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502
	OUT_OF_MEMORY     Enum = 0x0505

	FALSE = 0
	TRUE  = 1

	CW  Enum = 0x0900
	CCW Enum = 0x0901

	COLOR_BUFFER_BIT Enum = 0x00004000

	TRIANGLES      Enum = 0x0004
	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	FLOAT          Enum = 0x1406

	VENDOR         Enum = 0x1F00
	RENDERER       Enum = 0x1F01
	VERSION        Enum = 0x1F02
	EXTENSIONS     Enum = 0x1F03
	NUM_EXTENSIONS Enum = 0x821D

	MAX_TEXTURE_SIZE     Enum = 0x0D33
	TEXTURE_2D           Enum = 0x0DE1
	TEXTURE_BINDING_2D   Enum = 0x8069
	TEXTURE0             Enum = 0x84C0
	TEXTURE_MAG_FILTER   Enum = 0x2800
	TEXTURE_MIN_FILTER   Enum = 0x2801
	TEXTURE_WRAP_S       Enum = 0x2802
	TEXTURE_WRAP_T       Enum = 0x2803
	NEAREST              Enum = 0x2600
	LINEAR               Enum = 0x2601
	CLAMP_TO_EDGE        Enum = 0x812F
	RGBA                 Enum = 0x1908
	RGBA8                Enum = 0x8058
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	ARRAY_BUFFER_BINDING Enum = 0x8894
	VERTEX_ARRAY_BINDING Enum = 0x85B5
	CURRENT_PROGRAM      Enum = 0x8B8D
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8

	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
	INFO_LOG_LENGTH Enum = 0x8B84
)

// ExtTextureNonPowerOfTwo is the extension that lifts the power-of-two
// restriction on texture dimensions.
const ExtTextureNonPowerOfTwo = "GL_ARB_texture_non_power_of_two"
