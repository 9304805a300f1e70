package grok

import (
	"log/slog"
	"strings"

	"github.com/vangroan/grok-glow/glapi"
)

// ResolutionLoc is the canonical location of the u_Resolution uniform, the
// viewport width and height in pixels. It is used when the program does not
// report a location of its own.
const ResolutionLoc = 0

// ResolutionUniform is the name of the viewport size uniform.
const ResolutionUniform = "u_Resolution"

// SpriteVertexShader maps pixel coordinates with the origin at the top-left
// to clip space, flipping Y.
const SpriteVertexShader = `#version 410 core
layout (location = 0) in vec2 a_Position;
layout (location = 1) in vec2 a_UV;
layout (location = 2) in vec4 a_Color;

uniform vec2 u_Resolution;

out vec2 v_UV;
out vec4 v_Color;

void main() {
    vec2 clip = (a_Position / u_Resolution) * 2.0 - 1.0;
    gl_Position = vec4(clip.x, -clip.y, 0.0, 1.0);
    v_UV = a_UV;
    v_Color = a_Color;
}
`

// SpriteFragmentShader samples texture unit 0 tinted by the vertex color.
const SpriteFragmentShader = `#version 410 core
in vec2 v_UV;
in vec4 v_Color;

out vec4 FragColor;

uniform sampler2D u_Texture;

void main() {
    FragColor = texture(u_Texture, v_UV) * v_Color;
}
`

// Shader is a linked vertex and fragment program.
type Shader struct {
	program       uint32
	resolutionLoc int32
	destroy       DestroySender
	released      bool
}

// NewShader compiles and links a program from GLSL sources. On failure all
// GL objects created along the way are deleted.
func NewShader(d *Device, vertexSource, fragmentSource string) (*Shader, error) {
	gl := d.gl

	program, err := glCreated(gl, gl.CreateProgram(), "program")
	if err != nil {
		return nil, err
	}

	stages := []struct {
		typ    glapi.Enum
		name   string
		source string
	}{
		{glapi.VERTEX_SHADER, "vertex", vertexSource},
		{glapi.FRAGMENT_SHADER, "fragment", fragmentSource},
	}

	shaders := make([]uint32, 0, len(stages))
	cleanup := func() {
		for _, shader := range shaders {
			gl.DetachShader(program, shader)
			gl.DeleteShader(shader)
		}
	}

	for _, stage := range stages {
		shader, err := glCreated(gl, gl.CreateShader(stage.typ), stage.name+" shader")
		if err != nil {
			cleanup()
			gl.DeleteProgram(program)
			return nil, err
		}
		gl.ShaderSource(shader, stage.source)
		gl.CompileShader(shader)
		if gl.GetShaderi(shader, glapi.COMPILE_STATUS) == glapi.FALSE {
			log := strings.TrimRight(gl.GetShaderInfoLog(shader), "\x00\n")
			gl.DeleteShader(shader)
			cleanup()
			gl.DeleteProgram(program)
			return nil, &ShaderCompileError{Stage: stage.name, Log: log}
		}
		gl.AttachShader(program, shader)
		shaders = append(shaders, shader)
	}

	gl.LinkProgram(program)
	if gl.GetProgrami(program, glapi.LINK_STATUS) == glapi.FALSE {
		log := strings.TrimRight(gl.GetProgramInfoLog(program), "\x00\n")
		cleanup()
		gl.DeleteProgram(program)
		return nil, &ShaderLinkError{Log: log}
	}

	// Shaders are linked into the program now.
	cleanup()

	loc := gl.GetUniformLocation(program, ResolutionUniform)
	if loc < 0 {
		loc = ResolutionLoc
	}

	d.lg.Debug("shader linked", slog.Uint64("program", uint64(program)), slog.Int("resolution_loc", int(loc)))
	return &Shader{program: program, resolutionLoc: loc, destroy: d.DestroySender()}, nil
}

// Program returns the GL program name.
func (s *Shader) Program() uint32 {
	return s.program
}

// UniformLocation returns the location of a uniform, or -1.
func (s *Shader) UniformLocation(d *Device, name string) int32 {
	return d.gl.GetUniformLocation(s.program, name)
}

// AttribLocation returns the location of a vertex attribute, or -1.
func (s *Shader) AttribLocation(d *Device, name string) int32 {
	return d.gl.GetAttribLocation(s.program, name)
}

// Release queues the program for deletion.
func (s *Shader) Release() {
	if s == nil || s.released {
		return
	}
	s.released = true
	s.destroy.mustSend(Destroy{Kind: DestroyShader, Handle: s.program})
}
