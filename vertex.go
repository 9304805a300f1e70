package grok

import (
	"fmt"
	"unsafe"

	"github.com/vangroan/grok-glow/glapi"
)

// Attribute locations of the vertex layout, fixed by the sprite shader.
const (
	PositionLoc = 0
	UVLoc       = 1
	ColorLoc    = 2
)

var vertexSize = int32(unsafe.Sizeof(Vertex{}))

// VertexBuffer owns a vertex array object together with its interleaved
// vertex buffer and its 16-bit index buffer.
type VertexBuffer struct {
	vao, vbo, ebo uint32
	maxVertices   int
	maxIndices    int
	destroy       DestroySender
	released      bool
}

// NewStaticVertexBuffer uploads fixed geometry.
func NewStaticVertexBuffer(d *Device, vertices []Vertex, indices []uint16) (*VertexBuffer, error) {
	return newVertexBuffer(d, vertexBytes(vertices), indexBytes(indices), glapi.STATIC_DRAW,
		len(vertices), len(indices))
}

// NewDynamicVertexBuffer allocates zeroed storage for up to maxVertices
// vertices and maxIndices indices, to be rewritten with UpdateVertices and
// UpdateIndices.
func NewDynamicVertexBuffer(d *Device, maxVertices, maxIndices int) (*VertexBuffer, error) {
	return newVertexBuffer(d, make([]byte, maxVertices*int(vertexSize)), make([]byte, maxIndices*2),
		glapi.DYNAMIC_DRAW, maxVertices, maxIndices)
}

// NewQuadVertexBuffer builds a static buffer holding a single white quad
// of the given size with its top-left corner at the origin.
func NewQuadVertexBuffer(d *Device, width, height float32) (*VertexBuffer, error) {
	vertices, indices := appendQuad(make([]Vertex, 0, 4), make([]uint16, 0, 6), 0,
		[2]float32{}, [2]float32{width, height}, [2]float32{0, 0}, [2]float32{1, 1})
	return NewStaticVertexBuffer(d, vertices, indices)
}

func newVertexBuffer(d *Device, vertices, indices []byte, usage glapi.Enum, maxVertices, maxIndices int) (*VertexBuffer, error) {
	gl := d.gl
	vb := &VertexBuffer{maxVertices: maxVertices, maxIndices: maxIndices, destroy: d.DestroySender()}

	var err error
	if vb.vao, err = glCreated(gl, gl.CreateVertexArray(), "vertex array"); err != nil {
		return nil, err
	}
	gl.BindVertexArray(vb.vao)

	if vb.vbo, err = glCreated(gl, gl.CreateBuffer(), "vertex buffer"); err != nil {
		vb.deleteNow(gl)
		return nil, err
	}
	gl.BindBuffer(glapi.ARRAY_BUFFER, vb.vbo)
	gl.BufferData(glapi.ARRAY_BUFFER, vertices, usage)

	// Interleaved: position, uv, color.
	gl.EnableVertexAttribArray(PositionLoc)
	gl.VertexAttribPointer(PositionLoc, 2, glapi.FLOAT, false, vertexSize, unsafe.Offsetof(Vertex{}.Position))
	gl.EnableVertexAttribArray(UVLoc)
	gl.VertexAttribPointer(UVLoc, 2, glapi.FLOAT, false, vertexSize, unsafe.Offsetof(Vertex{}.UV))
	gl.EnableVertexAttribArray(ColorLoc)
	gl.VertexAttribPointer(ColorLoc, 4, glapi.FLOAT, false, vertexSize, unsafe.Offsetof(Vertex{}.Color))

	if vb.ebo, err = glCreated(gl, gl.CreateBuffer(), "index buffer"); err != nil {
		vb.deleteNow(gl)
		return nil, err
	}
	// The element array binding is recorded in the VAO and stays bound.
	gl.BindBuffer(glapi.ELEMENT_ARRAY_BUFFER, vb.ebo)
	gl.BufferData(glapi.ELEMENT_ARRAY_BUFFER, indices, usage)

	gl.BindVertexArray(0)
	gl.BindBuffer(glapi.ARRAY_BUFFER, 0)

	if err := glError(gl); err != nil {
		vb.deleteNow(gl)
		return nil, fmt.Errorf("vertex buffer: %w", err)
	}
	return vb, nil
}

// deleteNow is only used while construction fails, before the buffer has
// been handed to anyone.
func (vb *VertexBuffer) deleteNow(gl glapi.Backend) {
	gl.BindVertexArray(0)
	gl.BindBuffer(glapi.ARRAY_BUFFER, 0)
	if vb.ebo != 0 {
		gl.DeleteBuffer(vb.ebo)
	}
	if vb.vbo != 0 {
		gl.DeleteBuffer(vb.vbo)
	}
	if vb.vao != 0 {
		gl.DeleteVertexArray(vb.vao)
	}
}

// VAO returns the vertex array object name.
func (vb *VertexBuffer) VAO() uint32 {
	return vb.vao
}

// Capacity returns the number of vertices and indices the buffers hold.
func (vb *VertexBuffer) Capacity() (vertices, indices int) {
	return vb.maxVertices, vb.maxIndices
}

// UpdateVertices rewrites the start of the vertex buffer. The caller's
// array buffer binding is preserved.
func (vb *VertexBuffer) UpdateVertices(d *Device, vertices []Vertex) error {
	if len(vertices) > vb.maxVertices {
		return fmt.Errorf("update vertices: %d exceeds capacity %d", len(vertices), vb.maxVertices)
	}
	gl := d.gl
	defer saveBinding(gl, glapi.ARRAY_BUFFER_BINDING).restore()

	gl.BindBuffer(glapi.ARRAY_BUFFER, vb.vbo)
	gl.BufferSubData(glapi.ARRAY_BUFFER, 0, vertexBytes(vertices))
	return glError(gl)
}

// UpdateIndices rewrites the start of the index buffer. The index buffer
// belongs to the VAO, so the VAO is bound for the upload and the caller's
// VAO binding is restored afterwards.
func (vb *VertexBuffer) UpdateIndices(d *Device, indices []uint16) error {
	if len(indices) > vb.maxIndices {
		return fmt.Errorf("update indices: %d exceeds capacity %d", len(indices), vb.maxIndices)
	}
	gl := d.gl
	defer saveBinding(gl, glapi.VERTEX_ARRAY_BINDING).restore()

	gl.BindVertexArray(vb.vao)
	gl.BindBuffer(glapi.ELEMENT_ARRAY_BUFFER, vb.ebo)
	gl.BufferSubData(glapi.ELEMENT_ARRAY_BUFFER, 0, indexBytes(indices))
	return glError(gl)
}

// Release queues the vertex array and its buffers for deletion.
func (vb *VertexBuffer) Release() {
	if vb == nil || vb.released {
		return
	}
	vb.released = true
	vb.destroy.mustSend(Destroy{Kind: DestroyVertexArray, Handle: vb.vao})
	vb.destroy.mustSend(Destroy{Kind: DestroyBuffer, Handle: vb.vbo})
	vb.destroy.mustSend(Destroy{Kind: DestroyBuffer, Handle: vb.ebo})
}

// bindingSave records a buffer or vertex array binding and restores it.
type bindingSave struct {
	gl     glapi.Backend
	pname  glapi.Enum
	handle uint32
}

func saveBinding(gl glapi.Backend, pname glapi.Enum) bindingSave {
	return bindingSave{gl: gl, pname: pname, handle: uint32(gl.GetInteger(pname))}
}

func (s bindingSave) restore() {
	switch s.pname {
	case glapi.ARRAY_BUFFER_BINDING:
		s.gl.BindBuffer(glapi.ARRAY_BUFFER, s.handle)
	case glapi.VERTEX_ARRAY_BINDING:
		s.gl.BindVertexArray(s.handle)
	}
}

// vertexBytes views vertices as raw bytes in native byte order.
func vertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(vertexSize))
}

// indexBytes views indices as raw bytes in native byte order.
func indexBytes(indices []uint16) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*2)
}

// appendQuad appends the four corners of a quad in counter-clockwise order
// (with Y pointing down) and the six indices of its two triangles, with
// base as the index of its first vertex.
func appendQuad(vertices []Vertex, indices []uint16, base uint16, pos, size, uv0, uv1 [2]float32) ([]Vertex, []uint16) {
	x, y, w, h := pos[0], pos[1], size[0], size[1]
	vertices = append(vertices,
		Vertex{Position: [2]float32{x, y}, UV: [2]float32{uv0[0], uv0[1]}, Color: White},
		Vertex{Position: [2]float32{x + w, y}, UV: [2]float32{uv1[0], uv0[1]}, Color: White},
		Vertex{Position: [2]float32{x + w, y + h}, UV: [2]float32{uv1[0], uv1[1]}, Color: White},
		Vertex{Position: [2]float32{x, y + h}, UV: [2]float32{uv0[0], uv1[1]}, Color: White},
	)
	indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	return vertices, indices
}
