// Package core holds the OpenGL plumbing for the viewer: meshes, shader
// programs and the texture buffers that expose simulation fields to shaders.
package core

import (
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// Mesh is an indexed triangle mesh with interleaved position (3 floats) and
// cell index (1 float) attributes.
type Mesh struct {
	Vertices   []float32
	Indices    []uint32
	RenderMode uint32

	vao, vbo, ebo uint32
}

// Construct uploads the vertex and index data, replacing any previous
// buffers.
func (m *Mesh) Construct() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)

	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 4*4, gl.PtrOffset(0))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, 4*4, gl.PtrOffset(3*4))

	gl.BindVertexArray(0)
}

// Draw renders the mesh with the currently bound program and textures.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(m.RenderMode, int32(len(m.Indices)), gl.UNSIGNED_INT, unsafe.Pointer(nil))
	gl.BindVertexArray(0)
}
