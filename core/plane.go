package core

import (
	"github.com/go-gl/gl/v4.3-core/gl"
)

// Plane is a flat grid mesh covering a width x height cell field. Each vertex
// carries the linear index of its cell so the vertex shader can fetch heights
// from the field texture buffers.
type Plane struct {
	rows, cols int
	m          Mesh
}

// NewPlane allocates a plane with one vertex per grid cell.
func NewPlane(rows, cols int) *Plane {
	return &Plane{
		rows: rows,
		cols: cols,
		m: Mesh{
			Vertices:   make([]float32, rows*cols*4),
			Indices:    make([]uint32, (rows-1)*(cols-1)*6),
			RenderMode: gl.TRIANGLES,
		},
	}
}

// M exposes the underlying mesh.
func (p *Plane) M() *Mesh {
	return &p.m
}

// Construct fills the vertex and index buffers and uploads them. The plane is
// centred on the origin in the XZ plane; Y comes from the shader.
func (p *Plane) Construct() {
	v := 0
	for y := 0; y < p.rows; y++ {
		for x := 0; x < p.cols; x++ {
			p.m.Vertices[v+0] = float32(x - p.cols/2)
			p.m.Vertices[v+1] = 0
			p.m.Vertices[v+2] = float32(y - p.rows/2)
			p.m.Vertices[v+3] = float32(y*p.cols + x)
			v += 4
		}
	}

	i := 0
	for y := 0; y < p.rows-1; y++ {
		for x := 0; x < p.cols-1; x++ {
			index := uint32(y*p.cols + x)
			cols := uint32(p.cols)

			p.m.Indices[i+0] = index
			p.m.Indices[i+1] = index + 1
			p.m.Indices[i+2] = index + cols
			p.m.Indices[i+3] = index + 1
			p.m.Indices[i+4] = index + cols + 1
			p.m.Indices[i+5] = index + cols
			i += 6
		}
	}

	p.m.Construct()
}
