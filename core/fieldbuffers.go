package core

import (
	"github.com/go-gl/gl/v4.3-core/gl"
)

// FieldTextures mirrors simulation state channels into texture buffer objects
// so the terrain shaders can fetch per-cell values by index. Upload happens
// between ticks only; the simulator never touches GL.
type FieldTextures struct {
	heightBuffer, heightTexture uint32
	waterBuffer, waterTexture   uint32
	sedimentBuffer, sedimentTex uint32
	cells                       int
}

// NewFieldTextures allocates buffer storage for a grid with the given cell
// count.
func NewFieldTextures(cells int) *FieldTextures {
	f := &FieldTextures{cells: cells}

	gen := func(buffer, texture *uint32) {
		gl.GenBuffers(1, buffer)
		gl.BindBuffer(gl.TEXTURE_BUFFER, *buffer)
		gl.BufferData(gl.TEXTURE_BUFFER, cells*4, nil, gl.DYNAMIC_DRAW)
		gl.GenTextures(1, texture)
		gl.BindBuffer(gl.TEXTURE_BUFFER, 0)
	}
	gen(&f.heightBuffer, &f.heightTexture)
	gen(&f.waterBuffer, &f.waterTexture)
	gen(&f.sedimentBuffer, &f.sedimentTex)
	return f
}

// Upload pushes the current state channels into the buffer objects.
func (f *FieldTextures) Upload(terrain, water, sediment []float32) {
	push := func(buffer uint32, data []float32) {
		gl.BindBuffer(gl.TEXTURE_BUFFER, buffer)
		gl.BufferSubData(gl.TEXTURE_BUFFER, 0, len(data)*4, gl.Ptr(data))
		gl.BindBuffer(gl.TEXTURE_BUFFER, 0)
	}
	push(f.heightBuffer, terrain)
	push(f.waterBuffer, water)
	push(f.sedimentBuffer, sediment)
}

// Bind attaches the field textures to texture units 0..2 in height, water,
// sediment order.
func (f *FieldTextures) Bind() {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_BUFFER, f.heightTexture)
	gl.TexBuffer(gl.TEXTURE_BUFFER, gl.R32F, f.heightBuffer)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_BUFFER, f.waterTexture)
	gl.TexBuffer(gl.TEXTURE_BUFFER, gl.R32F, f.waterBuffer)

	gl.ActiveTexture(gl.TEXTURE2)
	gl.BindTexture(gl.TEXTURE_BUFFER, f.sedimentTex)
	gl.TexBuffer(gl.TEXTURE_BUFFER, gl.R32F, f.sedimentBuffer)
}
