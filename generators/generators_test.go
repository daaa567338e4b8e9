package generators

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNormalized(t *testing.T, heightmap []float32) {
	t.Helper()
	for i, v := range heightmap {
		require.GreaterOrEqual(t, v, float32(0), "cell %d", i)
		require.LessOrEqual(t, v, float32(1), "cell %d", i)
	}
}

func TestMidpointDisplacementDeterministic(t *testing.T) {
	a := NewMidpointDisplacement(64, 48, 0.5, 0.5, 7)
	b := NewMidpointDisplacement(64, 48, 0.5, 0.5, 7)
	a.Generate()
	b.Generate()

	w, h := a.Dimensions()
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
	assert.Equal(t, a.Heightmap(), b.Heightmap())
	assertNormalized(t, a.Heightmap())

	c := NewMidpointDisplacement(64, 48, 0.5, 0.5, 8)
	c.Generate()
	assert.NotEqual(t, a.Heightmap(), c.Heightmap(), "seeds must differ")
}

func TestMidpointDisplacementRoughness(t *testing.T) {
	gen := NewMidpointDisplacement(33, 33, 0.8, 0.5, 3)
	gen.Generate()

	// A displaced field is not flat: both extremes of [0,1] are hit after
	// normalization.
	var lo, hi float32 = 1, 0
	for _, v := range gen.Heightmap() {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	assert.Equal(t, float32(0), lo)
	assert.Equal(t, float32(1), hi)
}

func TestPerlinDeterministic(t *testing.T) {
	a := NewPerlin(80, 60, 2, 2, 3, 32, 99)
	b := NewPerlin(80, 60, 2, 2, 3, 32, 99)
	a.Generate()
	b.Generate()

	assert.Equal(t, a.Heightmap(), b.Heightmap())
	assertNormalized(t, a.Heightmap())
}

func TestImageMapChannels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 128, A: 255})
	img.Set(1, 0, color.RGBA{R: 0, G: 64, B: 0, A: 255})

	m := NewImageMap(img)
	w, h := m.Dimensions()
	require.Equal(t, 2, w)
	require.Equal(t, 1, h)

	terrain, water, sediment, hardness := m.Channels()
	assert.InDelta(t, 1.0, terrain[0], 1e-3)
	assert.InDelta(t, 0.0, terrain[1], 1e-3)
	assert.InDelta(t, 0.25, water[1], 2e-2)
	assert.InDelta(t, 0.5, sediment[0], 2e-2)
	assert.InDelta(t, 1.0, hardness[0], 1e-3)
}

func TestHeightmapPNGRoundTrip(t *testing.T) {
	heightmap := []float32{0, 0.25, 0.5, 1}
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, WriteHeightmapPNG(path, 2, 2, heightmap))

	m, err := LoadImageMap(path)
	require.NoError(t, err)
	w, h := m.Dimensions()
	require.Equal(t, 2, w)
	require.Equal(t, 2, h)
	for i, want := range heightmap {
		assert.InDelta(t, want, m.Heightmap()[i], 1e-4, "cell %d", i)
	}
}
