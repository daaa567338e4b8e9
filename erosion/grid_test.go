package erosion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexEdgeClamps(t *testing.T) {
	s := NewSimulator(4, 3, DefaultParams())

	assert.Equal(t, s.index(0, 0), s.index(-1, 0))
	assert.Equal(t, s.index(0, 0), s.index(0, -5))
	assert.Equal(t, s.index(3, 0), s.index(4, 0))
	assert.Equal(t, s.index(3, 2), s.index(9, 9))
	assert.Equal(t, 1*4+2, s.index(2, 1))
}

func TestSampleBilinearExactCoordinate(t *testing.T) {
	s := NewSimulator(3, 3, DefaultParams())
	field := []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			got := s.sampleBilinear(field, float32(x), float32(y))
			assert.Equal(t, field[y*3+x], got, "at (%d,%d)", x, y)
		}
	}
}

func TestSampleBilinearMidpoint(t *testing.T) {
	s := NewSimulator(2, 2, DefaultParams())

	// Equal columns: the horizontal midpoint is the mean of a and b.
	field := []float32{
		2, 6,
		2, 6,
	}
	assert.InDelta(t, 4, s.sampleBilinear(field, 0.5, 0), 1e-6)
	assert.InDelta(t, 4, s.sampleBilinear(field, 0.5, 1), 1e-6)

	// Equal rows: the vertical midpoint likewise.
	field = []float32{
		1, 1,
		9, 9,
	}
	assert.InDelta(t, 5, s.sampleBilinear(field, 0, 0.5), 1e-6)
}

func TestSampleBilinearOutOfBoundsClamps(t *testing.T) {
	s := NewSimulator(2, 2, DefaultParams())
	field := []float32{
		1, 2,
		3, 4,
	}

	assert.Equal(t, float32(1), s.sampleBilinear(field, -5, -5))
	assert.Equal(t, float32(4), s.sampleBilinear(field, 10, 10))
	// Straddling the edge still interpolates along the in-bounds axis.
	assert.InDelta(t, 1.5, s.sampleBilinear(field, 0.5, -3), 1e-6)
}
