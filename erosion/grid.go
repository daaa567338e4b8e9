package erosion

import "math"

const minHardness = 0.1

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// index maps edge-clamped coordinates to a slice offset. Out-of-range
// accesses resolve to the nearest valid cell, never wrap.
func (s *Simulator) index(x, y int) int {
	x = clampInt(x, 0, s.width-1)
	y = clampInt(y, 0, s.height-1)
	return y*s.width + x
}

// sampleBilinear interpolates the field at a fractional, possibly
// out-of-bounds position using edge-clamped corner lookups with area weights.
func (s *Simulator) sampleBilinear(field []float32, fx, fy float32) float32 {
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	q00 := field[s.index(x0, y0)]
	q10 := field[s.index(x0+1, y0)]
	q01 := field[s.index(x0, y0+1)]
	q11 := field[s.index(x0+1, y0+1)]

	return q00*(1-dx)*(1-dy) +
		q10*dx*(1-dy) +
		q01*(1-dx)*dy +
		q11*dx*dy
}
