package generators

import (
	"math/rand"

	"github.com/owenfell/silt/utils"
)

// MidpointDisplacement builds terrain by recursive square subdivision with
// decaying random jitter. Any grid size is accepted; the displacement runs on
// the smallest power-of-two-plus-one square that covers it and is cropped.
type MidpointDisplacement struct {
	width, height  int
	spread, reduce float32
	heightmap      []float32
	rng            *rand.Rand
}

// NewMidpointDisplacement constructs a generator. Spread controls the initial
// jitter amplitude, reduce the per-subdivision decay.
func NewMidpointDisplacement(width, height int, spread, reduce float32, seed int64) *MidpointDisplacement {
	return &MidpointDisplacement{
		width:     width,
		height:    height,
		spread:    spread,
		reduce:    reduce,
		heightmap: make([]float32, width*height),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Dimensions reports the requested grid size.
func (m *MidpointDisplacement) Dimensions() (int, int) {
	return m.width, m.height
}

// Heightmap exposes the generated field. Call Generate first.
func (m *MidpointDisplacement) Heightmap() []float32 {
	return m.heightmap
}

// Generate fills the heightmap. Repeated calls continue the generator's
// random stream and so produce fresh terrain each time.
func (m *MidpointDisplacement) Generate() {
	side := 2
	for side+1 < m.width || side+1 < m.height {
		side *= 2
	}
	side++ // power of two plus one, so midpoints land on grid points

	work := make([]float32, side*side)
	set := func(x, y int, v float32) { work[y*side+x] = v }
	get := func(x, y int) float32 { return work[y*side+x] }

	set(0, 0, m.rng.Float32())
	set(side-1, 0, m.rng.Float32())
	set(0, side-1, m.rng.Float32())
	set(side-1, side-1, m.rng.Float32())

	var displace func(x0, y0, x1, y1 int, spread float32)
	displace = func(x0, y0, x1, y1 int, spread float32) {
		mx := utils.Midpoint(x0, x1)
		my := utils.Midpoint(y0, y1)
		if mx == x0 && my == y0 {
			return
		}

		if get(mx, y0) == 0 {
			set(mx, y0, utils.Jitter(m.rng, utils.Average(get(x0, y0), get(x1, y0)), spread))
		}
		if get(mx, y1) == 0 {
			set(mx, y1, utils.Jitter(m.rng, utils.Average(get(x0, y1), get(x1, y1)), spread))
		}
		if get(x0, my) == 0 {
			set(x0, my, utils.Jitter(m.rng, utils.Average(get(x0, y0), get(x0, y1)), spread))
		}
		if get(x1, my) == 0 {
			set(x1, my, utils.Jitter(m.rng, utils.Average(get(x1, y0), get(x1, y1)), spread))
		}
		if get(mx, my) == 0 {
			set(mx, my, utils.Jitter(m.rng,
				utils.Average(get(mx, y0), get(mx, y1), get(x0, my), get(x1, my)), spread))
		}

		next := spread * m.reduce
		displace(x0, y0, mx, my, next)
		displace(mx, y0, x1, my, next)
		displace(x0, my, mx, y1, next)
		displace(mx, my, x1, y1, next)
	}
	displace(0, 0, side-1, side-1, m.spread)

	for y := 0; y < m.height; y++ {
		copy(m.heightmap[y*m.width:(y+1)*m.width], work[y*side:y*side+m.width])
	}
	normalize(m.heightmap)
}
