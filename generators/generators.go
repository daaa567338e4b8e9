// Package generators produces initial terrain height fields for the
// simulator: midpoint displacement, fractal Perlin noise and image-backed
// heightmaps, all normalized to [0, 1].
package generators

// TerrainGenerator yields a row-major heightmap sized Dimensions.
type TerrainGenerator interface {
	Generate()
	Heightmap() []float32
	Dimensions() (int, int)
}

func normalize(values []float32) {
	if len(values) == 0 {
		return
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		for i := range values {
			values[i] = 0
		}
		return
	}
	for i := range values {
		values[i] = (values[i] - lo) / span
	}
}
