package generators

import (
	"github.com/aquilax/go-perlin"
)

// Perlin layers octaves of gradient noise into a rolling heightmap. Smoother
// than midpoint displacement at the same scale, which makes it the better
// seed for long erosion runs.
type Perlin struct {
	width, height int
	alpha, beta   float64
	octaves       int
	scale         float64
	seed          int64
	heightmap     []float32
}

// NewPerlin constructs a Perlin generator. Alpha is the octave weight decay,
// beta the frequency step, scale the feature size in cells.
func NewPerlin(width, height int, alpha, beta float64, octaves int, scale float64, seed int64) *Perlin {
	if scale <= 0 {
		scale = 64
	}
	return &Perlin{
		width:     width,
		height:    height,
		alpha:     alpha,
		beta:      beta,
		octaves:   octaves,
		scale:     scale,
		seed:      seed,
		heightmap: make([]float32, width*height),
	}
}

// Dimensions reports the grid size.
func (p *Perlin) Dimensions() (int, int) {
	return p.width, p.height
}

// Heightmap exposes the generated field. Call Generate first.
func (p *Perlin) Heightmap() []float32 {
	return p.heightmap
}

// Generate fills the heightmap. Deterministic for a given seed.
func (p *Perlin) Generate() {
	noise := perlin.NewPerlin(p.alpha, p.beta, int32(p.octaves), p.seed)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			v := noise.Noise2D(float64(x)/p.scale, float64(y)/p.scale)
			p.heightmap[y*p.width+x] = float32(v)
		}
	}
	normalize(p.heightmap)
}
