// Package erosion implements a shallow-water hydraulic erosion model over a
// regular 2D grid. Each tick runs five barrier-separated full-grid sweeps:
// rainfall and brush input, outflow flux relaxation, flux integration into
// water depth and velocity, sediment suspension/deposition with evaporation,
// and semi-Lagrangian sediment advection.
//
// The package performs no rendering and owns no I/O; the host drives it once
// per tick and reads the state channels between ticks.
package erosion

import (
	"github.com/go-gl/mathgl/mgl32"
)

// layerData holds the per-cell simulation channels in row-major order.
type layerData struct {
	heightmap         []float32
	waterHeight       []float32
	suspendedSediment []float32
	hardness          []float32
	// Outflow flux toward each orthogonal neighbour. L=0, R=1, T=2, B=3,
	// where T is the neighbour at y+1 and B the neighbour at y-1.
	outflowFlux []mgl32.Vec4
	velocity    []mgl32.Vec2
}

func newLayerData(width, height int) *layerData {
	n := width * height
	return &layerData{
		heightmap:         make([]float32, n),
		waterHeight:       make([]float32, n),
		suspendedSediment: make([]float32, n),
		hardness:          make([]float32, n),
		outflowFlux:       make([]mgl32.Vec4, n),
		velocity:          make([]mgl32.Vec2, n),
	}
}

// swapBuffers holds the spare buffers for the channels whose sweeps read
// neighbours of the field they write. Those sweeps write the spare buffer and
// exchange it with the live one, so cells never observe a half-updated grid.
type swapBuffers struct {
	heightmap         []float32
	suspendedSediment []float32
	outflowFlux       []mgl32.Vec4
}

func newSwapBuffers(width, height int) *swapBuffers {
	n := width * height
	return &swapBuffers{
		heightmap:         make([]float32, n),
		suspendedSediment: make([]float32, n),
		outflowFlux:       make([]mgl32.Vec4, n),
	}
}

// Simulator owns the three grid-shaped fields and advances them in place.
// It is not safe for concurrent use: the host must not read the fields while
// a tick is running.
type Simulator struct {
	width, height int
	params        Params
	workers       int

	cells *layerData
	swap  *swapBuffers

	seed    []float32
	running bool
	ticks   int
}

// NewSimulator allocates all fields for a width x height grid. The terrain is
// flat zero; use SeedTerrain, SeedState or NewFromGenerator to shape it.
func NewSimulator(width, height int, params Params) *Simulator {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s := &Simulator{
		width:   width,
		height:  height,
		params:  params,
		workers: defaultWorkers(),
		cells:   newLayerData(width, height),
		swap:    newSwapBuffers(width, height),
		seed:    make([]float32, width*height),
	}
	for i := range s.cells.hardness {
		s.cells.hardness[i] = 1
	}
	return s
}

// HeightmapSource yields an initial terrain height field. The generators
// package provides midpoint-displacement, Perlin and image-backed sources.
type HeightmapSource interface {
	Heightmap() []float32
	Dimensions() (int, int)
}

// NewFromGenerator builds a simulator sized and seeded from the source.
func NewFromGenerator(src HeightmapSource, params Params) *Simulator {
	width, height := src.Dimensions()
	s := NewSimulator(width, height, params)
	s.SeedTerrain(src.Heightmap())
	return s
}

// SeedTerrain copies the heightmap into the terrain channel and remembers it
// so Reset can restore the same initial surface. Water, sediment and flux are
// cleared; hardness returns to 1.
func (s *Simulator) SeedTerrain(heightmap []float32) {
	copy(s.seed, heightmap)
	s.Reset()
}

// SeedState installs a full initial state, e.g. decoded from an image. Slices
// shorter than the grid leave the remainder at the channel default. A nil
// hardness slice keeps every cell at full hardness.
func (s *Simulator) SeedState(terrain, water, sediment, hardness []float32) {
	copy(s.seed, terrain)
	s.Reset()
	copy(s.cells.waterHeight, water)
	copy(s.cells.suspendedSediment, sediment)
	if hardness != nil {
		copy(s.cells.hardness, hardness)
		for i, h := range s.cells.hardness {
			s.cells.hardness[i] = clamp(h, minHardness, 1)
		}
	}
}

// Reset restores the seeded terrain and clears water, sediment, flux and
// velocity. Grid dimensions never change; resizing means a new Simulator.
func (s *Simulator) Reset() {
	copy(s.cells.heightmap, s.seed)
	for i := range s.cells.waterHeight {
		s.cells.waterHeight[i] = 0
		s.cells.suspendedSediment[i] = 0
		s.cells.hardness[i] = 1
		s.cells.outflowFlux[i] = mgl32.Vec4{}
		s.cells.velocity[i] = mgl32.Vec2{}
	}
	s.ticks = 0
}

// SetWorkers bounds the number of goroutines used per sweep. Values below 1
// select sequential execution. Results are identical for any worker count.
func (s *Simulator) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	s.workers = n
}

// SetParams replaces the tick constants. Must not be called mid-tick.
func (s *Simulator) SetParams(p Params) { s.params = p }

// Params returns the current tick constants.
func (s *Simulator) Params() Params { return s.params }

// Dimensions reports the grid size.
func (s *Simulator) Dimensions() (int, int) { return s.width, s.height }

// Ticks reports how many simulation steps have run since the last Reset.
func (s *Simulator) Ticks() int { return s.ticks }

// Toggle flips the free-running state used by Update.
func (s *Simulator) Toggle() { s.running = !s.running }

// IsRunning reports whether Update advances the simulation.
func (s *Simulator) IsRunning() bool { return s.running }

// Update steps the simulation once if it is running.
func (s *Simulator) Update(brush Brush) {
	if s.running {
		s.Step(brush)
	}
}

// Step advances the simulation by one tick: the five sweeps run strictly in
// order, each over the whole grid, with the brush applied during the first.
func (s *Simulator) Step(brush Brush) {
	s.applyRainfall(brush)
	s.solveFlux()
	s.integrateFlux()
	s.erodeDeposit()
	s.advectSediment()
	s.ticks++
}

// TerrainHeight exposes the terrain channel for host-side display.
func (s *Simulator) TerrainHeight() []float32 { return s.cells.heightmap }

// WaterDepth exposes the water channel for host-side display.
func (s *Simulator) WaterDepth() []float32 { return s.cells.waterHeight }

// Sediment exposes the suspended sediment channel.
func (s *Simulator) Sediment() []float32 { return s.cells.suspendedSediment }

// Hardness exposes the surface hardness channel.
func (s *Simulator) Hardness() []float32 { return s.cells.hardness }

// Flux exposes the outflow flux field.
func (s *Simulator) Flux() []mgl32.Vec4 { return s.cells.outflowFlux }

// Velocity exposes the derived velocity field.
func (s *Simulator) Velocity() []mgl32.Vec2 { return s.cells.velocity }

// TotalWater sums the water volume over the grid. Boundary flux is zeroed, so
// with rain and evaporation disabled this is conserved across ticks.
func (s *Simulator) TotalWater() float64 {
	var total float64
	for _, w := range s.cells.waterHeight {
		total += float64(w)
	}
	return total * float64(s.params.CellArea())
}
