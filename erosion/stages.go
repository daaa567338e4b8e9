package erosion

import "math"

// Flux component order inside the Vec4, matching the layerData comment.
const (
	fluxL = 0
	fluxR = 1
	fluxT = 2
	fluxB = 3
)

// Tilt contribution to transport capacity is capped so steep walls cannot
// produce unbounded carry capacity.
const maxTiltFactor = 0.05

// applyRainfall adds precipitation to every cell and applies the brush.
// Positive brush radius raises water, negative raises terrain; the brush
// position and radius live in normalized [0,1]x[0,1] grid space.
func (s *Simulator) applyRainfall(brush Brush) {
	p := s.params
	rain := p.TimeDelta * p.RainRate

	radius := brush.Radius
	if radius < 0 {
		radius = -radius
	}
	bx := brush.Position.X()
	by := brush.Position.Y()
	amount := brush.Amount * p.TimeDelta
	toTerrain := brush.Radius < 0

	s.forEachRow(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			ny := (float32(y) + 0.5) / float32(s.height)
			for x := 0; x < s.width; x++ {
				i := y*s.width + x
				s.cells.waterHeight[i] += rain

				if !brush.Active() {
					continue
				}
				nx := (float32(x) + 0.5) / float32(s.width)
				dx := nx - bx
				dy := ny - by
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				if toTerrain {
					s.cells.heightmap[i] = max32(0, s.cells.heightmap[i]+amount)
				} else {
					s.cells.waterHeight[i] = max32(0, s.cells.waterHeight[i]+amount)
				}
			}
		}
	})
}

// solveFlux relaxes the four-direction outflow flux from hydrostatic head
// differences. The existing flux is the starting point of an explicit Euler
// step, not recomputed from zero. Boundary-facing components are zeroed, and
// the whole vector is rescaled so a cell never drains more water than it
// holds. Reads the live flux buffer, writes the spare one.
func (s *Simulator) solveFlux() {
	p := s.params
	gain := p.TimeDelta * p.Gravity * p.PipeArea / p.PipeLength
	area := p.CellArea()

	src := s.cells
	dst := s.swap.outflowFlux

	s.forEachRow(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < s.width; x++ {
				i := y*s.width + x
				head := src.heightmap[i] + src.waterHeight[i]
				f := src.outflowFlux[i]

				iL := s.index(x-1, y)
				iR := s.index(x+1, y)
				iT := s.index(x, y+1)
				iB := s.index(x, y-1)

				f[fluxL] = max32(0, f[fluxL]+gain*(head-src.heightmap[iL]-src.waterHeight[iL]))
				f[fluxR] = max32(0, f[fluxR]+gain*(head-src.heightmap[iR]-src.waterHeight[iR]))
				f[fluxT] = max32(0, f[fluxT]+gain*(head-src.heightmap[iT]-src.waterHeight[iT]))
				f[fluxB] = max32(0, f[fluxB]+gain*(head-src.heightmap[iB]-src.waterHeight[iB]))

				// No flow across the simulation edge.
				if x == 0 {
					f[fluxL] = 0
				}
				if x == s.width-1 {
					f[fluxR] = 0
				}
				if y == s.height-1 {
					f[fluxT] = 0
				}
				if y == 0 {
					f[fluxB] = 0
				}

				sum := f[fluxL] + f[fluxR] + f[fluxT] + f[fluxB]
				if sum > 0 {
					k := src.waterHeight[i] * area / (sum * p.TimeDelta)
					if k < 1 {
						f[fluxL] *= k
						f[fluxR] *= k
						f[fluxT] *= k
						f[fluxB] *= k
					}
				}
				dst[i] = f
			}
		}
	})

	s.cells.outflowFlux, s.swap.outflowFlux = s.swap.outflowFlux, s.cells.outflowFlux
}

// integrateFlux applies the net volume exchange to the water depth and
// derives the velocity field from a central difference of the surrounding
// flux. Inbound flux is the neighbour's component pointing at this cell; a
// missing neighbour contributes nothing.
func (s *Simulator) integrateFlux() {
	p := s.params
	scale := p.TimeDelta / p.CellArea()
	flux := s.cells.outflowFlux

	s.forEachRow(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < s.width; x++ {
				i := y*s.width + x
				out := flux[i]

				var inL, inR, inT, inB float32
				if x > 0 {
					inL = flux[i-1][fluxR]
				}
				if x < s.width-1 {
					inR = flux[i+1][fluxL]
				}
				if y < s.height-1 {
					inT = flux[i+s.width][fluxB]
				}
				if y > 0 {
					inB = flux[i-s.width][fluxT]
				}

				volumeDelta := (inL + inR + inT + inB) -
					(out[fluxL] + out[fluxR] + out[fluxT] + out[fluxB])
				s.cells.waterHeight[i] = max32(0, s.cells.waterHeight[i]+volumeDelta*scale)

				vx := 0.5 * ((inL - out[fluxL]) + (out[fluxR] - inR))
				vy := 0.5 * ((inB - out[fluxB]) + (out[fluxT] - inT))
				s.cells.velocity[i][0] = vx
				s.cells.velocity[i][1] = vy
			}
		}
	})
}

// erodeDeposit moves material between the terrain and the suspended sediment
// load. Water below its transport capacity picks sediment up, water above it
// drops the excess back onto the terrain. The suspension branch leaves the
// terrain height alone: the model treats the removed soil volume as
// negligible against the water column. Evaporation and the hardness update
// run in the same sweep. Terrain is double-buffered because the tilt reads
// neighbour heights.
func (s *Simulator) erodeDeposit() {
	p := s.params
	terrainOut := s.swap.heightmap
	cx2 := 4 * p.CellSizeX * p.CellSizeX
	cy2 := 4 * p.CellSizeY * p.CellSizeY
	evap := 1 - p.Evaporation*p.TimeDelta

	s.forEachRow(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < s.width; x++ {
				i := y*s.width + x

				dHx := abs32(s.cells.heightmap[s.index(x+1, y)] - s.cells.heightmap[s.index(x-1, y)])
				dHy := abs32(s.cells.heightmap[s.index(x, y+1)] - s.cells.heightmap[s.index(x, y-1)])
				// Sine of the tilt angle straight from the slope,
				// sidestepping an arctangent.
				sinTilt := 0.5*dHx/sqrt32(cx2+dHx*dHx) +
					0.5*dHy/sqrt32(cy2+dHy*dHy)

				water := s.cells.waterHeight[i]
				lmax := clamp(1-(p.MaxErosionDepth-water)/p.MaxErosionDepth, 0, 1)

				v := s.cells.velocity[i]
				speed := sqrt32(v[0]*v[0] + v[1]*v[1])
				capacity := p.SedimentCapacity * speed * min32(sinTilt, maxTiltFactor) * lmax

				sediment := s.cells.suspendedSediment[i]
				terrain := s.cells.heightmap[i]

				if sediment < capacity {
					delta := p.TimeDelta * p.SuspensionRate * (capacity - sediment)
					sediment += delta
					water += delta
				} else {
					delta := p.TimeDelta * p.DepositionRate * (sediment - capacity)
					terrain += delta
					sediment -= delta
					water -= delta
				}

				water *= evap

				hardness := s.cells.hardness[i] -
					p.TimeDelta*p.SedimentSoftening*p.SuspensionRate*(s.cells.suspendedSediment[i]-capacity)

				terrainOut[i] = max32(0, terrain)
				s.cells.suspendedSediment[i] = max32(0, sediment)
				s.cells.waterHeight[i] = max32(0, water)
				s.cells.hardness[i] = clamp(hardness, minHardness, 1)
			}
		}
	})

	s.cells.heightmap, s.swap.heightmap = s.swap.heightmap, s.cells.heightmap
}

// advectSediment transports the suspended load along the velocity field by
// tracing each cell backwards and bilinearly sampling the pre-sweep sediment
// there. Sampling is edge-clamped, so traces leaving the grid settle on the
// boundary value. Writes the spare sediment buffer.
func (s *Simulator) advectSediment() {
	dt := s.params.TimeDelta
	src := s.cells.suspendedSediment
	dst := s.swap.suspendedSediment

	s.forEachRow(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < s.width; x++ {
				i := y*s.width + x
				v := s.cells.velocity[i]
				px := float32(x) - v[0]*dt
				py := float32(y) - v[1]*dt
				dst[i] = max32(0, s.sampleBilinear(src, px, py))
			}
		}
	})

	s.cells.suspendedSediment, s.swap.suspendedSediment = s.swap.suspendedSediment, s.cells.suspendedSediment
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
