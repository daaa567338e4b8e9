package erosion

import "github.com/go-gl/mathgl/mgl32"

// Params holds the per-tick simulation constants. They are read-only for the
// duration of a tick; the host may change them between ticks. The simulator
// assumes validated inputs (a negative cell size is a caller bug, not a
// recoverable condition).
type Params struct {
	TimeDelta   float32
	RainRate    float32
	Evaporation float32

	Gravity    float32
	PipeArea   float32
	PipeLength float32

	CellSizeX float32
	CellSizeY float32

	SedimentCapacity  float32
	MaxErosionDepth   float32
	SuspensionRate    float32
	DepositionRate    float32
	SedimentSoftening float32
}

// DefaultParams returns the tuning used by the interactive sandbox.
func DefaultParams() Params {
	return Params{
		TimeDelta:         0.02,
		RainRate:          0.012,
		Evaporation:       0.015,
		Gravity:           9.81,
		PipeArea:          20,
		PipeLength:        1,
		CellSizeX:         1,
		CellSizeY:         1,
		SedimentCapacity:  1.0,
		MaxErosionDepth:   10,
		SuspensionRate:    0.5,
		DepositionRate:    1.0,
		SedimentSoftening: 5.0,
	}
}

// CellArea is the horizontal area of one grid cell.
func (p Params) CellArea() float32 {
	return p.CellSizeX * p.CellSizeY
}

// Brush is the transient per-tick user input. Position is in normalized
// [0,1]x[0,1] grid space. The sign of Radius selects the brush mode: positive
// adds water, negative adds terrain. A zero radius disables the brush.
type Brush struct {
	Position mgl32.Vec2
	Radius   float32
	Amount   float32
}

// Active reports whether the brush should be applied this tick.
func (b Brush) Active() bool {
	return b.Radius != 0
}
