package amr

import (
	"errors"
	"fmt"

	"github.com/banshee-data/amr-stencil/internal/stencil"
)

const (
	// CoefX and CoefY define the initial field CoefX*i + CoefY*j.
	CoefX = 1.0
	CoefY = 1.0

	// Epsilon is the largest accepted gap between a norm and its reference.
	Epsilon = 1e-8

	// NumPatches is the fixed number of refinement patches.
	NumPatches = 4

	// maxLevel keeps the expansion factor 2^level well inside an int.
	maxLevel = 30
	// maxSide bounds any grid side so side*side cannot overflow.
	maxSide = 1 << 30
)

// ErrInvalidInput is wrapped by every parameter validation error.
var ErrInvalidInput = errors.New("invalid input")

// Params are the run parameters of one benchmark execution.
type Params struct {
	Iterations      int           // timed iterations; one untimed warm-up pass is added
	GridSize        int           // background grid side n
	RefinementCells int           // coarse cells nr covered by each refinement
	RefinementLevel int           // expansion factor is 2^level
	Period          int           // iterations between refinement activations
	Duration        int           // iterations a refinement stays alive, 1..Period
	SubIterations   int           // stencil passes per alive iteration
	TileSize        int           // <= 0 or > GridSize means untiled
	Radius          int           // stencil radius
	Shape           stencil.Shape // stencil footprint
	Workers         int           // row bands evaluated concurrently; <= 1 is serial
}

func invalid(format string, a ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, a...)...)
}

// Validate checks every parameter against its legal range, in the order the
// values are supplied on the command line. It runs before any allocation.
func (p Params) Validate() error {
	if p.Iterations < 1 {
		return invalid("iterations must be >= 1, got %d", p.Iterations)
	}
	if p.GridSize < 2 {
		return invalid("grid must have at least one cell, got size %d", p.GridSize)
	}
	if p.GridSize > maxSide {
		return invalid("grid size %d exceeds maximum %d", p.GridSize, maxSide)
	}
	if p.RefinementCells < 1 {
		return invalid("refinements must have at least one cell, got %d", p.RefinementCells)
	}
	if p.RefinementCells >= p.GridSize {
		return invalid("refinements must be contained in background grid, got %d cells for grid size %d", p.RefinementCells, p.GridSize)
	}
	if p.RefinementLevel < 0 {
		return invalid("refinement levels must be >= 0, got %d", p.RefinementLevel)
	}
	if p.RefinementLevel > maxLevel {
		return invalid("refinement level %d exceeds maximum %d", p.RefinementLevel, maxLevel)
	}
	if p.Period < 1 {
		return invalid("refinement period must be at least one, got %d", p.Period)
	}
	if p.Duration < 1 || p.Duration > p.Period {
		return invalid("refinement duration must be positive, no greater than period %d, got %d", p.Period, p.Duration)
	}
	if p.SubIterations < 1 {
		return invalid("refinement sub-iterations must be positive, got %d", p.SubIterations)
	}
	if p.Radius < 1 {
		return invalid("stencil radius %d should be positive", p.Radius)
	}
	if p.Shape != stencil.Star && p.Shape != stencil.Compact {
		return invalid("unsupported stencil shape %v", p.Shape)
	}
	if 2*p.Radius+1 > p.GridSize {
		return invalid("stencil radius %d exceeds grid size %d", p.Radius, p.GridSize)
	}
	if int64(p.RefinementCells)<<p.RefinementLevel >= maxSide {
		return invalid("refinement size %d << %d exceeds maximum %d", p.RefinementCells, p.RefinementLevel, maxSide)
	}
	if m := p.RefinementSize(); 2*p.Radius+1 > m {
		return invalid("stencil radius %d exceeds refinement size %d", p.Radius, m)
	}
	return nil
}

// Expand returns the number of refinement cells per background cell.
func (p Params) Expand() int {
	return 1 << p.RefinementLevel
}

// Spacing returns the refinement mesh spacing 1/2^level.
func (p Params) Spacing() float64 {
	return 1.0 / float64(p.Expand())
}

// RefinementSize returns the side of each refinement grid.
func (p Params) RefinementSize() int {
	return p.RefinementCells*p.Expand() + 1
}

// Tiled reports whether the stencil runs in tiles.
func (p Params) Tiled() bool {
	return p.TileSize > 0 && p.TileSize <= p.GridSize
}

// Tile returns the tile size in effect, or 0 when untiled.
func (p Params) Tile() int {
	if !p.Tiled() {
		return 0
	}
	return p.TileSize
}
