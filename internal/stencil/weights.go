package stencil

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Shape selects the stencil footprint.
type Shape int

const (
	// Star uses only the horizontal and vertical axes through the center.
	Star Shape = iota
	// Compact uses the full (2r+1) × (2r+1) square.
	Compact
)

func (s Shape) String() string {
	switch s {
	case Star:
		return "star"
	case Compact:
		return "compact"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape converts "star" or "compact" (case-insensitive) to a Shape.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "star":
		return Star, nil
	case "compact":
		return Compact, nil
	default:
		return Star, fmt.Errorf("unknown stencil shape %q (want star or compact)", name)
	}
}

// Weights is a (2r+1) × (2r+1) coefficient table indexed by signed offset.
// Row dx+r, column dy+r of Table holds W(dx, dy).
type Weights struct {
	Radius int
	Shape  Shape
	Table  *mat.Dense

	side int
	w    []float64
}

func newWeights(radius int, shape Shape) *Weights {
	side := 2*radius + 1
	t := mat.NewDense(side, side, nil)
	return &Weights{
		Radius: radius,
		Shape:  shape,
		Table:  t,
		side:   side,
		w:      t.RawMatrix().Data,
	}
}

// NewWeights builds the discrete divergence weights for the given radius
// and shape. Applied to COEFX*i + COEFY*j the operator yields COEFX + COEFY.
func NewWeights(radius int, shape Shape) (*Weights, error) {
	if radius < 1 {
		return nil, fmt.Errorf("stencil radius must be positive, got %d", radius)
	}

	w := newWeights(radius, shape)
	r := float64(radius)

	switch shape {
	case Star:
		for k := 1; k <= radius; k++ {
			v := 1.0 / (2.0 * float64(k) * r)
			w.Set(0, k, v)
			w.Set(k, 0, v)
			w.Set(0, -k, -v)
			w.Set(-k, 0, -v)
		}
	case Compact:
		for k := 1; k <= radius; k++ {
			fk := float64(k)
			ring := 1.0 / (4.0 * fk * (2.0*fk - 1) * r)
			for ii := -k + 1; ii < k; ii++ {
				w.Set(ii, k, ring)
				w.Set(ii, -k, -ring)
				w.Set(k, ii, ring)
				w.Set(-k, ii, -ring)
			}
			diag := 1.0 / (4.0 * fk * r)
			w.Set(k, k, diag)
			w.Set(-k, -k, -diag)
		}
	default:
		return nil, fmt.Errorf("unsupported stencil shape %v", shape)
	}

	return w, nil
}

// At returns W(dx, dy).
func (w *Weights) At(dx, dy int) float64 {
	return w.w[(dx+w.Radius)*w.side+dy+w.Radius]
}

// Set overwrites W(dx, dy).
func (w *Weights) Set(dx, dy int, v float64) {
	w.w[(dx+w.Radius)*w.side+dy+w.Radius] = v
}

// Scaled returns a copy of the table multiplied by factor. Refinement
// weights are the background weights scaled by the expansion factor so the
// operator keeps its continuous meaning on the finer mesh.
func (w *Weights) Scaled(factor float64) *Weights {
	s := newWeights(w.Radius, w.Shape)
	s.Table.Scale(factor, w.Table)
	return s
}

// Sum returns the sum of all table entries.
func (w *Weights) Sum() float64 {
	return mat.Sum(w.Table)
}

// Points returns the number of footprint points the stencil touches:
// 4r+1 for a star, (2r+1)^2 for a compact stencil.
func (w *Weights) Points() int {
	if w.Shape == Star {
		return 4*w.Radius + 1
	}
	return w.side * w.side
}
