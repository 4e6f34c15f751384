package stencil

import (
	"golang.org/x/sync/errgroup"
)

// Applier runs the stencil over the interior of a grid. Output cells
// accumulate; they are never reset between passes.
//
// Tile <= 0 scans the interior row by row. A positive Tile visits the
// interior in Tile × Tile blocks clamped to the interior boundary.
// Workers > 1 splits the interior rows into contiguous bands, one goroutine
// per band. Each output cell is summed in the same order in every mode, so
// all modes produce bit-identical results.
type Applier struct {
	Tile    int
	Workers int
}

// Apply accumulates the weighted footprint of g.In into every interior
// cell of g.Out.
func (a Applier) Apply(g *Grid, w *Weights) {
	lo, hi := w.Radius, g.Size-w.Radius
	if hi <= lo {
		return
	}

	if a.Workers <= 1 || hi-lo < 2 {
		a.applyRows(g, w, lo, hi)
		return
	}

	// Bands write disjoint rows and cannot fail.
	var eg errgroup.Group
	for _, b := range Bands(lo, hi, a.Workers) {
		eg.Go(func() error {
			a.applyRows(g, w, b[0], b[1])
			return nil
		})
	}
	eg.Wait()
}

// Bands splits [lo, hi) into at most n contiguous, non-empty ranges of
// near-equal length, in increasing order.
func Bands(lo, hi, n int) [][2]int {
	total := hi - lo
	if total <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	bands := make([][2]int, 0, n)
	start := lo
	for k := 0; k < n; k++ {
		size := total / n
		if k < total%n {
			size++
		}
		bands = append(bands, [2]int{start, start + size})
		start += size
	}
	return bands
}

// applyRows covers interior rows [jlo, jhi).
func (a Applier) applyRows(g *Grid, w *Weights, jlo, jhi int) {
	r := w.Radius
	ilo, ihi := r, g.Size-r

	if a.Tile <= 0 {
		for j := jlo; j < jhi; j++ {
			for i := ilo; i < ihi; i++ {
				a.cell(g, w, i, j)
			}
		}
		return
	}

	t := a.Tile
	for jt := jlo; jt < jhi; jt += t {
		jend := min(jhi, jt+t)
		for it := ilo; it < ihi; it += t {
			iend := min(ihi, it+t)
			for j := jt; j < jend; j++ {
				for i := it; i < iend; i++ {
					a.cell(g, w, i, j)
				}
			}
		}
	}
}

func (a Applier) cell(g *Grid, w *Weights, i, j int) {
	n := g.Size
	r := w.Radius
	in := g.in
	idx := i + j*n
	acc := g.out[idx]

	switch w.Shape {
	case Star:
		for dy := -r; dy <= r; dy++ {
			acc += w.At(0, dy) * in[idx+dy*n]
		}
		for dx := -r; dx < 0; dx++ {
			acc += w.At(dx, 0) * in[idx+dx]
		}
		for dx := 1; dx <= r; dx++ {
			acc += w.At(dx, 0) * in[idx+dx]
		}
	default:
		for dy := -r; dy <= r; dy++ {
			base := idx + dy*n
			for dx := -r; dx <= r; dx++ {
				acc += w.At(dx, dy) * in[base+dx]
			}
		}
	}

	g.out[idx] = acc
}
