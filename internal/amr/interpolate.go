package amr

import (
	"math"

	"github.com/banshee-data/amr-stencil/internal/stencil"
)

// Interpolate seeds the input buffer of a refinement grid from the
// background input, starting at origin o. With spacing hr == 1 the
// refinement is an exact copy of the background sub-rectangle. Otherwise
// the fill is separable bilinear: fine rows that line up with coarse rows
// are interpolated along x first, then the remaining rows are blended
// along y from the two nearest aligned fine rows. The last column copies
// the coarse boundary cell, so nothing is extrapolated.
func Interpolate(dst, src *stencil.Grid, o Origin, expand int, hr float64) {
	m := dst.Size
	n := src.Size
	fine := dst.InData()
	coarse := src.InData()

	if hr == 1 {
		for jr := 0; jr < m; jr++ {
			copy(fine[jr*m:(jr+1)*m], coarse[(jr+o.J)*n+o.I:])
		}
		return
	}

	rendI := o.I + (m-1)/expand

	for jr, jb := 0, o.J; jr < m; jr, jb = jr+expand, jb+1 {
		row := fine[jr*m : (jr+1)*m]
		crow := coarse[jb*n : (jb+1)*n]
		for ir := 0; ir < m-1; ir++ {
			xr := float64(o.I) + hr*float64(ir)
			ib := int(xr)
			xb := float64(ib)
			row[ir] = crow[ib+1]*(xr-xb) + crow[ib]*(xb+1.0-xr)
		}
		row[m-1] = crow[rendI]
	}

	for jr := 0; jr < m-1; jr++ {
		yr := hr * float64(jr)
		jb := int(yr)
		yb := math.Floor(yr)
		lower := fine[jb*expand*m : (jb*expand+1)*m]
		upper := fine[(jb+1)*expand*m : ((jb+1)*expand+1)*m]
		row := fine[jr*m : (jr+1)*m]
		for ir := 0; ir < m; ir++ {
			row[ir] = upper[ir]*(yr-yb) + lower[ir]*(yb+1.0-yr)
		}
	}
}
