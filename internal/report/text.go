package report

import (
	"fmt"
	"io"

	"github.com/banshee-data/amr-stencil/internal/amr"
)

// WriteBanner prints the run configuration before the timed loop starts.
func WriteBanner(w io.Writer, p amr.Params, build string) error {
	ew := &errWriter{w: w}
	ew.printf("%s\n", build)
	ew.printf("AMR stencil execution on 2D grid\n")
	ew.printf("Background grid size = %d\n", p.GridSize)
	ew.printf("Radius of stencil    = %d\n", p.Radius)
	ew.printf("Type of stencil      = %s\n", p.Shape)
	ew.printf("Data type            = double precision\n")
	if p.Tiled() {
		ew.printf("Tile size            = %d\n", p.TileSize)
	} else {
		ew.printf("Untiled\n")
	}
	if p.Workers > 1 {
		ew.printf("Workers              = %d\n", p.Workers)
	}
	ew.printf("Number of iterations = %d\n", p.Iterations)
	ew.printf("Refinements:\n")
	ew.printf("   Coarse grid cells = %d\n", p.RefinementCells)
	ew.printf("   Grid size         = %d\n", p.RefinementSize())
	ew.printf("   Period            = %d\n", p.Period)
	ew.printf("   Duration          = %d\n", p.Duration)
	ew.printf("   Level             = %d\n", p.RefinementLevel)
	ew.printf("   Sub-iterations    = %d\n", p.SubIterations)
	return ew.err
}

// WriteResult prints the validation verdict and, for a valid run, the rate.
// Failed checks are always listed; passing checks only when verbose.
func WriteResult(w io.Writer, res *amr.Result, verbose bool) error {
	ew := &errWriter{w: w}
	checks := append([]amr.Check{res.Background}, res.Patches[:]...)
	for _, c := range checks {
		switch {
		case !c.OK:
			ew.printf("ERROR: %s: L1 norm = %f, Reference L1 norm = %f\n", c.Name, c.Norm, c.Reference)
		case verbose:
			ew.printf("%s: Reference L1 norm = %f, L1 norm = %f\n", c.Name, c.Reference, c.Norm)
		}
	}

	if !res.Validates {
		ew.printf("Solution does not validate\n")
		return ew.err
	}
	ew.printf("Solution validates\n")
	ew.printf("Rate (MFlops/s): %f  Avg time (s): %f\n", res.MFlopsPerSec, res.AvgIteration.Seconds())
	return ew.err
}

// WriteSummary prints the timing statistics of the timed iterations.
func WriteSummary(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("Timed iterations: %d (refinement work in %d)\n", s.Count, s.Advanced)
	ew.printf("Iteration time (s): mean %f  std %f  min %f  median %f  max %f\n",
		s.Mean, s.StdDev, s.Min, s.Median, s.Max)
	return ew.err
}

// errWriter keeps the first write error so a sequence of prints can be
// checked once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}
