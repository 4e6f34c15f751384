package amr

import (
	"fmt"
	"math"

	"github.com/banshee-data/amr-stencil/internal/stencil"
)

// Check is the outcome of comparing one grid against its reference norm.
type Check struct {
	Name      string
	Norm      float64
	Reference float64
	OK        bool
}

func (c Check) String() string {
	status := "ok"
	if !c.OK {
		status = "MISMATCH"
	}
	return fmt.Sprintf("%s: L1 norm = %f, reference L1 norm = %f (%s)", c.Name, c.Norm, c.Reference, status)
}

// Norm returns the mean absolute value of the output buffer over the
// interior [radius, size-radius)^2. Cells are summed one by one, row after
// row, so the result never depends on how the stencil was scheduled and
// matches a plain serial reduction bit for bit.
func Norm(g *stencil.Grid, radius int) float64 {
	lo, hi := radius, g.Size-radius
	if hi <= lo {
		return 0
	}
	out := g.OutData()
	var sum float64
	for j := lo; j < hi; j++ {
		for _, v := range out[j*g.Size+lo : j*g.Size+hi] {
			sum += math.Abs(v)
		}
	}
	active := float64(hi-lo) * float64(hi-lo)
	return sum / active
}

// ReferenceNorm is the analytic norm after k stencil passes over the
// initial field CoefX*i + CoefY*j.
func ReferenceNorm(k int) float64 {
	return float64(k) * (CoefX + CoefY)
}

// BackgroundPasses is the number of stencil passes the background receives:
// every timed iteration plus the warm-up.
func BackgroundPasses(p Params) int {
	return p.Iterations + 1
}

// PatchPasses is the number of stencil passes refinement g receives over a
// run: full four-window cycles plus whatever part of g's window the last
// partial cycle reaches, times the sub-iteration count.
func PatchPasses(p Params, g int) int {
	total := p.Iterations + 1
	cycle := p.Period * NumPatches
	full := total / cycle
	leftover := total % cycle
	partial := min(max(0, leftover-g*p.Period), p.Duration)
	return p.SubIterations * (full*p.Duration + partial)
}

func check(name string, norm float64, passes int) Check {
	ref := ReferenceNorm(passes)
	return Check{
		Name:      name,
		Norm:      norm,
		Reference: ref,
		OK:        math.Abs(norm-ref) <= Epsilon,
	}
}

// Validate compares the background and every refinement with its reference
// norm. It returns the individual checks and whether all of them passed.
func Validate(p Params, background *stencil.Grid, patches *[NumPatches]Patch) (Check, [NumPatches]Check, bool) {
	bg := check("background", Norm(background, p.Radius), BackgroundPasses(p))
	ok := bg.OK

	var pc [NumPatches]Check
	for g := range patches {
		pc[g] = check(fmt.Sprintf("refinement %d", g), Norm(patches[g].Grid, p.Radius), PatchPasses(p, g))
		ok = ok && pc[g].OK
	}
	return bg, pc, ok
}
