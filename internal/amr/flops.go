package amr

// Flops counts the floating point work of the timed part of a run. Each
// stencil point costs a multiply and an add, plus one for the final sum.
// The background is charged Iterations passes, leaving out the warm-up.
// Refinement 0, which the warm-up advances, is charged one pass less than
// it received even though the warm-up runs SubIterations passes on it.
// Interpolation adds 3*(m+nr) operations per refinement row per timed
// interpolation when the refinement level is positive.
func Flops(p Params, stencilPoints, interpolations int) float64 {
	n := p.GridSize
	m := p.RefinementSize()
	active := float64(n-2*p.Radius) * float64(n-2*p.Radius)
	activeR := float64(m-2*p.Radius) * float64(m-2*p.Radius)

	flops := active * float64(p.Iterations)
	for g := 0; g < NumPatches; g++ {
		passes := PatchPasses(p, g)
		if g == 0 {
			passes--
		}
		flops += activeR * float64(passes)
	}
	flops *= float64(2*stencilPoints + 1)

	if p.RefinementLevel > 0 {
		timed := interpolations - 1
		flops += float64(m) * float64(timed) * 3 * float64(m+p.RefinementCells)
	}
	return flops
}
