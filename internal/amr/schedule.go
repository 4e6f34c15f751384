package amr

// Step is the refinement decision for one iteration.
type Step struct {
	// Active is the refinement that owns this iteration's window.
	Active int
	// Activated means Active is seeded by interpolation before any stencil work.
	Activated bool
	// Advance means the stencil runs on Active this iteration.
	Advance bool
}

// Schedule decides the refinement work for an iteration. Each refinement
// owns one period-long window out of every four; it is alive for the first
// duration iterations of its window and dormant for the rest.
func Schedule(iteration, period, duration int) Step {
	phase := iteration % period
	return Step{
		Active:    (iteration / period) % NumPatches,
		Activated: phase == 0,
		Advance:   phase < duration,
	}
}
