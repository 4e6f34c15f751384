package amr

import (
	"fmt"
	"time"

	"github.com/banshee-data/amr-stencil/internal/monitoring"
	"github.com/banshee-data/amr-stencil/internal/stencil"
	"github.com/banshee-data/amr-stencil/internal/timeutil"
)

// IterationSample records what happened in one pass of the main loop.
type IterationSample struct {
	Iteration int
	Active    int
	Activated bool
	Advanced  bool
	Timed     bool // false for the warm-up pass
	Duration  time.Duration
}

// Result is the outcome of a complete run.
type Result struct {
	Params         Params
	Background     Check
	Patches        [NumPatches]Check
	Validates      bool
	Elapsed        time.Duration // timed iterations only
	AvgIteration   time.Duration
	Interpolations int
	Flops          float64
	MFlopsPerSec   float64
	Samples        []IterationSample
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithClock sets the clock used to time the loop. The default is RealClock.
func WithClock(c timeutil.Clock) Option {
	return func(s *Simulation) { s.clock = c }
}

// WithObserver registers a callback invoked after every pass.
func WithObserver(f func(IterationSample)) Option {
	return func(s *Simulation) { s.observer = f }
}

// Simulation owns every grid of a run: one background grid and four
// refinements, all allocated once in NewSimulation.
type Simulation struct {
	params   Params
	clock    timeutil.Clock
	observer func(IterationSample)

	applier  stencil.Applier
	weights  *stencil.Weights
	weightsR *stencil.Weights

	layout     Layout
	background *stencil.Grid
	patches    [NumPatches]Patch

	expand         int
	spacing        float64
	interpolations int
	ran            bool
}

// NewSimulation validates p, builds the stencil weights and allocates and
// initializes every grid.
func NewSimulation(p Params, opts ...Option) (*Simulation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	w, err := stencil.NewWeights(p.Radius, p.Shape)
	if err != nil {
		return nil, fmt.Errorf("build stencil weights: %w", err)
	}

	s := &Simulation{
		params:   p,
		clock:    timeutil.RealClock{},
		applier:  stencil.Applier{Tile: p.Tile(), Workers: p.Workers},
		weights:  w,
		weightsR: w.Scaled(float64(p.Expand())),
		layout:   NewLayout(p.GridSize, p.RefinementCells),
		expand:   p.Expand(),
		spacing:  p.Spacing(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.background = stencil.NewGrid(p.GridSize)
	s.background.Fill(func(i, j int) float64 {
		return CoefX*float64(i) + CoefY*float64(j)
	})
	s.patches = newPatches(s.layout, p.RefinementSize())

	return s, nil
}

// Weights returns the background stencil weights.
func (s *Simulation) Weights() *stencil.Weights { return s.weights }

// RefinementWeights returns the weights used on the refinements.
func (s *Simulation) RefinementWeights() *stencil.Weights { return s.weightsR }

// Background returns the background grid.
func (s *Simulation) Background() *stencil.Grid { return s.background }

// Patch returns refinement g.
func (s *Simulation) Patch(g int) *Patch { return &s.patches[g] }

// Layout returns the refinement origins.
func (s *Simulation) Layout() Layout { return s.layout }

// Run executes Iterations+1 passes, the first an untimed warm-up, and then
// validates every grid. A Simulation runs once; the grids accumulate.
func (s *Simulation) Run() (*Result, error) {
	if s.ran {
		return nil, fmt.Errorf("simulation already ran")
	}
	s.ran = true

	p := s.params
	samples := make([]IterationSample, 0, p.Iterations+1)
	var start time.Time

	monitoring.Logf("amr: starting %d iterations on %dx%d background, %d refinements of %dx%d",
		p.Iterations, p.GridSize, p.GridSize, NumPatches, p.RefinementSize(), p.RefinementSize())

	for iter := 0; iter <= p.Iterations; iter++ {
		t0 := s.clock.Now()
		if iter == 1 {
			start = t0
		}

		sample := s.step(iter)
		sample.Timed = iter > 0
		sample.Duration = s.clock.Since(t0)
		samples = append(samples, sample)
		if s.observer != nil {
			s.observer(sample)
		}
	}

	elapsed := s.clock.Since(start)

	bg, pc, ok := Validate(p, s.background, &s.patches)
	flops := Flops(p, s.weights.Points(), s.interpolations)

	res := &Result{
		Params:         p,
		Background:     bg,
		Patches:        pc,
		Validates:      ok,
		Elapsed:        elapsed,
		AvgIteration:   elapsed / time.Duration(p.Iterations),
		Interpolations: s.interpolations,
		Flops:          flops,
		Samples:        samples,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		res.MFlopsPerSec = 1e-6 * flops / secs
	}

	if ok {
		monitoring.Logf("amr: solution validates after %v", elapsed)
	} else {
		for _, c := range append([]Check{bg}, pc[:]...) {
			if !c.OK {
				monitoring.Logf("amr: solution does not validate: %s", c)
			}
		}
	}
	return res, nil
}

// step runs one pass: seed the active refinement if it just came to life,
// advance it if it is alive, then advance the background.
func (s *Simulation) step(iter int) IterationSample {
	p := s.params
	st := Schedule(iter, p.Period, p.Duration)
	patch := &s.patches[st.Active]

	if st.Activated {
		s.interpolations++
		patch.Activations++
		Interpolate(patch.Grid, s.background, patch.Origin, s.expand, s.spacing)
		monitoring.Debugf("amr: iteration %d activated refinement %d", iter, st.Active)
	}

	if st.Advance {
		for sub := 0; sub < p.SubIterations; sub++ {
			s.applier.Apply(patch.Grid, s.weightsR)
			patch.SubIterations++
		}
		patch.Grid.Perturb()
	}

	s.applier.Apply(s.background, s.weights)
	s.background.Perturb()

	return IterationSample{
		Iteration: iter,
		Active:    st.Active,
		Activated: st.Activated,
		Advanced:  st.Advance,
	}
}
