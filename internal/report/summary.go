package report

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/amr-stencil/internal/amr"
)

// Summary holds statistics over the timed iterations of a run, in seconds.
type Summary struct {
	Count    int
	Advanced int // timed iterations that did refinement work
	Mean     float64
	StdDev   float64
	Min      float64
	Median   float64
	Max      float64
}

// Summarize computes timing statistics over the timed samples. The warm-up
// pass is excluded.
func Summarize(samples []amr.IterationSample) Summary {
	secs := make([]float64, 0, len(samples))
	var s Summary
	for _, smp := range samples {
		if !smp.Timed {
			continue
		}
		secs = append(secs, smp.Duration.Seconds())
		if smp.Advanced {
			s.Advanced++
		}
	}
	s.Count = len(secs)
	if s.Count == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(secs, nil)
	if s.Count == 1 {
		s.StdDev = 0
	}
	s.Min = floats.Min(secs)
	s.Max = floats.Max(secs)
	sort.Float64s(secs)
	s.Median = stat.Quantile(0.5, stat.Empirical, secs, nil)
	return s
}
