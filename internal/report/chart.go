package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/amr-stencil/internal/amr"
)

// WriteIterationChart renders an HTML line chart of the per-iteration
// wall time, with the active refinement as a second series.
func WriteIterationChart(w io.Writer, res *amr.Result) error {
	if len(res.Samples) == 0 {
		return fmt.Errorf("no iteration samples to chart")
	}

	x := make([]string, 0, len(res.Samples))
	times := make([]opts.LineData, 0, len(res.Samples))
	active := make([]opts.LineData, 0, len(res.Samples))
	for _, s := range res.Samples {
		x = append(x, strconv.Itoa(s.Iteration))
		times = append(times, opts.LineData{Value: float64(s.Duration.Microseconds()) / 1000.0})
		a := -1
		if s.Advanced {
			a = s.Active
		}
		active = append(active, opts.LineData{Value: a})
	}

	p := res.Params
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "AMR iterations", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "AMR iteration time",
			Subtitle: fmt.Sprintf("n=%d r=%d %s level=%d period=%d duration=%d", p.GridSize, p.Radius, p.Shape, p.RefinementLevel, p.Period, p.Duration),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ms", NameLocation: "middle", NameGap: 40}),
	)
	line.SetXAxis(x).
		AddSeries("iteration time (ms)", times).
		AddSeries("advanced refinement (-1 none)", active)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render iteration chart: %w", err)
	}
	return nil
}
