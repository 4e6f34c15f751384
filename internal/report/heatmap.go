package report

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/amr-stencil/internal/stencil"
)

// gridXYZ adapts a grid's output buffer to plotter.GridXYZ. Column c is
// the i index and row r the j index.
type gridXYZ struct {
	g *stencil.Grid
}

func (x gridXYZ) Dims() (c, r int)   { return x.g.Size, x.g.Size }
func (x gridXYZ) Z(c, r int) float64 { return x.g.OutAt(c, r) }
func (x gridXYZ) X(c int) float64    { return float64(c) }
func (x gridXYZ) Y(r int) float64    { return float64(r) }

// SaveHeatmap writes a heatmap of g's output buffer to path. The image
// format follows the file extension (png, svg, pdf...).
func SaveHeatmap(path string, g *stencil.Grid, title string) error {
	if g == nil || g.Size == 0 {
		return fmt.Errorf("no grid to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "i"
	p.Y.Label.Text = "j"

	hm := plotter.NewHeatMap(gridXYZ{g: g}, palette.Heat(64, 1))
	// A flat field would give the palette a zero-width range.
	if lo, hi := floats.Min(g.OutData()), floats.Max(g.OutData()); lo == hi {
		hm.Min, hm.Max = lo-0.5, hi+0.5
	}
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save heatmap %s: %w", path, err)
	}
	return nil
}
