package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/banshee-data/amr-stencil/internal/amr"
	"github.com/banshee-data/amr-stencil/internal/config"
	"github.com/banshee-data/amr-stencil/internal/db"
	"github.com/banshee-data/amr-stencil/internal/monitoring"
	"github.com/banshee-data/amr-stencil/internal/report"
	"github.com/banshee-data/amr-stencil/internal/version"
)

type runOptions struct {
	radius     int
	shape      string
	workers    int
	configPath string
	dbPath     string
	chartPath  string
	heatmap    string
}

// positional lists the run parameters in command line order.
var positional = []struct {
	name string
	set  func(c *config.RunConfig, v int)
}{
	{"iterations", func(c *config.RunConfig, v int) { c.Iterations = config.Int(v) }},
	{"grid size", func(c *config.RunConfig, v int) { c.GridSize = config.Int(v) }},
	{"refinement cells", func(c *config.RunConfig, v int) { c.RefinementCells = config.Int(v) }},
	{"refinement level", func(c *config.RunConfig, v int) { c.RefinementLevel = config.Int(v) }},
	{"refinement period", func(c *config.RunConfig, v int) { c.RefinementPeriod = config.Int(v) }},
	{"refinement duration", func(c *config.RunConfig, v int) { c.RefinementDuration = config.Int(v) }},
	{"refinement sub-iterations", func(c *config.RunConfig, v int) { c.SubIterations = config.Int(v) }},
	{"tile size", func(c *config.RunConfig, v int) { c.TileSize = config.Int(v) }},
}

func newRunCmd(root *rootOptions) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [<iterations> <grid size> <refinement cells> <refinement level> <period> <duration> <sub-iterations> [tile size]]",
		Short: "Run the benchmark and validate the result",
		Long: `Runs iterations+1 passes (the first untimed), validates every grid and
prints the rate in MFlops/s.

Parameters come from built-in defaults, then --config, then the positional
arguments and flags. Either omit the positional arguments or give seven
(eight with a tile size).

Example:
  amr run 10 1000 100 2 5 3 2
  amr run --config run.yaml --workers 4 --chart iterations.html`,
		Args: func(cmd *cobra.Command, args []string) error {
			if n := len(args); n != 0 && n != 7 && n != 8 {
				return fmt.Errorf("%w: expected 0, 7 or 8 arguments, got %d", amr.ErrInvalidInput, n)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd, args)
			if err != nil {
				return err
			}
			p, err := cfg.ToParams()
			if err != nil {
				return err
			}
			if err := o.validateOutputs(); err != nil {
				return err
			}
			return o.execute(cmd, p, root.verbose)
		},
	}

	cmd.Flags().IntVar(&o.radius, "radius", 0, "Stencil radius (default from config, 2)")
	cmd.Flags().StringVar(&o.shape, "shape", "", "Stencil shape: star or compact (default from config, star)")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "Row bands evaluated concurrently (default from config, 1)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Run configuration file (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "Record the run in this SQLite database")
	cmd.Flags().StringVar(&o.chartPath, "chart", "", "Write an HTML chart of per-iteration times")
	cmd.Flags().StringVar(&o.heatmap, "heatmap", "", "Write a heatmap image of the background output")
	return cmd
}

// resolve layers defaults, the config file, positional arguments and flags.
func (o *runOptions) resolve(cmd *cobra.Command, args []string) (*config.RunConfig, error) {
	cfg := config.EmptyRunConfig()
	if o.configPath != "" {
		fileCfg, err := config.LoadRunConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	override := config.EmptyRunConfig()
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q is not an integer", amr.ErrInvalidInput, positional[i].name, arg)
		}
		positional[i].set(override, v)
	}
	if cmd.Flags().Changed("radius") {
		override.Radius = config.Int(o.radius)
	}
	if cmd.Flags().Changed("shape") {
		override.Shape = config.String(o.shape)
	}
	if cmd.Flags().Changed("workers") {
		override.Workers = config.Int(o.workers)
	}
	return cfg.Merge(override), nil
}

func (o *runOptions) execute(cmd *cobra.Command, p amr.Params, verbose bool) error {
	out := cmd.OutOrStdout()
	if err := report.WriteBanner(out, p, version.String()); err != nil {
		return err
	}

	sim, err := amr.NewSimulation(p, amr.WithObserver(func(s amr.IterationSample) {
		monitoring.Debugf("iteration %d: active=%d activated=%t advanced=%t took %v",
			s.Iteration, s.Active, s.Activated, s.Advanced, s.Duration)
	}))
	if err != nil {
		return err
	}
	res, err := sim.Run()
	if err != nil {
		return err
	}

	if err := report.WriteResult(out, res, verbose); err != nil {
		return err
	}
	if res.Validates {
		if err := report.WriteSummary(out, report.Summarize(res.Samples)); err != nil {
			return err
		}
	}

	if err := o.writeArtifacts(sim, res); err != nil {
		return err
	}

	if !res.Validates {
		return errNotValidated
	}
	return nil
}

func (o *runOptions) writeArtifacts(sim *amr.Simulation, res *amr.Result) error {
	if o.dbPath != "" {
		database, err := db.OpenDB(o.dbPath)
		if err != nil {
			return err
		}
		defer database.Close()

		run := db.RunFromResult(res)
		if err := db.NewRunStore(database).Insert(run); err != nil {
			return err
		}
		monitoring.Logf("recorded run %s in %s", run.RunID, o.dbPath)
	}

	if o.chartPath != "" {
		f, err := os.Create(o.chartPath)
		if err != nil {
			return fmt.Errorf("create chart file: %w", err)
		}
		err = report.WriteIterationChart(f, res)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		monitoring.Logf("wrote iteration chart to %s", o.chartPath)
	}

	if o.heatmap != "" {
		title := fmt.Sprintf("background output after %d iterations", res.Params.Iterations)
		if err := report.SaveHeatmap(o.heatmap, sim.Background(), title); err != nil {
			return err
		}
		monitoring.Logf("wrote heatmap to %s", o.heatmap)
	}
	return nil
}

// validateOutputs rejects unusable artifact paths before the run starts.
func (o *runOptions) validateOutputs() error {
	if o.chartPath != "" {
		if err := report.ValidateOutputPath(o.chartPath, []string{".html", ".htm"}); err != nil {
			return fmt.Errorf("%w: --chart: %v", amr.ErrInvalidInput, err)
		}
	}
	if o.heatmap != "" {
		if err := report.ValidateOutputPath(o.heatmap, report.HeatmapFormats); err != nil {
			return fmt.Errorf("%w: --heatmap: %v", amr.ErrInvalidInput, err)
		}
	}
	if o.dbPath != "" {
		if err := report.ValidateOutputPath(o.dbPath, []string{".db", ".sqlite", ".sqlite3"}); err != nil {
			return fmt.Errorf("%w: --db: %v", amr.ErrInvalidInput, err)
		}
	}
	return nil
}

// isUsageError reports whether err stems from bad input rather than a
// failed run.
func isUsageError(err error) bool {
	return errors.Is(err, amr.ErrInvalidInput)
}
