package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banshee-data/amr-stencil/internal/db"
	"github.com/banshee-data/amr-stencil/internal/version"
)

const defaultDBPath = "amr_runs.db"

// openHistory opens an existing run database. A missing file is reported
// as (nil, nil) so read-only commands do not create one.
func openHistory(path string) (*db.DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return db.OpenDB(path)
}

func newRunsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openHistory(dbPath)
			if err != nil {
				return err
			}
			if database == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no runs recorded in %s\n", dbPath)
				return nil
			}
			defer database.Close()

			runs, err := db.NewRunStore(database).List(limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tGRID\tRADIUS\tSHAPE\tLEVEL\tITERATIONS\tVALID\tMFLOPS/S\tAVG (s)")
			for _, r := range runs {
				p := r.Params
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d\t%d\t%t\t%.3f\t%.6f\n",
					r.RunID, p.GridSize, p.Radius, p.Shape, p.RefinementLevel, p.Iterations,
					r.Validates, r.MFlopsPerSec, r.AvgIteration.Seconds())
			}
			return tw.Flush()
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "SQLite database holding recorded runs")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run id>",
		Short: "Print every recorded value of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := openHistory(dbPath)
			if err != nil {
				return err
			}
			if database == nil {
				return fmt.Errorf("%w: %s (no database at %s)", db.ErrRunNotFound, args[0], dbPath)
			}
			defer database.Close()

			r, err := db.NewRunStore(database).Get(args[0])
			if err != nil {
				return err
			}
			return writeRun(cmd, r)
		},
	})
	return cmd
}

func writeRun(cmd *cobra.Command, r *db.Run) error {
	p := r.Params
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Run\t%s\n", r.RunID)
	fmt.Fprintf(tw, "Grid size\t%d\n", p.GridSize)
	fmt.Fprintf(tw, "Stencil\t%s, radius %d\n", p.Shape, p.Radius)
	fmt.Fprintf(tw, "Iterations\t%d\n", p.Iterations)
	fmt.Fprintf(tw, "Refinements\t%d cells, level %d, period %d, duration %d, %d sub-iterations\n",
		p.RefinementCells, p.RefinementLevel, p.Period, p.Duration, p.SubIterations)
	fmt.Fprintf(tw, "Tile size\t%d\n", p.TileSize)
	fmt.Fprintf(tw, "Workers\t%d\n", p.Workers)
	fmt.Fprintf(tw, "Validates\t%t\n", r.Validates)
	fmt.Fprintf(tw, "Background L1 norm\t%.17g\n", r.BackgroundNorm)
	for g, n := range r.RefinementNorm {
		fmt.Fprintf(tw, "Refinement %d L1 norm\t%.17g\n", g, n)
	}
	fmt.Fprintf(tw, "Interpolations\t%d\n", r.Interpolations)
	fmt.Fprintf(tw, "Rate (MFlops/s)\t%f\n", r.MFlopsPerSec)
	fmt.Fprintf(tw, "Avg time (s)\t%f\n", r.AvgIteration.Seconds())
	return tw.Flush()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
