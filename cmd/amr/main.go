// Command amr runs the adaptive mesh refinement stencil benchmark.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/banshee-data/amr-stencil/internal/monitoring"
)

// errNotValidated makes the process exit non-zero after a completed run
// whose grids failed validation. The verdict has already been printed.
var errNotValidated = errors.New("solution does not validate")

type rootOptions struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "amr",
		Short: "Adaptive mesh refinement stencil benchmark",
		Long: `amr applies a radius-r divergence stencil to a square background grid
while four refinement patches at its corners are periodically seeded by
interpolation, advanced at finer resolution and retired.

Every grid is checked against its analytic L1 norm after the run; the
sustained rate is reported only for a validated run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := monitoring.NewZapLogger(opts.verbose)
			if err != nil {
				return err
			}
			opts.logger = logger
			monitoring.UseZap(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging and per-check output")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newRunsCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errNotValidated) {
			fmt.Fprintln(os.Stderr, "ERROR:", err)
		}
		if isUsageError(err) {
			fmt.Fprintln(os.Stderr, "Usage: amr run <# iterations> <background grid size> <refinement size>")
			fmt.Fprintln(os.Stderr, "       <refinement level> <refinement period> <refinement duration>")
			fmt.Fprintln(os.Stderr, "       <refinement sub-iterations> [tile_size]")
		}
		os.Exit(1)
	}
}
