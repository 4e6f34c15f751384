package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banshee-data/amr-stencil/internal/db"
)

func newMigrateCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the run history schema",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "SQLite database holding recorded runs")

	withDB := func(f func(cmd *cobra.Command, database *db.DB) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			database, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()
			return f(cmd, database)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withDB(func(cmd *cobra.Command, database *db.DB) error {
			if err := database.MigrateUp(); err != nil {
				return err
			}
			return printVersion(cmd, database)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: withDB(func(cmd *cobra.Command, database *db.DB) error {
			if err := database.MigrateDown(); err != nil {
				return err
			}
			return printVersion(cmd, database)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: withDB(func(cmd *cobra.Command, database *db.DB) error {
			return printVersion(cmd, database)
		}),
	})
	return cmd
}

func printVersion(cmd *cobra.Command, database *db.DB) error {
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return err
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d%s\n", version, state)
	return nil
}
