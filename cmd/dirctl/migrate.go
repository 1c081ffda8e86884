package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dialdirectory/web/internal/migrate"
	"github.com/dialdirectory/web/migrations"
)

func newMigrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|fresh]",
		Short: "Apply database migrations",
		Long: `Migrate applies the embedded SQL migrations.

  up     apply pending migrations (default)
  fresh  drop every table, then apply all migrations`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "fresh"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := "up"
			if len(args) == 1 {
				mode = args[0]
			}

			var (
				n   int
				err error
			)
			if mode == "fresh" {
				n, err = migrate.Fresh(cmd.Context(), e.pool, migrations.FS)
			} else {
				n, err = migrate.Up(cmd.Context(), e.pool, migrations.FS)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}
