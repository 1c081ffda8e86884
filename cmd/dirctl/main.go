// Command dirctl applies database migrations and manages accounts.
package main

import (
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dialdirectory/web/internal/config"
	"github.com/dialdirectory/web/internal/logging"
	"github.com/dialdirectory/web/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is opened once per invocation, before any subcommand runs.
type env struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "dirctl",
		Short:         "Administer the Dial directory",
		Long:          `dirctl applies schema migrations and manages user accounts for the Dial directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra checks required flags only after this hook, so check
			// them here before dialing the database.
			if err := cmd.ValidateRequiredFlags(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)
			pool, err := repository.NewPool(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			e.cfg = cfg
			e.pool = pool
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.pool != nil {
				e.pool.Close()
			}
		},
	}
	root.AddCommand(newMigrateCmd(e), newUserCmd(e))
	return root
}
