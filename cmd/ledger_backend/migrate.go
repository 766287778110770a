package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("PGSQL_URL must be set to run migrations")
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.Direction(args[0]), logger)
		},
	}
}
