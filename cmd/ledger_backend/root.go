package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/SscSPs/ledger_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_core/internal/repositories/memory"
	"github.com/SscSPs/ledger_core/pkg/database"
)

// newRootCommand creates the root CLI command with all subcommands registered.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Double-entry ledger core",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newCheckIntegrityCommand())
	return rootCmd
}

// bootstrap loads config and installs the JSON logger as the process default.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openRepositories builds the repository provider for the configured storage driver.
// The returned func releases whatever was opened.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; ledger data will not survive a restart")
		return memory.NewRepositoryProvider(memory.New()), func() {}, nil
	}

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.Up, logger); err != nil {
			return nil, nil, err
		}
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool, logger) }, nil
}
