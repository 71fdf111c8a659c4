package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/fieldops_payroll/internal/core/services"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
	"github.com/SscSPs/fieldops_payroll/internal/platform/config"
	"github.com/SscSPs/fieldops_payroll/internal/repositories/database/pgsql"
	"github.com/SscSPs/fieldops_payroll/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "payroll_backend",
	Short: "Field ops payroll backend",
	Long:  `Reconciles technician timesheets into payroll runs and completes jobs with their payroll follow-up.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(recalcRunCmd)
	rootCmd.AddCommand(backfillSnapshotsCmd)
}

// bootstrap loads configuration and installs the process-wide logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.IsProduction {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openServices connects to the database and wires the service container.
// Callers close the returned pool.
func openServices(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, *portssvc.ServiceContainer, error) {
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	repos := pgsql.NewRepositoryProvider(dbPool)
	return dbPool, services.NewServiceContainer(repos), nil
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	changed, err := database.MigrateUp(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if changed {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}
	return nil
}
