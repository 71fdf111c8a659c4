package main

import (
	"log/slog"

	"github.com/SscSPs/fieldops_payroll/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		latest, err := database.LatestMigrationVersion()
		if err != nil {
			return err
		}
		logger.Info("Migrating database", slog.Uint64("target_version", uint64(latest)))
		return runMigrations(cfg, logger)
	},
}
