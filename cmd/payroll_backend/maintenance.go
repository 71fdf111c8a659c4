package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/core/services"
	"github.com/SscSPs/fieldops_payroll/pkg/database"
	"github.com/spf13/cobra"
)

var (
	periodStartFlag string
	periodEndFlag   string
)

var recalcRunCmd = &cobra.Command{
	Use:   "recalc-run RUN_ID",
	Short: "Recalculate a payroll run's totals and summaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		dbPool, container, err := openServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer database.ClosePgxPool(dbPool, logger)

		agg, err := container.PayrollRun.RecalcRun(ctx, args[0], services.SystemActorID)
		if err != nil {
			return err
		}
		logger.Info("Payroll run recalculated",
			slog.String("run_id", args[0]),
			slog.String("total_hours", agg.Totals.TotalHours.String()),
			slog.String("total_earnings", agg.Totals.TotalEarnings.String()),
			slog.Int("summaries", len(agg.Summaries)),
			slog.Int("missing_rates", len(agg.MissingRates)),
		)
		return nil
	},
}

var backfillSnapshotsCmd = &cobra.Command{
	Use:   "backfill-snapshots",
	Short: "Write rate snapshots onto timesheets of a period that have none",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := parsePeriod(periodStartFlag, periodEndFlag)
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		dbPool, container, err := openServices(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer database.ClosePgxPool(dbPool, logger)

		result, err := container.PayrollRun.BackfillRateSnapshots(ctx, period)
		if err != nil {
			return err
		}
		logger.Info("Rate snapshot backfill finished",
			slog.Int("updated", result.Updated),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", result.Errors),
			slog.Int("total", result.Total),
		)
		return nil
	},
}

func init() {
	backfillSnapshotsCmd.Flags().StringVar(&periodStartFlag, "start", "", "period start (YYYY-MM-DD or RFC3339)")
	backfillSnapshotsCmd.Flags().StringVar(&periodEndFlag, "end", "", "period end (YYYY-MM-DD or RFC3339)")
	_ = backfillSnapshotsCmd.MarkFlagRequired("start")
	_ = backfillSnapshotsCmd.MarkFlagRequired("end")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// parsePeriod accepts dates or RFC3339 instants. A bare end date covers the whole day.
func parsePeriod(start, end string) (domain.Period, error) {
	s, _, err := parseInstant(start)
	if err != nil {
		return domain.Period{}, fmt.Errorf("invalid --start: %w", err)
	}
	e, dateOnly, err := parseInstant(end)
	if err != nil {
		return domain.Period{}, fmt.Errorf("invalid --end: %w", err)
	}
	if dateOnly {
		e = e.Add(24*time.Hour - time.Nanosecond)
	}
	p := domain.Period{Start: s, End: e}
	if !p.Valid() {
		return domain.Period{}, fmt.Errorf("period start must be before its end")
	}
	return p, nil
}

func parseInstant(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
