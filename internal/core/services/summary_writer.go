package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
)

const opPersistSummaries = "persist_run_summaries"

// SummaryWriter replaces a run's stored summaries with a freshly computed set.
type SummaryWriter struct {
	runRepo portsrepo.PayrollRunRepositoryFacade
}

func NewSummaryWriter(runRepo portsrepo.PayrollRunRepositoryFacade) *SummaryWriter {
	return &SummaryWriter{runRepo: runRepo}
}

// Persist deletes summaries whose account is no longer present and overwrites
// every current one in a single atomic batch. A non-nil totals update joins the
// same batch, so stored totals never disagree with stored summaries. Nothing is
// submitted when there is nothing to change.
func (w *SummaryWriter) Persist(ctx context.Context, run domain.PayrollRun, summaries map[string]domain.RunSummary, totals *domain.RunTotalsUpdate) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := w.runRepo.ListSummaryAccountIDs(ctx, run.RunID)
	if err != nil {
		logger.Error("Failed to list existing run summaries", slog.String("run_id", run.RunID), slog.String("error", err.Error()))
		return err
	}

	batch := BuildSummaryBatch(run.RunID, existing, summaries)
	batch.Totals = totals
	if batch.Empty() {
		logger.Debug("No summary changes to persist", slog.String("run_id", run.RunID))
		return nil
	}

	if err := w.runRepo.ApplySummaryBatch(ctx, batch); err != nil {
		logger.Error("Failed to persist run summaries",
			slog.String("run_id", run.RunID),
			slog.Bool("with_totals", totals != nil),
			slog.Int("upserts", len(batch.Upserts)),
			slog.Int("deletes", len(batch.Deletes)),
			slog.String("error", err.Error()))
		return &apperrors.BatchCommitError{Op: opPersistSummaries, Cause: err}
	}

	logger.Info("Run summaries persisted",
		slog.String("run_id", run.RunID),
		slog.Int("upserts", len(batch.Upserts)),
		slog.Int("deletes", len(batch.Deletes)))
	return nil
}

// BuildSummaryBatch diffs the stored summary keys against the new set. Output
// is sorted by account ID.
func BuildSummaryBatch(runID string, existing []string, summaries map[string]domain.RunSummary) domain.SummaryBatch {
	batch := domain.SummaryBatch{RunID: runID}

	for _, accountID := range existing {
		if _, ok := summaries[accountID]; !ok {
			batch.Deletes = append(batch.Deletes, accountID)
		}
	}
	sort.Strings(batch.Deletes)

	keys := make([]string, 0, len(summaries))
	for k := range summaries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		summary := summaries[k]
		summary.AccountID = k
		batch.Upserts = append(batch.Upserts, summary)
	}
	return batch
}
