package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// PayrollRunReader defines read operations for payroll runs and their summaries
type PayrollRunReader interface {
	// FindRunByID returns apperrors.ErrNotFound when the run does not exist.
	FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// FindRunsByPeriod returns runs whose bounds equal the period exactly.
	FindRunsByPeriod(ctx context.Context, period domain.Period) ([]domain.PayrollRun, error)

	// ListRuns retrieves a page of runs ordered by period start, newest first.
	// It returns the runs, a token for the next page, and an error.
	ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error)

	// ListSummaryAccountIDs returns the keys of the summaries currently stored for a run.
	ListSummaryAccountIDs(ctx context.Context, runID string) ([]string, error)

	// ListSummaries returns the stored summaries of a run.
	ListSummaries(ctx context.Context, runID string) ([]domain.RunSummary, error)
}

// PayrollRunWriter defines write operations for payroll runs
type PayrollRunWriter interface {
	SaveRun(ctx context.Context, run domain.PayrollRun) error

	// ApplySummaryBatch updates a run's totals and deletes and upserts its
	// summaries in one transaction. Either all writes land or none do.
	ApplySummaryBatch(ctx context.Context, batch domain.SummaryBatch) error
}

// PayrollRunRepositoryFacade combines all payroll run repository interfaces
type PayrollRunRepositoryFacade interface {
	PayrollRunReader
	PayrollRunWriter
}
