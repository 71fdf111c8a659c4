package services

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// PayrollRunReaderSvc defines read operations for payroll runs
type PayrollRunReaderSvc interface {
	// GetRun retrieves a run with its persisted totals.
	GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error)

	// ListRuns retrieves a page of runs and a token for the next page.
	ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error)

	// ListRunSummaries retrieves the per-account summaries of a run.
	ListRunSummaries(ctx context.Context, runID string) ([]domain.RunSummary, error)

	// ScanPeriod previews the timesheets of a period without writing anything.
	ScanPeriod(ctx context.Context, period domain.Period) (*domain.PeriodScan, error)
}

// PayrollRunWriterSvc defines write operations for payroll runs
type PayrollRunWriterSvc interface {
	// CreateRun creates an empty draft run. employeeID may be empty.
	CreateRun(ctx context.Context, period domain.Period, employeeID string, actorID string) (*domain.PayrollRun, error)

	// RecalcRun aggregates the run's timesheets and persists totals and summaries.
	RecalcRun(ctx context.Context, runID string, actorID string) (*domain.RunAggregate, error)

	// GenerateRuns creates one run per employee with earnings in the period.
	GenerateRuns(ctx context.Context, period domain.Period, actorID string) (*domain.BulkResult, error)

	// ApproveRecordsIntoRun binds timesheets to a run and recalculates it.
	ApproveRecordsIntoRun(ctx context.Context, runID string, timesheetIDs []string, actorID string) (*domain.BulkResult, error)

	// BackfillRateSnapshots writes snapshots onto timesheets in the period that lack one.
	BackfillRateSnapshots(ctx context.Context, period domain.Period) (*domain.BulkResult, error)
}

// PayrollRunSvcFacade combines all payroll run service interfaces
type PayrollRunSvcFacade interface {
	PayrollRunReaderSvc
	PayrollRunWriterSvc
}
