package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TimesheetReader defines read operations for timesheets
type TimesheetReader interface {
	// FindTimesheetsByRunID returns every timesheet approved into the run,
	// regardless of its dates.
	FindTimesheetsByRunID(ctx context.Context, runID string) ([]domain.Timesheet, error)

	// FindTimesheetsInPeriod returns timesheets whose start falls inside the period.
	FindTimesheetsInPeriod(ctx context.Context, period domain.Period) ([]domain.Timesheet, error)

	// FindTimesheetsWithoutSnapshot returns timesheets in the period that carry no rate snapshot.
	FindTimesheetsWithoutSnapshot(ctx context.Context, period domain.Period) ([]domain.Timesheet, error)

	// FindTimesheetsByJobID returns the timesheets logged against a job.
	FindTimesheetsByJobID(ctx context.Context, jobID string) ([]domain.Timesheet, error)

	// FindTimesheetsByIDs returns the timesheets that exist, keyed by ID.
	FindTimesheetsByIDs(ctx context.Context, timesheetIDs []string) (map[string]domain.Timesheet, error)
}

// TimesheetWriter defines write operations for timesheets
type TimesheetWriter interface {
	// ApproveTimesheet binds a timesheet to a run. A non-nil snapshot is only
	// written when the timesheet has none.
	ApproveTimesheet(ctx context.Context, approval domain.TimesheetApproval) error

	// SetRateSnapshot stores a snapshot and the matching earnings on a timesheet
	// that has no snapshot yet. Returns apperrors.ErrConflict if one exists.
	SetRateSnapshot(ctx context.Context, timesheetID string, snapshot domain.RateSnapshot, earnings *decimal.Decimal) error

	// UpdateTimesheetEarnings writes cached earnings and snapshots exactly as
	// given (nil clears) for several timesheets in one transaction. Callers
	// pass the snapshot a timesheet already has to keep it.
	UpdateTimesheetEarnings(ctx context.Context, updates []domain.TimesheetEarnings) error
}

// TimesheetRepositoryFacade combines all timesheet-related repository interfaces
type TimesheetRepositoryFacade interface {
	TimesheetReader
	TimesheetWriter
}
