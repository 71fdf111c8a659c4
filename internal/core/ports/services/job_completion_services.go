package services

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// JobCompletionSvc marks jobs completed and triggers their payroll follow-up.
type JobCompletionSvc interface {
	CompleteJob(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResult, error)
}

// ReadinessValidator checks that a job can be paid before it is completed.
type ReadinessValidator interface {
	// ValidateJobPayrollReadiness returns the IDs of assigned employees without
	// a resolvable rate. An empty result means the job is ready.
	ValidateJobPayrollReadiness(ctx context.Context, jobID string) ([]string, error)
}

// EarningsUpdater refreshes cached timesheet earnings for a completed job.
type EarningsUpdater interface {
	// UpdateTimesheetEarningsOnJobCompletion returns the touched timesheets and
	// their prior values.
	UpdateTimesheetEarningsOnJobCompletion(ctx context.Context, jobID string) (domain.EarningsUpdate, error)

	// RollbackTimesheetEarningsOnJobCompletion writes the prior values back.
	RollbackTimesheetEarningsOnJobCompletion(ctx context.Context, previous []domain.TimesheetEarnings) error
}

// PayrollEntryCreator creates payable entries for a completed job.
type PayrollEntryCreator interface {
	CreatePayrollEntriesForJob(ctx context.Context, jobID string) error
}

// DisplayNameResolver maps employee IDs to human-readable names.
type DisplayNameResolver interface {
	// ResolveDisplayNames keeps input order; unknown IDs come back unchanged.
	ResolveDisplayNames(ctx context.Context, employeeIDs []string) ([]string, error)
}
