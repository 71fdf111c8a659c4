package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
)

// payrollEntryService turns a completed job's priced timesheets into payroll entries.
type payrollEntryService struct {
	BaseService
	jobRepo       portsrepo.JobReader
	timesheetRepo portsrepo.TimesheetReader
	entryRepo     portsrepo.PayrollEntryRepositoryFacade
}

func NewPayrollEntryService(jobRepo portsrepo.JobReader, timesheetRepo portsrepo.TimesheetReader, entryRepo portsrepo.PayrollEntryRepositoryFacade) portssvc.PayrollEntryCreator {
	return &payrollEntryService{jobRepo: jobRepo, timesheetRepo: timesheetRepo, entryRepo: entryRepo}
}

var _ portssvc.PayrollEntryCreator = (*payrollEntryService)(nil)

// CreatePayrollEntriesForJob replaces the job's entries with one per priced
// timesheet and marks the job payroll-processed.
func (s *payrollEntryService) CreatePayrollEntriesForJob(ctx context.Context, jobID string) error {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if !job.IsCompleted() {
		return fmt.Errorf("%w: job %s is not completed", apperrors.ErrConflict, jobID)
	}

	records, err := s.timesheetRepo.FindTimesheetsByJobID(ctx, jobID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load job timesheets", slog.String("job_id", jobID))
		return fmt.Errorf("failed to load timesheets for job %s: %w", jobID, err)
	}

	now := time.Now().UTC()
	entries := make([]domain.PayrollEntry, 0, len(records))
	for _, ts := range records {
		if ts.Earnings == nil || !ts.Earnings.IsPositive() {
			s.LogDebug(ctx, "Timesheet has no earnings, no payroll entry created",
				slog.String("job_id", jobID),
				slog.String("timesheet_id", ts.TimesheetID))
			continue
		}
		entries = append(entries, domain.PayrollEntry{
			EntryID:     uuid.NewString(),
			JobID:       jobID,
			EmployeeID:  ts.EmployeeID,
			TimesheetID: ts.TimesheetID,
			Hours:       ts.Hours,
			Amount:      *ts.Earnings,
			CreatedAt:   now,
			CreatedBy:   SystemActorID,
		})
	}

	if err := s.entryRepo.ReplaceJobEntries(ctx, jobID, entries); err != nil {
		s.LogError(ctx, err, "Failed to create payroll entries", slog.String("job_id", jobID))
		return fmt.Errorf("failed to create payroll entries for job %s: %w", jobID, err)
	}

	s.LogInfo(ctx, "Payroll entries created", slog.String("job_id", jobID), slog.Int("entries", len(entries)))
	return nil
}
