package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
)

// timesheetEarningsService prices a job's timesheets once the job is completed.
type timesheetEarningsService struct {
	BaseService
	timesheetRepo portsrepo.TimesheetRepositoryFacade
	rateRepo      portsrepo.RateReader
	calc          CompensationCalculator
}

func NewTimesheetEarningsService(timesheetRepo portsrepo.TimesheetRepositoryFacade, rateRepo portsrepo.RateReader) portssvc.EarningsUpdater {
	return &timesheetEarningsService{timesheetRepo: timesheetRepo, rateRepo: rateRepo}
}

var _ portssvc.EarningsUpdater = (*timesheetEarningsService)(nil)

// UpdateTimesheetEarningsOnJobCompletion snapshots the rate onto the job's
// timesheets that lack one and stores their earnings, in one transaction.
// Timesheets with no applicable rate, or whose earnings are already current,
// are left untouched and not reported.
func (s *timesheetEarningsService) UpdateTimesheetEarningsOnJobCompletion(ctx context.Context, jobID string) (domain.EarningsUpdate, error) {
	update := domain.EarningsUpdate{TimesheetIDs: []string{}, Previous: []domain.TimesheetEarnings{}}

	records, err := s.timesheetRepo.FindTimesheetsByJobID(ctx, jobID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load job timesheets", slog.String("job_id", jobID))
		return update, fmt.Errorf("failed to load timesheets for job %s: %w", jobID, err)
	}

	resolver := NewRateResolver(s.rateRepo)
	var writes []domain.TimesheetEarnings
	for _, ts := range records {
		snap := ts.RateSnapshot
		if snap == nil {
			snap, err = snapshotForTimesheet(ctx, resolver, ts)
			if err != nil {
				return domain.EarningsUpdate{}, err
			}
			if snap == nil {
				s.GetLogger(ctx).Warn("No rate applies to timesheet, earnings not updated",
					slog.String("job_id", jobID),
					slog.String("timesheet_id", ts.TimesheetID))
				continue
			}
		}

		priced := ts
		priced.RateSnapshot = snap
		earnings := s.calc.Compute(priced, domain.ResolvedRate{})
		if ts.RateSnapshot != nil && ts.Earnings != nil && ts.Earnings.Equal(earnings) {
			continue
		}

		writes = append(writes, domain.TimesheetEarnings{TimesheetID: ts.TimesheetID, Earnings: &earnings, RateSnapshot: snap})
		update.TimesheetIDs = append(update.TimesheetIDs, ts.TimesheetID)
		update.Previous = append(update.Previous, domain.TimesheetEarnings{
			TimesheetID:  ts.TimesheetID,
			Earnings:     ts.Earnings,
			RateSnapshot: ts.RateSnapshot,
		})
	}

	if len(writes) == 0 {
		return update, nil
	}
	if err := s.timesheetRepo.UpdateTimesheetEarnings(ctx, writes); err != nil {
		s.LogError(ctx, err, "Failed to update timesheet earnings", slog.String("job_id", jobID))
		return domain.EarningsUpdate{}, fmt.Errorf("failed to update earnings for job %s: %w", jobID, err)
	}

	s.LogInfo(ctx, "Timesheet earnings updated for completed job",
		slog.String("job_id", jobID),
		slog.Int("timesheets", len(writes)))
	return update, nil
}

// RollbackTimesheetEarningsOnJobCompletion writes the captured values back.
func (s *timesheetEarningsService) RollbackTimesheetEarningsOnJobCompletion(ctx context.Context, previous []domain.TimesheetEarnings) error {
	if len(previous) == 0 {
		return nil
	}
	if err := s.timesheetRepo.UpdateTimesheetEarnings(ctx, previous); err != nil {
		return fmt.Errorf("failed to restore earnings of %d timesheets: %w", len(previous), err)
	}
	return nil
}
