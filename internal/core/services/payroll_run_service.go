package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
)

const (
	// SystemActorID is recorded as the actor of writes not triggered by a user.
	SystemActorID = "system"

	defaultRunPageSize = 20
	maxRunPageSize     = 100
)

// payrollRunService creates, recalculates and fills payroll runs.
type payrollRunService struct {
	BaseService
	runRepo       portsrepo.PayrollRunRepositoryFacade
	timesheetRepo portsrepo.TimesheetRepositoryFacade
	rateRepo      portsrepo.RateReader
	aggregator    *RunAggregator
	writer        *SummaryWriter
	calc          CompensationCalculator
}

// NewPayrollRunService creates a new PayrollRunService.
func NewPayrollRunService(
	runRepo portsrepo.PayrollRunRepositoryFacade,
	timesheetRepo portsrepo.TimesheetRepositoryFacade,
	employeeRepo portsrepo.EmployeeReader,
	rateRepo portsrepo.RateReader,
) portssvc.PayrollRunSvcFacade {
	return &payrollRunService{
		runRepo:       runRepo,
		timesheetRepo: timesheetRepo,
		rateRepo:      rateRepo,
		aggregator:    NewRunAggregator(runRepo, timesheetRepo, employeeRepo, rateRepo),
		writer:        NewSummaryWriter(runRepo),
	}
}

var _ portssvc.PayrollRunSvcFacade = (*payrollRunService)(nil)

func validatePeriod(period domain.Period) error {
	if period.Start.IsZero() || period.End.IsZero() {
		return apperrors.NewValidationError("period start and end are required")
	}
	if !period.Valid() {
		return apperrors.NewValidationError("period start must be before period end")
	}
	return nil
}

func (s *payrollRunService) CreateRun(ctx context.Context, period domain.Period, employeeID string, actorID string) (*domain.PayrollRun, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor is required")
	}

	now := time.Now().UTC()
	run := domain.PayrollRun{
		RunID:       uuid.NewString(),
		EmployeeID:  employeeID,
		PeriodStart: period.Start.UTC(),
		PeriodEnd:   period.End.UTC(),
		Status:      domain.RunDraft,
		Totals:      domain.NewRunTotals(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.runRepo.SaveRun(ctx, run); err != nil {
		s.LogError(ctx, err, "Failed to save payroll run", slog.String("run_id", run.RunID))
		return nil, fmt.Errorf("failed to save payroll run: %w", err)
	}

	s.LogInfo(ctx, "Payroll run created",
		slog.String("run_id", run.RunID),
		slog.String("employee_id", employeeID),
		slog.Time("period_start", run.PeriodStart),
		slog.Time("period_end", run.PeriodEnd))
	return &run, nil
}

func (s *payrollRunService) GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	if runID == "" {
		return nil, apperrors.NewValidationError("run ID is required")
	}
	return s.runRepo.FindRunByID(ctx, runID)
}

func (s *payrollRunService) ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error) {
	if limit <= 0 {
		limit = defaultRunPageSize
	}
	if limit > maxRunPageSize {
		limit = maxRunPageSize
	}
	return s.runRepo.ListRuns(ctx, limit, nextToken)
}

func (s *payrollRunService) ListRunSummaries(ctx context.Context, runID string) ([]domain.RunSummary, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.runRepo.ListSummaries(ctx, runID)
}

// RecalcRun recomputes the run from its bound timesheets and stores the
// totals and summaries. Calling it repeatedly without data changes yields the
// same stored state.
func (s *payrollRunService) RecalcRun(ctx context.Context, runID string, actorID string) (*domain.RunAggregate, error) {
	if runID == "" {
		return nil, apperrors.NewValidationError("run ID is required")
	}
	if actorID == "" {
		actorID = SystemActorID
	}

	agg, err := s.aggregator.Aggregate(ctx, runID)
	if err != nil {
		return nil, err
	}

	update := &domain.RunTotalsUpdate{Totals: agg.Totals, UpdatedBy: actorID, UpdatedAt: time.Now().UTC()}
	if err := s.writer.Persist(ctx, agg.Run, agg.Summaries, update); err != nil {
		return nil, err
	}
	agg.Run.Totals = agg.Totals
	agg.Run.LastUpdatedAt = update.UpdatedAt
	agg.Run.LastUpdatedBy = actorID

	s.LogInfo(ctx, "Payroll run recalculated",
		slog.String("run_id", runID),
		slog.String("total_hours", agg.Totals.TotalHours.String()),
		slog.String("total_earnings", agg.Totals.TotalEarnings.String()),
		slog.Int("summaries", len(agg.Summaries)),
		slog.Int("missing_rates", len(agg.MissingRates)))
	return agg, nil
}

// ScanPeriod previews every timesheet starting in the period. Timesheets that
// cannot be priced are listed and left out of the earnings totals.
func (s *payrollRunService) ScanPeriod(ctx context.Context, period domain.Period) (*domain.PeriodScan, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	records, err := s.timesheetRepo.FindTimesheetsInPeriod(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to load timesheets for scan")
		return nil, fmt.Errorf("failed to load timesheets for period: %w", err)
	}

	scan := &domain.PeriodScan{
		Period:       period,
		Employees:    make(map[string]domain.EmployeeTotals),
		MissingRates: []domain.MissingRate{},
	}
	resolver := NewRateResolver(s.rateRepo)

	for _, ts := range records {
		if ts.RateSnapshot == nil && !ts.Hours.IsPositive() {
			continue
		}
		scan.TimesheetCount++
		scan.TotalHours = scan.TotalHours.Add(ts.Hours)

		rate, err := s.rateFor(ctx, resolver, ts)
		if err != nil {
			return nil, err
		}

		et := scan.Employees[ts.EmployeeID]
		et.Hours = et.Hours.Add(ts.Hours)

		if !s.calc.Priceable(ts, rate) {
			scan.MissingRates = append(scan.MissingRates, domain.MissingRate{
				TimesheetID: ts.TimesheetID,
				EmployeeID:  ts.EmployeeID,
				StartAt:     ts.StartAt,
			})
			scan.Employees[ts.EmployeeID] = et
			continue
		}

		earnings := s.calc.Compute(ts, rate)
		et.Earnings = domain.AddMoney(et.Earnings, earnings)
		if hourly := s.calc.HourlyRateUsed(ts, rate); hourly != nil {
			et.HourlyRate = hourly
		}
		scan.Employees[ts.EmployeeID] = et
		scan.TotalEarnings = domain.AddMoney(scan.TotalEarnings, earnings)
	}
	scan.EmployeeCount = len(scan.Employees)

	s.LogInfo(ctx, "Scanned payroll period",
		slog.Int("timesheets", scan.TimesheetCount),
		slog.Int("missing_rates", len(scan.MissingRates)),
		slog.String("total_earnings", scan.TotalEarnings.String()))
	return scan, nil
}

func (s *payrollRunService) rateFor(ctx context.Context, resolver *RateResolver, ts domain.Timesheet) (domain.ResolvedRate, error) {
	if !ts.NeedsRateLookup() {
		return domain.ResolvedRate{}, nil
	}
	return resolver.Resolve(ctx, ts.EmployeeID, ts.StartAt)
}

// GenerateRuns creates one run for each employee whose unassigned timesheets
// in the period earn something, approves those timesheets into it and
// recalculates it. Employees that already own a run for the exact period are
// skipped. Counts are per employee.
func (s *payrollRunService) GenerateRuns(ctx context.Context, period domain.Period, actorID string) (*domain.BulkResult, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor is required")
	}

	records, err := s.timesheetRepo.FindTimesheetsInPeriod(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to load timesheets for run generation")
		return nil, fmt.Errorf("failed to load timesheets for period: %w", err)
	}
	existingRuns, err := s.runRepo.FindRunsByPeriod(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to load existing runs for period")
		return nil, fmt.Errorf("failed to load existing runs: %w", err)
	}
	hasRun := make(map[string]bool, len(existingRuns))
	for _, r := range existingRuns {
		if r.EmployeeID != "" {
			hasRun[r.EmployeeID] = true
		}
	}

	resolver := NewRateResolver(s.rateRepo)
	earnings := make(map[string]decimal.Decimal)
	pending := make(map[string][]string)
	for _, ts := range records {
		if ts.EmployeeID == "" || ts.ApprovedInRunID != nil {
			continue
		}
		if ts.RateSnapshot == nil && !ts.Hours.IsPositive() {
			continue
		}
		rate, err := s.rateFor(ctx, resolver, ts)
		if err != nil {
			return nil, err
		}
		pending[ts.EmployeeID] = append(pending[ts.EmployeeID], ts.TimesheetID)
		if s.calc.Priceable(ts, rate) {
			earnings[ts.EmployeeID] = domain.AddMoney(earnings[ts.EmployeeID], s.calc.Compute(ts, rate))
		}
	}

	employeeIDs := make([]string, 0, len(pending))
	for id := range pending {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	result := &domain.BulkResult{}
	for _, employeeID := range employeeIDs {
		result.Total++
		logger := s.GetLogger(ctx).With(slog.String("employee_id", employeeID))

		if !earnings[employeeID].IsPositive() || hasRun[employeeID] {
			logger.Debug("Skipping run generation for employee",
				slog.Bool("has_run", hasRun[employeeID]),
				slog.String("earnings", earnings[employeeID].String()))
			result.Skipped++
			continue
		}

		run, err := s.CreateRun(ctx, period, employeeID, actorID)
		if err != nil {
			logger.Error("Failed to create run for employee", slog.String("error", err.Error()))
			result.Errors++
			continue
		}

		approved, err := s.ApproveRecordsIntoRun(ctx, run.RunID, pending[employeeID], actorID)
		if err != nil || approved.Errors > 0 {
			msg := "some timesheets failed to approve"
			if err != nil {
				msg = err.Error()
			}
			logger.Error("Failed to fill generated run", slog.String("run_id", run.RunID), slog.String("error", msg))
			result.Errors++
			continue
		}
		result.Updated++
	}

	s.LogInfo(ctx, "Payroll runs generated",
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.Errors),
		slog.Int("total", result.Total))
	return result, nil
}

// ApproveRecordsIntoRun binds timesheets to the run, marks them admin-approved
// and captures a rate snapshot on those that have none, then recalculates the
// run. Timesheets already bound to a different run are skipped.
func (s *payrollRunService) ApproveRecordsIntoRun(ctx context.Context, runID string, timesheetIDs []string, actorID string) (*domain.BulkResult, error) {
	if len(timesheetIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one timesheet ID is required")
	}
	if actorID == "" {
		return nil, apperrors.NewValidationError("actor is required")
	}
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	ids := dedupe(timesheetIDs)
	records, err := s.timesheetRepo.FindTimesheetsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load timesheets for approval", slog.String("run_id", runID))
		return nil, fmt.Errorf("failed to load timesheets: %w", err)
	}

	resolver := NewRateResolver(s.rateRepo)
	now := time.Now().UTC()
	result := &domain.BulkResult{}
	for _, id := range ids {
		result.Total++
		logger := s.GetLogger(ctx).With(slog.String("run_id", runID), slog.String("timesheet_id", id))

		ts, ok := records[id]
		if !ok {
			logger.Warn("Timesheet not found for approval")
			result.Errors++
			continue
		}
		if ts.ApprovedInRunID != nil {
			if *ts.ApprovedInRunID != runID || ts.AdminApproved {
				logger.Debug("Timesheet already approved", slog.String("approved_in_run_id", *ts.ApprovedInRunID))
				result.Skipped++
				continue
			}
		}

		approval := domain.TimesheetApproval{
			TimesheetID: id,
			RunID:       runID,
			ApprovedBy:  actorID,
			ApprovedAt:  now,
		}
		if ts.RateSnapshot == nil {
			snap, err := snapshotForTimesheet(ctx, resolver, ts)
			if err != nil {
				logger.Error("Failed to resolve rate for approval", slog.String("error", err.Error()))
				result.Errors++
				continue
			}
			approval.RateSnapshot = snap
		}

		if err := s.timesheetRepo.ApproveTimesheet(ctx, approval); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				logger.Warn("Timesheet was bound to another run concurrently, skipping")
				result.Skipped++
				continue
			}
			logger.Error("Failed to approve timesheet", slog.String("error", err.Error()))
			result.Errors++
			continue
		}
		result.Updated++
	}

	if _, err := s.RecalcRun(ctx, runID, actorID); err != nil {
		return result, fmt.Errorf("timesheets approved but recalculation of run %s failed: %w", runID, err)
	}
	return result, nil
}

// BackfillRateSnapshots writes a snapshot and cached earnings onto every
// timesheet in the period that has none. Timesheets without an applicable rate
// are skipped. Runs holding updated timesheets are recalculated afterwards.
func (s *payrollRunService) BackfillRateSnapshots(ctx context.Context, period domain.Period) (*domain.BulkResult, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	records, err := s.timesheetRepo.FindTimesheetsWithoutSnapshot(ctx, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to load timesheets for backfill")
		return nil, fmt.Errorf("failed to load timesheets without snapshot: %w", err)
	}

	resolver := NewRateResolver(s.rateRepo)
	touchedRuns := make(map[string]bool)
	result := &domain.BulkResult{}
	for _, ts := range records {
		result.Total++
		logger := s.GetLogger(ctx).With(slog.String("timesheet_id", ts.TimesheetID))

		if ts.RateSnapshot != nil {
			result.Skipped++
			continue
		}
		snap, err := snapshotForTimesheet(ctx, resolver, ts)
		if err != nil {
			logger.Error("Failed to resolve rate for backfill", slog.String("error", err.Error()))
			result.Errors++
			continue
		}
		if snap == nil {
			logger.Debug("No rate applies, skipping backfill", slog.String("employee_id", ts.EmployeeID))
			result.Skipped++
			continue
		}

		priced := ts
		priced.RateSnapshot = snap
		earnings := s.calc.Compute(priced, domain.ResolvedRate{})

		if err := s.timesheetRepo.SetRateSnapshot(ctx, ts.TimesheetID, *snap, &earnings); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				result.Skipped++
				continue
			}
			logger.Error("Failed to write rate snapshot", slog.String("error", err.Error()))
			result.Errors++
			continue
		}
		result.Updated++
		if ts.ApprovedInRunID != nil {
			touchedRuns[*ts.ApprovedInRunID] = true
		}
	}

	for runID := range touchedRuns {
		if _, err := s.RecalcRun(ctx, runID, SystemActorID); err != nil {
			s.LogError(ctx, err, "Failed to recalculate run after backfill", slog.String("run_id", runID))
		}
	}

	s.LogInfo(ctx, "Rate snapshots backfilled",
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped),
		slog.Int("errors", result.Errors),
		slog.Int("total", result.Total))
	return result, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
