package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
	"github.com/shopspring/decimal"
)

// RunAggregator computes a run's totals and per-account summaries from the
// timesheets bound to it. It never writes.
type RunAggregator struct {
	runRepo       portsrepo.PayrollRunReader
	timesheetRepo portsrepo.TimesheetReader
	employeeRepo  portsrepo.EmployeeReader
	rateRepo      portsrepo.RateReader
	calc          CompensationCalculator
}

func NewRunAggregator(
	runRepo portsrepo.PayrollRunReader,
	timesheetRepo portsrepo.TimesheetReader,
	employeeRepo portsrepo.EmployeeReader,
	rateRepo portsrepo.RateReader,
) *RunAggregator {
	return &RunAggregator{
		runRepo:       runRepo,
		timesheetRepo: timesheetRepo,
		employeeRepo:  employeeRepo,
		rateRepo:      rateRepo,
	}
}

// Aggregate loads the run and every timesheet approved into it and prices
// them. Membership comes from ApprovedInRunID only; the run's period is not
// used to filter.
func (a *RunAggregator) Aggregate(ctx context.Context, runID string) (*domain.RunAggregate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	run, err := a.runRepo.FindRunByID(ctx, runID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load payroll run for aggregation", slog.String("run_id", runID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	records, err := a.timesheetRepo.FindTimesheetsByRunID(ctx, runID)
	if err != nil {
		logger.Error("Failed to load run timesheets", slog.String("run_id", runID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load timesheets for run %s: %w", runID, err)
	}

	p := a.newPass()
	if err := p.run(ctx, records); err != nil {
		return nil, err
	}

	for key, summary := range p.summaries {
		summary.PeriodStart = run.PeriodStart
		summary.PeriodEnd = run.PeriodEnd
		summary.Status = run.Status
		p.summaries[key] = summary
	}

	logger.Debug("Aggregated payroll run",
		slog.String("run_id", runID),
		slog.Int("timesheets", len(records)),
		slog.Int("skipped", p.skipped),
		slog.Int("missing_rates", len(p.missing)),
		slog.String("total_earnings", p.totals.TotalEarnings.String()))

	return &domain.RunAggregate{
		Run:          *run,
		Totals:       p.totals,
		Summaries:    p.summaries,
		MissingRates: p.missing,
		Skipped:      p.skipped,
	}, nil
}

// aggregationPass holds the state of one aggregation: a fresh rate cache, the
// memoized employee profiles and the running totals.
type aggregationPass struct {
	agg      *RunAggregator
	resolver *RateResolver
	profiles map[string]string

	totals    domain.RunTotals
	summaries map[string]domain.RunSummary
	missing   []domain.MissingRate
	skipped   int
}

func (a *RunAggregator) newPass() *aggregationPass {
	return &aggregationPass{
		agg:       a,
		resolver:  NewRateResolver(a.rateRepo),
		profiles:  make(map[string]string),
		totals:    domain.NewRunTotals(),
		summaries: make(map[string]domain.RunSummary),
		missing:   []domain.MissingRate{},
	}
}

func (p *aggregationPass) run(ctx context.Context, records []domain.Timesheet) error {
	sorted := make([]domain.Timesheet, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartAt.Equal(sorted[j].StartAt) {
			return sorted[i].StartAt.Before(sorted[j].StartAt)
		}
		return sorted[i].TimesheetID < sorted[j].TimesheetID
	})

	if err := p.loadProfiles(ctx, sorted); err != nil {
		return err
	}

	for _, ts := range sorted {
		if err := p.add(ctx, ts); err != nil {
			return err
		}
	}
	return nil
}

// loadProfiles memoizes the profile reference of every employee whose
// timesheets carry no profile of their own.
func (p *aggregationPass) loadProfiles(ctx context.Context, records []domain.Timesheet) error {
	var ids []string
	seen := make(map[string]bool)
	for _, ts := range records {
		if ts.ProfileID != "" || ts.EmployeeID == "" || seen[ts.EmployeeID] {
			continue
		}
		if _, ok := p.profiles[ts.EmployeeID]; ok {
			continue
		}
		seen[ts.EmployeeID] = true
		ids = append(ids, ts.EmployeeID)
	}
	if len(ids) == 0 {
		return nil
	}

	employees, err := p.agg.employeeRepo.FindEmployeesByIDs(ctx, ids)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to load employee profiles", slog.Int("count", len(ids)), slog.String("error", err.Error()))
		return fmt.Errorf("failed to load employee profiles: %w", err)
	}
	for _, id := range ids {
		// Unknown employees memoize to "" so they are not fetched again.
		p.profiles[id] = employees[id].ProfileID
	}
	return nil
}

func (p *aggregationPass) accountFor(ts domain.Timesheet) string {
	if ts.ProfileID != "" {
		return ts.ProfileID
	}
	return p.profiles[ts.EmployeeID]
}

func (p *aggregationPass) add(ctx context.Context, ts domain.Timesheet) error {
	if ts.RateSnapshot == nil && !ts.Hours.IsPositive() {
		p.skipped++
		return nil
	}

	var rate domain.ResolvedRate
	if ts.NeedsRateLookup() {
		resolved, err := p.resolver.Resolve(ctx, ts.EmployeeID, ts.StartAt)
		if err != nil {
			return err
		}
		rate = resolved
	}
	if !p.agg.calc.Priceable(ts, rate) {
		p.missing = append(p.missing, domain.MissingRate{
			TimesheetID: ts.TimesheetID,
			EmployeeID:  ts.EmployeeID,
			StartAt:     ts.StartAt,
		})
	}

	earnings := p.agg.calc.Compute(ts, rate)
	hourly := p.agg.calc.HourlyRateUsed(ts, rate)

	p.totals.TotalHours = p.totals.TotalHours.Add(ts.Hours)
	p.totals.TotalEarnings = domain.AddMoney(p.totals.TotalEarnings, earnings)

	if ts.EmployeeID != "" {
		et := p.totals.Employees[ts.EmployeeID]
		et.Hours = et.Hours.Add(ts.Hours)
		et.Earnings = domain.AddMoney(et.Earnings, earnings)
		if hourly != nil {
			et.HourlyRate = hourly
		}
		p.totals.Employees[ts.EmployeeID] = et
	}

	account := p.accountFor(ts)
	if account == "" {
		return nil
	}
	summary, ok := p.summaries[account]
	if !ok {
		summary = domain.RunSummary{
			AccountID:     account,
			HoursTotal:    decimal.Zero,
			GrossPay:      decimal.Zero,
			TimesheetRefs: []string{},
		}
	}
	summary.HoursTotal = summary.HoursTotal.Add(ts.Hours)
	summary.GrossPay = domain.AddMoney(summary.GrossPay, earnings)
	if hourly != nil {
		summary.RateAtTime = hourly
	}
	summary.TimesheetRefs = append(summary.TimesheetRefs, ts.TimesheetID)
	p.summaries[account] = summary
	return nil
}
