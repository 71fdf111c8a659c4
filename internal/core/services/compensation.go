package services

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CompensationCalculator prices a single timesheet. It holds no state.
type CompensationCalculator struct{}

// Compute returns the rounded earnings of ts. A rate snapshot on the timesheet
// always wins; otherwise the legacy inline rate is applied per hour, then the
// resolved rate is applied as if it had been snapshotted. rate is ignored when
// it is not needed.
func (CompensationCalculator) Compute(ts domain.Timesheet, rate domain.ResolvedRate) decimal.Decimal {
	snap := pricingSnapshot(ts, rate)
	if snap == nil {
		return decimal.Zero
	}
	switch snap.Kind {
	case domain.RatePerVisit:
		return domain.RoundMoney(snap.Amount.Mul(decimal.NewFromInt(int64(ts.UnitCount()))))
	case domain.RateMonthly:
		return domain.RoundMoney(snap.Amount)
	default:
		return domain.RoundMoney(ts.Hours.Mul(snap.Amount))
	}
}

// Priceable reports whether Compute has a rate to work with for ts given the
// resolved rate.
func (CompensationCalculator) Priceable(ts domain.Timesheet, rate domain.ResolvedRate) bool {
	return pricingSnapshot(ts, rate) != nil
}

// HourlyRateUsed returns the per-hour rate applied to ts, if its pay is hourly.
func (CompensationCalculator) HourlyRateUsed(ts domain.Timesheet, rate domain.ResolvedRate) *decimal.Decimal {
	snap := pricingSnapshot(ts, rate)
	if snap == nil || (snap.Kind != domain.RateHourly && snap.Kind != "") {
		return nil
	}
	v := snap.Amount
	return &v
}

// pricingSnapshot is the snapshot ts is priced with: its own, else the one it
// would receive on approval. Approval and backfill write exactly this value,
// so a timesheet prices the same before and after it is snapshotted.
func pricingSnapshot(ts domain.Timesheet, rate domain.ResolvedRate) *domain.RateSnapshot {
	if ts.RateSnapshot != nil {
		return ts.RateSnapshot
	}
	if ts.LegacyHourlyRate != nil && !ts.LegacyHourlyRate.IsZero() {
		return &domain.RateSnapshot{Kind: domain.RateHourly, Amount: *ts.LegacyHourlyRate}
	}
	return domain.SnapshotOf(rate)
}

// snapshotForTimesheet picks the snapshot a timesheet without one should
// receive. The legacy inline rate wins over the rate history. Returns nil when
// no rate applies.
func snapshotForTimesheet(ctx context.Context, resolver *RateResolver, ts domain.Timesheet) (*domain.RateSnapshot, error) {
	ts.RateSnapshot = nil
	if !ts.NeedsRateLookup() {
		return pricingSnapshot(ts, domain.ResolvedRate{}), nil
	}
	rate, err := resolver.Resolve(ctx, ts.EmployeeID, ts.StartAt)
	if err != nil {
		return nil, err
	}
	return pricingSnapshot(ts, rate), nil
}
