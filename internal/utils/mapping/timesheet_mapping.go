package mapping

import (
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainTimesheet converts a timesheet row to a domain Timesheet
func ToDomainTimesheet(m models.Timesheet) domain.Timesheet {
	return domain.Timesheet{
		TimesheetID:      m.TimesheetID,
		EmployeeID:       m.EmployeeID,
		ProfileID:        stringOrEmpty(m.ProfileID),
		JobID:            stringOrEmpty(m.JobID),
		StartAt:          m.StartAt,
		EndAt:            m.EndAt,
		Hours:            m.Hours,
		Units:            m.Units,
		RateSnapshot:     ToDomainRateSnapshot(m.SnapshotKind, m.SnapshotAmount),
		LegacyHourlyRate: FromNullDecimal(m.LegacyHourlyRate),
		EmployeeApproved: m.EmployeeApproved,
		AdminApproved:    m.AdminApproved,
		ApprovedInRunID:  m.ApprovedInRunID,
		Earnings:         FromNullDecimal(m.Earnings),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTimesheetSlice converts a slice of timesheet rows
func ToDomainTimesheetSlice(ms []models.Timesheet) []domain.Timesheet {
	out := make([]domain.Timesheet, len(ms))
	for i, m := range ms {
		out[i] = ToDomainTimesheet(m)
	}
	return out
}

// ToDomainRateSnapshot rebuilds a snapshot from its flattened columns. A row
// with no kind has no snapshot.
func ToDomainRateSnapshot(kind *string, amount decimal.NullDecimal) *domain.RateSnapshot {
	if kind == nil || *kind == "" || !amount.Valid {
		return nil
	}
	return &domain.RateSnapshot{Kind: domain.RateKind(*kind), Amount: amount.Decimal}
}

// ToModelRateSnapshot flattens a snapshot into its column values.
func ToModelRateSnapshot(s *domain.RateSnapshot) (*string, decimal.NullDecimal) {
	if s == nil {
		return nil, decimal.NullDecimal{}
	}
	kind := string(s.Kind)
	return &kind, decimal.NullDecimal{Decimal: s.Amount, Valid: true}
}

// ToNullDecimal converts an optional decimal to its nullable column value.
func ToNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// FromNullDecimal converts a nullable column value to an optional decimal.
func FromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
