package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateKind identifies how a pay amount is applied to a unit of labor.
type RateKind string

const (
	RateHourly   RateKind = "hourly"
	RatePerVisit RateKind = "per_visit"
	RateMonthly  RateKind = "monthly"
)

// Valid reports whether k is one of the known kinds.
func (k RateKind) Valid() bool {
	switch k {
	case RateHourly, RatePerVisit, RateMonthly:
		return true
	}
	return false
}

// EmployeeRate is one entry of an employee's pay-rate history. Rows are never
// edited; a change in pay is a new row with a later EffectiveDate.
type EmployeeRate struct {
	RateID        string          `json:"rateID"`
	EmployeeID    string          `json:"employeeID"`
	EffectiveDate *time.Time      `json:"effectiveDate,omitempty"` // nil only on legacy rows
	Kind          RateKind        `json:"kind"`                    // hourly or per_visit
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ResolvedRate is the outcome of a point-in-time rate lookup. The zero value
// means "no rate": callers must treat it as a missing rate, not as zero pay.
type ResolvedRate struct {
	RateID string          `json:"rateID,omitempty"`
	Kind   RateKind        `json:"kind,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// Missing reports whether no applicable rate was found.
func (r ResolvedRate) Missing() bool {
	return r.Kind == "" || r.Amount.IsZero()
}

// ToResolvedRate converts a stored rate into a lookup result.
func (r EmployeeRate) ToResolvedRate() ResolvedRate {
	kind := r.Kind
	if kind == "" {
		kind = RateHourly
	}
	return ResolvedRate{RateID: r.RateID, Kind: kind, Amount: r.Amount}
}

// RateSnapshot is the pay rate captured into a timesheet when it is approved.
// Once present it is authoritative for that timesheet's compensation.
type RateSnapshot struct {
	Kind   RateKind        `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// SnapshotOf captures a resolved rate as a snapshot.
func SnapshotOf(r ResolvedRate) *RateSnapshot {
	if r.Missing() {
		return nil
	}
	return &RateSnapshot{Kind: r.Kind, Amount: r.Amount}
}
