package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timesheet is a single employee's logged unit of work (time or visit) that is
// eligible for compensation.
type Timesheet struct {
	TimesheetID      string           `json:"timesheetID"`
	EmployeeID       string           `json:"employeeID"`
	ProfileID        string           `json:"profileID,omitempty"` // Optional linked account/profile
	JobID            string           `json:"jobID,omitempty"`
	StartAt          time.Time        `json:"startAt"`
	EndAt            time.Time        `json:"endAt"`
	Hours            decimal.Decimal  `json:"hours"`
	Units            int              `json:"units"` // Visits; treated as 1 when unset
	RateSnapshot     *RateSnapshot    `json:"rateSnapshot,omitempty"`
	LegacyHourlyRate *decimal.Decimal `json:"legacyHourlyRate,omitempty"` // Untyped inline rate from older records
	EmployeeApproved bool             `json:"employeeApproved"`
	AdminApproved    bool             `json:"adminApproved"`
	ApprovedInRunID  *string          `json:"approvedInRunID,omitempty"`
	Earnings         *decimal.Decimal `json:"earnings,omitempty"` // Derived, cached
	AuditFields
}

// UnitCount returns Units with the default of one visit applied.
func (t Timesheet) UnitCount() int {
	if t.Units <= 0 {
		return 1
	}
	return t.Units
}

// NeedsRateLookup reports whether computing earnings requires a resolved rate.
// A zero legacy rate counts as absent.
func (t Timesheet) NeedsRateLookup() bool {
	return t.RateSnapshot == nil && (t.LegacyHourlyRate == nil || t.LegacyHourlyRate.IsZero())
}

// TimesheetEarnings is the earnings-related state of a timesheet, captured so
// that a later step can restore it exactly.
type TimesheetEarnings struct {
	TimesheetID  string           `json:"timesheetID"`
	Earnings     *decimal.Decimal `json:"earnings,omitempty"`
	RateSnapshot *RateSnapshot    `json:"rateSnapshot,omitempty"`
}

// EarningsUpdate describes the timesheets touched by a job-completion earnings
// update together with their values before the update.
type EarningsUpdate struct {
	TimesheetIDs []string            `json:"timesheetIDs"`
	Previous     []TimesheetEarnings `json:"previous"`
}

// TimesheetApproval binds a timesheet to a payroll run.
type TimesheetApproval struct {
	TimesheetID  string
	RunID        string
	RateSnapshot *RateSnapshot // set only when the timesheet has no snapshot yet
	ApprovedBy   string
	ApprovedAt   time.Time
}
