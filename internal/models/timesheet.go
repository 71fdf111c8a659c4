package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timesheet is a row of the timesheets table. The rate snapshot is stored
// flattened in snapshot_kind/snapshot_amount; both are NULL when absent.
type Timesheet struct {
	TimesheetID      string
	EmployeeID       string
	ProfileID        *string
	JobID            *string
	StartAt          time.Time
	EndAt            time.Time
	Hours            decimal.Decimal
	Units            int
	SnapshotKind     *string
	SnapshotAmount   decimal.NullDecimal
	LegacyHourlyRate decimal.NullDecimal
	EmployeeApproved bool
	AdminApproved    bool
	ApprovedInRunID  *string
	Earnings         decimal.NullDecimal
	AuditFields
}

// EmployeeRate is a row of the employee_rates table.
type EmployeeRate struct {
	RateID        string
	EmployeeID    string
	EffectiveDate *time.Time // NULL on legacy rows
	Kind          *string
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// Employee is the payroll-relevant part of an employees row.
type Employee struct {
	EmployeeID  string
	DisplayName string
	ProfileID   *string
}
