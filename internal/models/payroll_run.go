package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRun is a row of the payroll_runs table. Per-employee totals are kept
// as JSONB.
type PayrollRun struct {
	RunID          string
	EmployeeID     *string
	PeriodStart    time.Time
	PeriodEnd      time.Time
	Status         string
	TotalHours     decimal.Decimal
	TotalEarnings  decimal.Decimal
	EmployeeTotals []byte
	AuditFields
}

// RunSummary is a row of payroll_run_summaries, keyed by (run_id, account_id).
type RunSummary struct {
	RunID         string
	AccountID     string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	HoursTotal    decimal.Decimal
	GrossPay      decimal.Decimal
	RateAtTime    decimal.NullDecimal
	Status        string
	TimesheetRefs []string
}

// PayrollEntry is a row of the payroll_entries table.
type PayrollEntry struct {
	EntryID     string
	JobID       string
	EmployeeID  string
	TimesheetID string
	Hours       decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
	CreatedBy   string
}
