package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the subset of an employee record the payroll core reads.
type Employee struct {
	EmployeeID  string `json:"employeeID"`
	DisplayName string `json:"displayName"`
	ProfileID   string `json:"profileID,omitempty"` // Account/profile the employee is paid through
}

// PayrollEntry is the payable line created for a timesheet once its job is
// completed.
type PayrollEntry struct {
	EntryID     string          `json:"entryID"`
	JobID       string          `json:"jobID"`
	EmployeeID  string          `json:"employeeID"`
	TimesheetID string          `json:"timesheetID"`
	Hours       decimal.Decimal `json:"hours"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}
