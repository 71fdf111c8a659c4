package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRunStatus is the lifecycle state of a run. Only Draft is assigned
// here; later states belong to the approval workflow.
type PayrollRunStatus string

const (
	RunDraft    PayrollRunStatus = "draft"
	RunApproved PayrollRunStatus = "approved"
	RunPaid     PayrollRunStatus = "paid"
)

// EmployeeTotals is the per-employee slice of a run's totals.
type EmployeeTotals struct {
	Hours      decimal.Decimal  `json:"hours"`
	Earnings   decimal.Decimal  `json:"earnings"`
	HourlyRate *decimal.Decimal `json:"hourlyRate,omitempty"`
}

// RunTotals aggregates every timesheet bound to a run.
type RunTotals struct {
	Employees     map[string]EmployeeTotals `json:"employees"`
	TotalHours    decimal.Decimal           `json:"totalHours"`
	TotalEarnings decimal.Decimal           `json:"totalEarnings"`
}

// NewRunTotals returns empty totals.
func NewRunTotals() RunTotals {
	return RunTotals{Employees: map[string]EmployeeTotals{}}
}

// PayrollRun is a batch of approved timesheets for a period.
type PayrollRun struct {
	RunID       string           `json:"runID"`
	EmployeeID  string           `json:"employeeID,omitempty"` // Set for runs generated per employee
	PeriodStart time.Time        `json:"periodStart"`
	PeriodEnd   time.Time        `json:"periodEnd"`
	Status      PayrollRunStatus `json:"status"`
	Totals      RunTotals        `json:"totals"`
	AuditFields
}

// Period returns the run's bounds as a Period.
func (r PayrollRun) Period() Period {
	return Period{Start: r.PeriodStart, End: r.PeriodEnd}
}

// RunSummary is the derived per-account rollup of a run. It is keyed by the
// account/profile ID and regenerated on every recalculation.
type RunSummary struct {
	AccountID     string           `json:"accountID"`
	PeriodStart   time.Time        `json:"periodStart"`
	PeriodEnd     time.Time        `json:"periodEnd"`
	HoursTotal    decimal.Decimal  `json:"hoursTotal"`
	GrossPay      decimal.Decimal  `json:"grossPay"`
	RateAtTime    *decimal.Decimal `json:"rateAtTime,omitempty"`
	Status        PayrollRunStatus `json:"status"`
	TimesheetRefs []string         `json:"timesheetRefs"`
}

// RunTotalsUpdate is a run's freshly computed totals plus the audit stamp to
// record with them.
type RunTotalsUpdate struct {
	Totals    RunTotals
	UpdatedBy string
	UpdatedAt time.Time
}

// SummaryBatch is the full set of writes for one persist call: summary
// changes and, when set, the run's totals. It is applied atomically.
type SummaryBatch struct {
	RunID   string
	Totals  *RunTotalsUpdate
	Upserts []RunSummary
	Deletes []string // account IDs
}

// Empty reports whether the batch would change nothing.
func (b SummaryBatch) Empty() bool {
	return b.Totals == nil && len(b.Upserts) == 0 && len(b.Deletes) == 0
}

// MissingRate identifies a timesheet whose compensation could not be priced.
type MissingRate struct {
	TimesheetID string    `json:"timesheetID"`
	EmployeeID  string    `json:"employeeID"`
	StartAt     time.Time `json:"startAt"`
}

// RunAggregate is the unpersisted result of aggregating a run.
type RunAggregate struct {
	Run          PayrollRun            `json:"run"`
	Totals       RunTotals             `json:"totals"`
	Summaries    map[string]RunSummary `json:"summaries"`
	MissingRates []MissingRate         `json:"missingRates"`
	Skipped      int                   `json:"skipped"`
}

// PeriodScan is a read-only preview of the timesheets in a period.
type PeriodScan struct {
	Period         Period                    `json:"period"`
	TimesheetCount int                       `json:"timesheetCount"`
	EmployeeCount  int                       `json:"employeeCount"`
	TotalHours     decimal.Decimal           `json:"totalHours"`
	TotalEarnings  decimal.Decimal           `json:"totalEarnings"`
	Employees      map[string]EmployeeTotals `json:"employees"`
	MissingRates   []MissingRate             `json:"missingRates"`
}
