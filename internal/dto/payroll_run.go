package dto

import (
	"sort"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodRequest carries the bounds of a payroll period.
type PeriodRequest struct {
	PeriodStart time.Time `json:"periodStart" binding:"required"`
	PeriodEnd   time.Time `json:"periodEnd" binding:"required,gtfield=PeriodStart"`
}

// ToPeriod converts the request into a domain.Period.
func (r PeriodRequest) ToPeriod() domain.Period {
	return domain.Period{Start: r.PeriodStart, End: r.PeriodEnd}
}

// CreatePayrollRunRequest defines the data needed to create a draft run.
type CreatePayrollRunRequest struct {
	PeriodRequest
	EmployeeID string `json:"employeeID,omitempty" binding:"omitempty,entity_id"`
}

// ApproveTimesheetsRequest lists the timesheets to approve into a run.
type ApproveTimesheetsRequest struct {
	TimesheetIDs []string `json:"timesheetIDs" binding:"required,min=1,max=500,dive,entity_id"`
}

// ListPayrollRunsParams defines query parameters for listing runs.
type ListPayrollRunsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// PayrollRunResponse defines the data returned for a payroll run.
type PayrollRunResponse struct {
	RunID         string                           `json:"runID"`
	EmployeeID    string                           `json:"employeeID,omitempty"`
	PeriodStart   time.Time                        `json:"periodStart"`
	PeriodEnd     time.Time                        `json:"periodEnd"`
	Status        string                           `json:"status"`
	TotalHours    decimal.Decimal                  `json:"totalHours"`
	TotalEarnings decimal.Decimal                  `json:"totalEarnings"`
	Employees     map[string]domain.EmployeeTotals `json:"employees"`
	CreatedAt     time.Time                        `json:"createdAt"`
	CreatedBy     string                           `json:"createdBy"`
	LastUpdatedAt time.Time                        `json:"lastUpdatedAt"`
	LastUpdatedBy string                           `json:"lastUpdatedBy"`
}

// ListPayrollRunsResponse wraps a page of runs.
type ListPayrollRunsResponse struct {
	Runs      []PayrollRunResponse `json:"runs"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// RunSummaryResponse defines the data returned for one account of a run.
type RunSummaryResponse struct {
	AccountID     string           `json:"accountID"`
	PeriodStart   time.Time        `json:"periodStart"`
	PeriodEnd     time.Time        `json:"periodEnd"`
	HoursTotal    decimal.Decimal  `json:"hoursTotal"`
	GrossPay      decimal.Decimal  `json:"grossPay"`
	RateAtTime    *decimal.Decimal `json:"rateAtTime,omitempty"`
	Status        string           `json:"status"`
	TimesheetRefs []string         `json:"timesheetRefs"`
}

// MissingRateResponse identifies a timesheet that could not be priced.
type MissingRateResponse struct {
	TimesheetID string    `json:"timesheetID"`
	EmployeeID  string    `json:"employeeID"`
	StartAt     time.Time `json:"startAt"`
}

// RecalcRunResponse is returned after a run was recalculated.
type RecalcRunResponse struct {
	Run          PayrollRunResponse    `json:"run"`
	Summaries    []RunSummaryResponse  `json:"summaries"`
	MissingRates []MissingRateResponse `json:"missingRates"`
	Skipped      int                   `json:"skipped"`
}

// PeriodScanResponse previews a period without persisting anything.
type PeriodScanResponse struct {
	PeriodStart    time.Time                        `json:"periodStart"`
	PeriodEnd      time.Time                        `json:"periodEnd"`
	TimesheetCount int                              `json:"timesheetCount"`
	EmployeeCount  int                              `json:"employeeCount"`
	TotalHours     decimal.Decimal                  `json:"totalHours"`
	TotalEarnings  decimal.Decimal                  `json:"totalEarnings"`
	Employees      map[string]domain.EmployeeTotals `json:"employees"`
	MissingRates   []MissingRateResponse            `json:"missingRates"`
}

// BulkResultResponse reports the per-record outcome of a bulk operation.
type BulkResultResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// ToPayrollRunResponse converts a domain.PayrollRun to PayrollRunResponse DTO.
func ToPayrollRunResponse(r *domain.PayrollRun) PayrollRunResponse {
	employees := r.Totals.Employees
	if employees == nil {
		employees = map[string]domain.EmployeeTotals{}
	}
	return PayrollRunResponse{
		RunID:         r.RunID,
		EmployeeID:    r.EmployeeID,
		PeriodStart:   r.PeriodStart,
		PeriodEnd:     r.PeriodEnd,
		Status:        string(r.Status),
		TotalHours:    r.Totals.TotalHours,
		TotalEarnings: r.Totals.TotalEarnings,
		Employees:     employees,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		LastUpdatedAt: r.LastUpdatedAt,
		LastUpdatedBy: r.LastUpdatedBy,
	}
}

// ToListPayrollRunsResponse converts a page of runs.
func ToListPayrollRunsResponse(runs []domain.PayrollRun, nextToken *string) ListPayrollRunsResponse {
	resp := ListPayrollRunsResponse{Runs: make([]PayrollRunResponse, len(runs)), NextToken: nextToken}
	for i := range runs {
		resp.Runs[i] = ToPayrollRunResponse(&runs[i])
	}
	return resp
}

// ToRunSummaryResponse converts a domain.RunSummary to RunSummaryResponse DTO.
func ToRunSummaryResponse(s domain.RunSummary) RunSummaryResponse {
	refs := s.TimesheetRefs
	if refs == nil {
		refs = []string{}
	}
	return RunSummaryResponse{
		AccountID:     s.AccountID,
		PeriodStart:   s.PeriodStart,
		PeriodEnd:     s.PeriodEnd,
		HoursTotal:    s.HoursTotal,
		GrossPay:      s.GrossPay,
		RateAtTime:    s.RateAtTime,
		Status:        string(s.Status),
		TimesheetRefs: refs,
	}
}

// ToRunSummaryResponses converts a slice of summaries.
func ToRunSummaryResponses(summaries []domain.RunSummary) []RunSummaryResponse {
	out := make([]RunSummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = ToRunSummaryResponse(s)
	}
	return out
}

func toMissingRateResponses(missing []domain.MissingRate) []MissingRateResponse {
	out := make([]MissingRateResponse, len(missing))
	for i, m := range missing {
		out[i] = MissingRateResponse(m)
	}
	return out
}

// ToRecalcRunResponse converts an aggregation result. Summaries are ordered by account.
func ToRecalcRunResponse(agg *domain.RunAggregate) RecalcRunResponse {
	run := agg.Run
	run.Totals = agg.Totals
	summaries := make([]domain.RunSummary, 0, len(agg.Summaries))
	for _, s := range agg.Summaries {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].AccountID < summaries[j].AccountID })
	return RecalcRunResponse{
		Run:          ToPayrollRunResponse(&run),
		Summaries:    ToRunSummaryResponses(summaries),
		MissingRates: toMissingRateResponses(agg.MissingRates),
		Skipped:      agg.Skipped,
	}
}

// ToPeriodScanResponse converts a domain.PeriodScan to PeriodScanResponse DTO.
func ToPeriodScanResponse(s *domain.PeriodScan) PeriodScanResponse {
	employees := s.Employees
	if employees == nil {
		employees = map[string]domain.EmployeeTotals{}
	}
	return PeriodScanResponse{
		PeriodStart:    s.Period.Start,
		PeriodEnd:      s.Period.End,
		TimesheetCount: s.TimesheetCount,
		EmployeeCount:  s.EmployeeCount,
		TotalHours:     s.TotalHours,
		TotalEarnings:  s.TotalEarnings,
		Employees:      employees,
		MissingRates:   toMissingRateResponses(s.MissingRates),
	}
}

// ToBulkResultResponse converts a domain.BulkResult to BulkResultResponse DTO.
func ToBulkResultResponse(r *domain.BulkResult) BulkResultResponse {
	return BulkResultResponse(*r)
}
