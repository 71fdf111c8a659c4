package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/models"
)

// ToModelPayrollRun converts a domain PayrollRun to a run row
func ToModelPayrollRun(d domain.PayrollRun) (models.PayrollRun, error) {
	totals, err := MarshalEmployeeTotals(d.Totals.Employees)
	if err != nil {
		return models.PayrollRun{}, err
	}
	return models.PayrollRun{
		RunID:          d.RunID,
		EmployeeID:     nilIfEmpty(d.EmployeeID),
		PeriodStart:    d.PeriodStart,
		PeriodEnd:      d.PeriodEnd,
		Status:         string(d.Status),
		TotalHours:     d.Totals.TotalHours,
		TotalEarnings:  d.Totals.TotalEarnings,
		EmployeeTotals: totals,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainPayrollRun converts a run row to a domain PayrollRun
func ToDomainPayrollRun(m models.PayrollRun) (domain.PayrollRun, error) {
	employees := map[string]domain.EmployeeTotals{}
	if len(m.EmployeeTotals) > 0 {
		if err := json.Unmarshal(m.EmployeeTotals, &employees); err != nil {
			return domain.PayrollRun{}, fmt.Errorf("invalid employee totals on run %s: %w", m.RunID, err)
		}
	}
	return domain.PayrollRun{
		RunID:       m.RunID,
		EmployeeID:  stringOrEmpty(m.EmployeeID),
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		Status:      domain.PayrollRunStatus(m.Status),
		Totals: domain.RunTotals{
			Employees:     employees,
			TotalHours:    m.TotalHours,
			TotalEarnings: m.TotalEarnings,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}

// MarshalEmployeeTotals encodes per-employee totals for the JSONB column.
func MarshalEmployeeTotals(employees map[string]domain.EmployeeTotals) ([]byte, error) {
	if employees == nil {
		employees = map[string]domain.EmployeeTotals{}
	}
	b, err := json.Marshal(employees)
	if err != nil {
		return nil, fmt.Errorf("failed to encode employee totals: %w", err)
	}
	return b, nil
}

// ToModelRunSummary converts a domain RunSummary of a run to a summary row
func ToModelRunSummary(runID string, d domain.RunSummary) models.RunSummary {
	refs := d.TimesheetRefs
	if refs == nil {
		refs = []string{}
	}
	return models.RunSummary{
		RunID:         runID,
		AccountID:     d.AccountID,
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		HoursTotal:    d.HoursTotal,
		GrossPay:      d.GrossPay,
		RateAtTime:    ToNullDecimal(d.RateAtTime),
		Status:        string(d.Status),
		TimesheetRefs: refs,
	}
}

// ToDomainRunSummary converts a summary row to a domain RunSummary
func ToDomainRunSummary(m models.RunSummary) domain.RunSummary {
	return domain.RunSummary{
		AccountID:     m.AccountID,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		HoursTotal:    m.HoursTotal,
		GrossPay:      m.GrossPay,
		RateAtTime:    FromNullDecimal(m.RateAtTime),
		Status:        domain.PayrollRunStatus(m.Status),
		TimesheetRefs: m.TimesheetRefs,
	}
}

// ToModelPayrollEntry converts a domain PayrollEntry to an entry row
func ToModelPayrollEntry(d domain.PayrollEntry) models.PayrollEntry {
	return models.PayrollEntry(d)
}

// ToDomainPayrollEntry converts an entry row to a domain PayrollEntry
func ToDomainPayrollEntry(m models.PayrollEntry) domain.PayrollEntry {
	return domain.PayrollEntry(m)
}
