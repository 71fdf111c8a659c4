package mapping

import (
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/models"
)

// ToDomainEmployeeRate converts a rate row to a domain EmployeeRate
func ToDomainEmployeeRate(m models.EmployeeRate) domain.EmployeeRate {
	return domain.EmployeeRate{
		RateID:        m.RateID,
		EmployeeID:    m.EmployeeID,
		EffectiveDate: m.EffectiveDate,
		Kind:          domain.RateKind(stringOrEmpty(m.Kind)),
		Amount:        m.Amount,
		CreatedAt:     m.CreatedAt,
	}
}

// ToModelEmployeeRate converts a domain EmployeeRate to a rate row
func ToModelEmployeeRate(d domain.EmployeeRate) models.EmployeeRate {
	return models.EmployeeRate{
		RateID:        d.RateID,
		EmployeeID:    d.EmployeeID,
		EffectiveDate: d.EffectiveDate,
		Kind:          nilIfEmpty(string(d.Kind)),
		Amount:        d.Amount,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainEmployee converts an employee row to a domain Employee
func ToDomainEmployee(m models.Employee) domain.Employee {
	return domain.Employee{
		EmployeeID:  m.EmployeeID,
		DisplayName: m.DisplayName,
		ProfileID:   stringOrEmpty(m.ProfileID),
	}
}
