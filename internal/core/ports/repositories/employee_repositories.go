package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// EmployeeReader defines read operations for employees.
type EmployeeReader interface {
	// FindEmployeeByID returns apperrors.ErrNotFound when the employee does not exist.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// FindEmployeesByIDs returns the employees that exist, keyed by ID. Unknown
	// IDs are absent from the map.
	FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error)
}

// EmployeeRepositoryFacade combines all employee-related repository interfaces
type EmployeeRepositoryFacade interface {
	EmployeeReader
}
