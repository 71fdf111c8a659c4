package services

import (
	"context"

	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
)

type displayNameService struct {
	employeeRepo portsrepo.EmployeeReader
}

func NewDisplayNameService(employeeRepo portsrepo.EmployeeReader) portssvc.DisplayNameResolver {
	return &displayNameService{employeeRepo: employeeRepo}
}

var _ portssvc.DisplayNameResolver = (*displayNameService)(nil)

// ResolveDisplayNames falls back to the raw ID for unknown or unnamed employees.
func (s *displayNameService) ResolveDisplayNames(ctx context.Context, employeeIDs []string) ([]string, error) {
	if len(employeeIDs) == 0 {
		return []string{}, nil
	}
	employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, dedupe(employeeIDs))
	if err != nil {
		return employeeIDs, err
	}

	names := make([]string, len(employeeIDs))
	for i, id := range employeeIDs {
		names[i] = id
		if e, ok := employees[id]; ok && e.DisplayName != "" {
			names[i] = e.DisplayName
		}
	}
	return names, nil
}
