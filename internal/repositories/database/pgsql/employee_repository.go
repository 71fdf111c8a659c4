package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/models"
	"github.com/SscSPs/fieldops_payroll/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEmployeeRepository struct {
	BaseRepository
}

func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

// FindEmployeeByID retrieves an employee by its ID.
func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query := `SELECT employee_id, display_name, profile_id FROM employees WHERE employee_id = $1;`
	var m models.Employee
	err := r.Pool.QueryRow(ctx, query, employeeID).Scan(&m.EmployeeID, &m.DisplayName, &m.ProfileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("employee " + employeeID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find employee by ID "+employeeID, err)
	}
	employee := mapping.ToDomainEmployee(m)
	return &employee, nil
}

// FindEmployeesByIDs retrieves the employees that exist among the given IDs.
func (r *PgxEmployeeRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	result := make(map[string]domain.Employee, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}

	query := `SELECT employee_id, display_name, profile_id FROM employees WHERE employee_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employees by IDs", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Employee
		if err := rows.Scan(&m.EmployeeID, &m.DisplayName, &m.ProfileID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan employee row", err)
		}
		result[m.EmployeeID] = mapping.ToDomainEmployee(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating employee rows", err)
	}
	return result, nil
}
