package pgsql

import (
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:         newPgxRateRepository(dbPool),
		EmployeeRepo:     newPgxEmployeeRepository(dbPool),
		TimesheetRepo:    newPgxTimesheetRepository(dbPool),
		PayrollRunRepo:   newPgxPayrollRunRepository(dbPool),
		JobRepo:          newPgxJobRepository(dbPool),
		PayrollEntryRepo: newPgxPayrollEntryRepository(dbPool),
	}
}
