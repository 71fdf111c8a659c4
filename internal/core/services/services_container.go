package services

import (
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.PayrollRun = NewPayrollRunService(
		repos.PayrollRunRepo,
		repos.TimesheetRepo,
		repos.EmployeeRepo,
		repos.RateRepo,
	)

	// Collaborators of the completion saga
	readiness := NewReadinessService(repos.JobRepo, repos.RateRepo)
	earnings := NewTimesheetEarningsService(repos.TimesheetRepo, repos.RateRepo)
	entries := NewPayrollEntryService(repos.JobRepo, repos.TimesheetRepo, repos.PayrollEntryRepo)
	container.JobCompletion = NewCompletionSaga(repos.JobRepo, readiness, earnings, entries)

	container.DisplayNames = NewDisplayNameService(repos.EmployeeRepo)

	return container
}
