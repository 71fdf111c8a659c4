package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

var _ portsrepo.RateRepositoryFacade = (*MockRateRepository)(nil)

func (m *MockRateRepository) FindEffectiveRate(ctx context.Context, employeeID string, at time.Time) (*domain.EmployeeRate, error) {
	args := m.Called(ctx, employeeID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeRate), args.Error(1)
}

func (m *MockRateRepository) FindLegacyRate(ctx context.Context, employeeID string, at time.Time) (*domain.EmployeeRate, error) {
	args := m.Called(ctx, employeeID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeRate), args.Error(1)
}

func (m *MockRateRepository) SaveRate(ctx context.Context, rate domain.EmployeeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock EmployeeRepository ---
type MockEmployeeRepository struct {
	mock.Mock
}

var _ portsrepo.EmployeeRepositoryFacade = (*MockEmployeeRepository)(nil)

func (m *MockEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Employee), args.Error(1)
}

// --- Mock TimesheetRepository ---
type MockTimesheetRepository struct {
	mock.Mock
}

var _ portsrepo.TimesheetRepositoryFacade = (*MockTimesheetRepository)(nil)

func (m *MockTimesheetRepository) timesheets(args mock.Arguments) ([]domain.Timesheet, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Timesheet), args.Error(1)
}

func (m *MockTimesheetRepository) FindTimesheetsByRunID(ctx context.Context, runID string) ([]domain.Timesheet, error) {
	return m.timesheets(m.Called(ctx, runID))
}

func (m *MockTimesheetRepository) FindTimesheetsInPeriod(ctx context.Context, period domain.Period) ([]domain.Timesheet, error) {
	return m.timesheets(m.Called(ctx, period))
}

func (m *MockTimesheetRepository) FindTimesheetsWithoutSnapshot(ctx context.Context, period domain.Period) ([]domain.Timesheet, error) {
	return m.timesheets(m.Called(ctx, period))
}

func (m *MockTimesheetRepository) FindTimesheetsByJobID(ctx context.Context, jobID string) ([]domain.Timesheet, error) {
	return m.timesheets(m.Called(ctx, jobID))
}

func (m *MockTimesheetRepository) FindTimesheetsByIDs(ctx context.Context, timesheetIDs []string) (map[string]domain.Timesheet, error) {
	args := m.Called(ctx, timesheetIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Timesheet), args.Error(1)
}

func (m *MockTimesheetRepository) ApproveTimesheet(ctx context.Context, approval domain.TimesheetApproval) error {
	args := m.Called(ctx, approval)
	return args.Error(0)
}

func (m *MockTimesheetRepository) SetRateSnapshot(ctx context.Context, timesheetID string, snapshot domain.RateSnapshot, earnings *decimal.Decimal) error {
	args := m.Called(ctx, timesheetID, snapshot, earnings)
	return args.Error(0)
}

func (m *MockTimesheetRepository) UpdateTimesheetEarnings(ctx context.Context, updates []domain.TimesheetEarnings) error {
	args := m.Called(ctx, updates)
	return args.Error(0)
}

// --- Mock PayrollRunRepository ---
type MockPayrollRunRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollRunRepositoryFacade = (*MockPayrollRunRepository)(nil)

func (m *MockPayrollRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRunRepository) FindRunsByPeriod(ctx context.Context, period domain.Period) ([]domain.PayrollRun, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollRun), args.Error(1)
}

func (m *MockPayrollRunRepository) ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.PayrollRun), returnedNextToken, args.Error(2)
}

func (m *MockPayrollRunRepository) ListSummaryAccountIDs(ctx context.Context, runID string) ([]string, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPayrollRunRepository) ListSummaries(ctx context.Context, runID string) ([]domain.RunSummary, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunSummary), args.Error(1)
}

func (m *MockPayrollRunRepository) SaveRun(ctx context.Context, run domain.PayrollRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPayrollRunRepository) ApplySummaryBatch(ctx context.Context, batch domain.SummaryBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

// --- Mock JobRepository ---
type MockJobRepository struct {
	mock.Mock
}

var _ portsrepo.JobRepositoryFacade = (*MockJobRepository)(nil)

func (m *MockJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepository) FindPhotosByJobID(ctx context.Context, jobID string) ([]domain.Photo, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Photo), args.Error(1)
}

func (m *MockJobRepository) CommitCompletion(ctx context.Context, commit domain.CompletionCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

func (m *MockJobRepository) RestoreJobState(ctx context.Context, jobID string, state domain.JobStatusState) error {
	args := m.Called(ctx, jobID, state)
	return args.Error(0)
}

func (m *MockJobRepository) RestorePhotos(ctx context.Context, photos []domain.Photo) error {
	args := m.Called(ctx, photos)
	return args.Error(0)
}

// --- Mock PayrollEntryRepository ---
type MockPayrollEntryRepository struct {
	mock.Mock
}

var _ portsrepo.PayrollEntryRepositoryFacade = (*MockPayrollEntryRepository)(nil)

func (m *MockPayrollEntryRepository) FindEntriesByJobID(ctx context.Context, jobID string) ([]domain.PayrollEntry, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayrollEntry), args.Error(1)
}

func (m *MockPayrollEntryRepository) ReplaceJobEntries(ctx context.Context, jobID string, entries []domain.PayrollEntry) error {
	args := m.Called(ctx, jobID, entries)
	return args.Error(0)
}

// --- Collaborator mocks ---
type MockReadinessValidator struct {
	mock.Mock
}

var _ portssvc.ReadinessValidator = (*MockReadinessValidator)(nil)

func (m *MockReadinessValidator) ValidateJobPayrollReadiness(ctx context.Context, jobID string) ([]string, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockEarningsUpdater struct {
	mock.Mock
}

var _ portssvc.EarningsUpdater = (*MockEarningsUpdater)(nil)

func (m *MockEarningsUpdater) UpdateTimesheetEarningsOnJobCompletion(ctx context.Context, jobID string) (domain.EarningsUpdate, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(domain.EarningsUpdate), args.Error(1)
}

func (m *MockEarningsUpdater) RollbackTimesheetEarningsOnJobCompletion(ctx context.Context, previous []domain.TimesheetEarnings) error {
	args := m.Called(ctx, previous)
	return args.Error(0)
}

type MockPayrollEntryCreator struct {
	mock.Mock
}

var _ portssvc.PayrollEntryCreator = (*MockPayrollEntryCreator)(nil)

func (m *MockPayrollEntryCreator) CreatePayrollEntriesForJob(ctx context.Context, jobID string) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

// --- helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
