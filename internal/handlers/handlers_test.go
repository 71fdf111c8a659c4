package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
	"github.com/SscSPs/fieldops_payroll/internal/dto"
	"github.com/SscSPs/fieldops_payroll/internal/handlers"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
	"github.com/SscSPs/fieldops_payroll/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PayrollRunService ---
type MockPayrollRunService struct {
	mock.Mock
}

func (m *MockPayrollRunService) GetRun(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}
func (m *MockPayrollRunService) ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.PayrollRun), next, args.Error(2)
}
func (m *MockPayrollRunService) ListRunSummaries(ctx context.Context, runID string) ([]domain.RunSummary, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunSummary), args.Error(1)
}
func (m *MockPayrollRunService) ScanPeriod(ctx context.Context, period domain.Period) (*domain.PeriodScan, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodScan), args.Error(1)
}
func (m *MockPayrollRunService) CreateRun(ctx context.Context, period domain.Period, employeeID string, actorID string) (*domain.PayrollRun, error) {
	args := m.Called(ctx, period, employeeID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRun), args.Error(1)
}
func (m *MockPayrollRunService) RecalcRun(ctx context.Context, runID string, actorID string) (*domain.RunAggregate, error) {
	args := m.Called(ctx, runID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunAggregate), args.Error(1)
}
func (m *MockPayrollRunService) GenerateRuns(ctx context.Context, period domain.Period, actorID string) (*domain.BulkResult, error) {
	args := m.Called(ctx, period, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}
func (m *MockPayrollRunService) ApproveRecordsIntoRun(ctx context.Context, runID string, timesheetIDs []string, actorID string) (*domain.BulkResult, error) {
	args := m.Called(ctx, runID, timesheetIDs, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}
func (m *MockPayrollRunService) BackfillRateSnapshots(ctx context.Context, period domain.Period) (*domain.BulkResult, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

var _ portssvc.PayrollRunSvcFacade = (*MockPayrollRunService)(nil)

// --- Mock JobCompletionService ---
type MockJobCompletionService struct {
	mock.Mock
}

func (m *MockJobCompletionService) CompleteJob(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompletionResult), args.Error(1)
}

var _ portssvc.JobCompletionSvc = (*MockJobCompletionService)(nil)

// --- Mock DisplayNameResolver ---
type MockDisplayNameResolver struct {
	mock.Mock
}

func (m *MockDisplayNameResolver) ResolveDisplayNames(ctx context.Context, employeeIDs []string) ([]string, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portssvc.DisplayNameResolver = (*MockDisplayNameResolver)(nil)

const (
	testJWTSecret = "test-secret"
	testIssuer    = "fieldops-identity"
	testUserID    = "user-1"
)

type HandlersTestSuite struct {
	suite.Suite
	router      *gin.Engine
	runService  *MockPayrollRunService
	jobService  *MockJobCompletionService
	names       *MockDisplayNameResolver
	token       string
	periodStart time.Time
	periodEnd   time.Time
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.runService = new(MockPayrollRunService)
	suite.jobService = new(MockJobCompletionService)
	suite.names = new(MockDisplayNameResolver)

	cfg := &config.Config{IsProduction: true, JWTSecret: testJWTSecret, JWTIssuer: testIssuer}
	services := &portssvc.ServiceContainer{
		PayrollRun:    suite.runService,
		JobCompletion: suite.jobService,
		DisplayNames:  suite.names,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(suite.router, cfg, services, nil, nil)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   testUserID,
		Issuer:    testIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	suite.token = token

	suite.periodStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.periodEnd = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (suite *HandlersTestSuite) TearDownTest() {
	suite.runService.AssertExpectations(suite.T())
	suite.jobService.AssertExpectations(suite.T())
	suite.names.AssertExpectations(suite.T())
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *HandlersTestSuite) periodMatcher() any {
	return mock.MatchedBy(func(p domain.Period) bool {
		return p.Start.Equal(suite.periodStart) && p.End.Equal(suite.periodEnd)
	})
}

func (suite *HandlersTestSuite) TestRejectsMissingToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll-runs/run-1", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	suite.Equal(http.StatusUnauthorized, rec.Code)
}

func (suite *HandlersTestSuite) TestHealthIsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *HandlersTestSuite) TestCreateRun() {
	run := &domain.PayrollRun{
		RunID:       "run-1",
		PeriodStart: suite.periodStart,
		PeriodEnd:   suite.periodEnd,
		Status:      domain.RunDraft,
		Totals:      domain.NewRunTotals(),
	}
	suite.runService.On("CreateRun", mock.Anything, suite.periodMatcher(), "", testUserID).Return(run, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/payroll-runs", map[string]any{
		"periodStart": suite.periodStart,
		"periodEnd":   suite.periodEnd,
	})

	suite.Require().Equal(http.StatusCreated, rec.Code)
	var resp dto.PayrollRunResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal("run-1", resp.RunID)
	suite.Equal("draft", resp.Status)
	suite.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func (suite *HandlersTestSuite) TestCreateRun_PeriodEndBeforeStart() {
	rec := suite.do(http.MethodPost, "/api/v1/payroll-runs", map[string]any{
		"periodStart": suite.periodEnd,
		"periodEnd":   suite.periodStart,
	})

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.runService.AssertNotCalled(suite.T(), "CreateRun", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestGetRun_NotFound() {
	suite.runService.On("GetRun", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("payroll run missing not found")).Once()

	rec := suite.do(http.MethodGet, "/api/v1/payroll-runs/missing", nil)

	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *HandlersTestSuite) TestListRuns_InvalidToken() {
	token := "garbage"
	suite.runService.On("ListRuns", mock.Anything, 10, &token).
		Return(nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid nextToken", fmt.Errorf("bad base64"))).Once()

	rec := suite.do(http.MethodGet, "/api/v1/payroll-runs?limit=10&nextToken=garbage", nil)

	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.Contains(rec.Body.String(), "invalid nextToken")
}

func (suite *HandlersTestSuite) TestListRuns_LimitOutOfRange() {
	rec := suite.do(http.MethodGet, "/api/v1/payroll-runs?limit=1000", nil)

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestRecalcRun() {
	rate := decimal.RequireFromString("45")
	agg := &domain.RunAggregate{
		Run: domain.PayrollRun{RunID: "run-1", Status: domain.RunDraft},
		Totals: domain.RunTotals{
			Employees:     map[string]domain.EmployeeTotals{},
			TotalHours:    decimal.RequireFromString("3.5"),
			TotalEarnings: decimal.RequireFromString("158.75"),
		},
		Summaries: map[string]domain.RunSummary{
			"acct-2": {AccountID: "acct-2", GrossPay: decimal.RequireFromString("90"), RateAtTime: &rate},
			"acct-1": {AccountID: "acct-1", GrossPay: decimal.RequireFromString("68.75")},
		},
	}
	suite.runService.On("RecalcRun", mock.Anything, "run-1", testUserID).Return(agg, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/payroll-runs/run-1/recalculate", nil)

	suite.Require().Equal(http.StatusOK, rec.Code)
	var resp dto.RecalcRunResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.True(resp.Run.TotalEarnings.Equal(decimal.RequireFromString("158.75")))
	suite.Require().Len(resp.Summaries, 2)
	suite.Equal("acct-1", resp.Summaries[0].AccountID)
	suite.Equal("acct-2", resp.Summaries[1].AccountID)
}

func (suite *HandlersTestSuite) TestApprove_RecalcFailureStillReportsCounts() {
	ids := []string{"ts-1", "ts-2"}
	result := &domain.BulkResult{Updated: 2, Total: 2}
	suite.runService.On("ApproveRecordsIntoRun", mock.Anything, "run-1", ids, testUserID).
		Return(result, fmt.Errorf("recalc failed")).Once()

	rec := suite.do(http.MethodPost, "/api/v1/payroll-runs/run-1/approve", map[string]any{"timesheetIDs": ids})

	suite.Require().Equal(http.StatusOK, rec.Code)
	var resp dto.BulkResultResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(2, resp.Updated)
}

func (suite *HandlersTestSuite) TestApprove_EmptyList() {
	rec := suite.do(http.MethodPost, "/api/v1/payroll-runs/run-1/approve", map[string]any{"timesheetIDs": []string{}})

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestGenerateRuns() {
	suite.runService.On("GenerateRuns", mock.Anything, suite.periodMatcher(), testUserID).
		Return(&domain.BulkResult{Updated: 1, Skipped: 2, Total: 3}, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/payroll/generate", map[string]any{
		"periodStart": suite.periodStart,
		"periodEnd":   suite.periodEnd,
	})

	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"updated":1,"skipped":2,"errors":0,"total":3}`, rec.Body.String())
}

func (suite *HandlersTestSuite) TestCompleteJob_NoBody() {
	result := &domain.CompletionResult{
		Job:                 domain.Job{JobID: "job-1", CanonicalStatus: domain.JobCompleted, PayrollProcessed: true},
		UpdatedTimesheetIDs: []string{"ts-1"},
	}
	suite.jobService.On("CompleteJob", mock.Anything, mock.MatchedBy(func(req domain.CompletionRequest) bool {
		return req.JobID == "job-1" && req.ActorID == testUserID && len(req.PhotoChanges) == 0
	})).Return(result, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/jobs/job-1/complete", nil)

	suite.Require().Equal(http.StatusOK, rec.Code)
	var resp dto.CompleteJobResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.True(resp.Job.PayrollProcessed)
	suite.Equal([]string{"ts-1"}, resp.UpdatedTimesheetIDs)
	suite.Equal([]string{}, resp.UpdatedPhotoIDs)
}

func (suite *HandlersTestSuite) TestCompleteJob_NotReadyListsDisplayNames() {
	notReady := &apperrors.PayrollNotReadyError{JobID: "job-1", EmployeeIDs: []string{"emp-1", "emp-9"}}
	suite.jobService.On("CompleteJob", mock.Anything, mock.Anything).Return(nil, notReady).Once()
	suite.names.On("ResolveDisplayNames", mock.Anything, []string{"emp-1", "emp-9"}).
		Return([]string{"Ada Lovelace", "emp-9"}, nil).Once()

	rec := suite.do(http.MethodPost, "/api/v1/jobs/job-1/complete", map[string]any{})

	suite.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	var resp dto.PayrollNotReadyResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal([]string{"Ada Lovelace", "emp-9"}, resp.Employees)
}

func (suite *HandlersTestSuite) TestCompleteJob_PartialFailure() {
	partial := &apperrors.PartialFailureError{JobID: "job-1", Step: "create_payroll_entries", Cause: fmt.Errorf("db down")}
	suite.jobService.On("CompleteJob", mock.Anything, mock.Anything).Return(nil, partial).Once()

	rec := suite.do(http.MethodPost, "/api/v1/jobs/job-1/complete", nil)

	suite.Require().Equal(http.StatusBadGateway, rec.Code)
	var resp dto.PartialFailureResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal(apperrors.PartialFailureMessage, resp.Error)
	suite.Equal("create_payroll_entries", resp.Step)
}

func (suite *HandlersTestSuite) TestCompleteJob_AlreadyCompleted() {
	suite.jobService.On("CompleteJob", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("job job-1 is already completed: %w", apperrors.ErrConflict)).Once()

	rec := suite.do(http.MethodPost, "/api/v1/jobs/job-1/complete", nil)

	suite.Equal(http.StatusConflict, rec.Code)
}

func (suite *HandlersTestSuite) TestCompleteJob_PhotoChangeWithoutID() {
	rec := suite.do(http.MethodPost, "/api/v1/jobs/job-1/complete", map[string]any{
		"photoChanges": []map[string]any{{"visible": true}},
	})

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestApprove_RejectsMalformedIDs() {
	rec := suite.do(http.MethodPost, "/api/v1/payroll-runs/run-1/approve", map[string]any{"timesheetIDs": []string{"ts-1", "ts 2"}})

	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *HandlersTestSuite) TestEveryPayrollMutationHasAnalyticsEvent() {
	for _, route := range suite.router.Routes() {
		if route.Method != http.MethodPost || route.Path == "/api/v1/jobs/:jobID/complete" {
			continue
		}
		_, ok := middleware.PayrollEventName(route.Method, route.Path)
		suite.True(ok, "no analytics event for %s %s", route.Method, route.Path)
	}
}
