package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CompletionSagaTestSuite struct {
	suite.Suite
	jobRepo   *MockJobRepository
	readiness *MockReadinessValidator
	earnings  *MockEarningsUpdater
	entries   *MockPayrollEntryCreator
	saga      *services.CompletionSaga
	ctx       context.Context
	job       *domain.Job
	photos    []domain.Photo
}

func (suite *CompletionSagaTestSuite) SetupTest() {
	suite.jobRepo = new(MockJobRepository)
	suite.readiness = new(MockReadinessValidator)
	suite.earnings = new(MockEarningsUpdater)
	suite.entries = new(MockPayrollEntryCreator)
	suite.saga = services.NewCompletionSaga(suite.jobRepo, suite.readiness, suite.earnings, suite.entries)
	suite.ctx = context.Background()
	suite.job = &domain.Job{
		JobID:               "job-1",
		AssignedEmployeeIDs: []string{"emp-1", "emp-2"},
		Status:              "In Progress",
		CanonicalStatus:     domain.JobInProgress,
		ScheduledAt:         date(2024, time.April, 3),
	}
	suite.photos = []domain.Photo{
		{PhotoID: "ph-1", JobID: "job-1", Visible: false, Note: ""},
		{PhotoID: "ph-2", JobID: "job-1", Visible: true, Note: "before"},
	}
}

func TestCompletionSagaTestSuite(t *testing.T) {
	suite.Run(t, new(CompletionSagaTestSuite))
}

func (suite *CompletionSagaTestSuite) request() domain.CompletionRequest {
	return domain.CompletionRequest{
		JobID:   "job-1",
		ActorID: "admin-1",
		PhotoChanges: []domain.PhotoChange{
			{PhotoID: "ph-1", Visible: boolPtr(true), Note: strPtr("after")},
			{PhotoID: "ph-2", Visible: boolPtr(true)}, // no-op
		},
	}
}

func (suite *CompletionSagaTestSuite) expectGuardPasses() {
	suite.jobRepo.On("FindJobByID", mock.Anything, "job-1").Return(suite.job, nil).Once()
	suite.readiness.On("ValidateJobPayrollReadiness", mock.Anything, "job-1").Return([]string{}, nil).Once()
	suite.jobRepo.On("FindPhotosByJobID", mock.Anything, "job-1").Return(suite.photos, nil).Once()
}

func (suite *CompletionSagaTestSuite) commitMatches() any {
	return mock.MatchedBy(func(c domain.CompletionCommit) bool {
		return c.JobID == "job-1" &&
			c.State.CanonicalStatus == domain.JobCompleted &&
			c.State.ApprovedBy != nil && *c.State.ApprovedBy == "admin-1" &&
			c.State.ApprovedAt != nil &&
			len(c.Photos) == 1 && c.Photos[0].PhotoID == "ph-1" && c.Photos[0].Visible && c.Photos[0].Note == "after"
	})
}

func (suite *CompletionSagaTestSuite) assertNoWrites() {
	suite.jobRepo.AssertNotCalled(suite.T(), "CommitCompletion", mock.Anything, mock.Anything)
	suite.jobRepo.AssertNotCalled(suite.T(), "RestoreJobState", mock.Anything, mock.Anything, mock.Anything)
	suite.jobRepo.AssertNotCalled(suite.T(), "RestorePhotos", mock.Anything, mock.Anything)
	suite.earnings.AssertNotCalled(suite.T(), "UpdateTimesheetEarningsOnJobCompletion", mock.Anything, mock.Anything)
	suite.entries.AssertNotCalled(suite.T(), "CreatePayrollEntriesForJob", mock.Anything, mock.Anything)
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_Success() {
	suite.expectGuardPasses()
	suite.jobRepo.On("CommitCompletion", mock.Anything, suite.commitMatches()).Return(nil).Once()
	suite.earnings.On("UpdateTimesheetEarningsOnJobCompletion", mock.Anything, "job-1").
		Return(domain.EarningsUpdate{TimesheetIDs: []string{"ts-1"}, Previous: []domain.TimesheetEarnings{{TimesheetID: "ts-1"}}}, nil).Once()
	suite.entries.On("CreatePayrollEntriesForJob", mock.Anything, "job-1").Return(nil).Once()

	result, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.Require().NoError(err)
	suite.True(result.Job.IsCompleted())
	suite.True(result.Job.PayrollProcessed)
	suite.Equal([]string{"ts-1"}, result.UpdatedTimesheetIDs)
	suite.Equal([]string{"ph-1"}, result.UpdatedPhotoIDs)
	suite.jobRepo.AssertExpectations(suite.T())
	suite.earnings.AssertExpectations(suite.T())
	suite.entries.AssertExpectations(suite.T())
	suite.earnings.AssertNotCalled(suite.T(), "RollbackTimesheetEarningsOnJobCompletion", mock.Anything, mock.Anything)
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_KeepsExistingApproval() {
	approvedAt := date(2024, time.January, 5)
	suite.job.ApprovedAt = &approvedAt
	suite.job.ApprovedBy = strPtr("manager-7")

	suite.expectGuardPasses()
	suite.jobRepo.On("CommitCompletion", mock.Anything, mock.MatchedBy(func(c domain.CompletionCommit) bool {
		return c.State.ApprovedAt.Equal(approvedAt) && *c.State.ApprovedBy == "manager-7"
	})).Return(nil).Once()
	suite.earnings.On("UpdateTimesheetEarningsOnJobCompletion", mock.Anything, "job-1").Return(domain.EarningsUpdate{}, nil).Once()
	suite.entries.On("CreatePayrollEntriesForJob", mock.Anything, "job-1").Return(nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.Require().NoError(err)
	suite.jobRepo.AssertExpectations(suite.T())
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_GuardRejects() {
	suite.jobRepo.On("FindJobByID", mock.Anything, "job-1").Return(suite.job, nil).Once()
	suite.readiness.On("ValidateJobPayrollReadiness", mock.Anything, "job-1").Return([]string{"emp-2"}, nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.ErrorIs(err, apperrors.ErrPayrollNotReady)
	var notReady *apperrors.PayrollNotReadyError
	suite.Require().ErrorAs(err, &notReady)
	suite.Equal([]string{"emp-2"}, notReady.EmployeeIDs)
	suite.assertNoWrites()
	suite.jobRepo.AssertNotCalled(suite.T(), "FindPhotosByJobID", mock.Anything, mock.Anything)
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_AlreadyCompleted() {
	suite.job.Status = "Completed"
	suite.jobRepo.On("FindJobByID", mock.Anything, "job-1").Return(suite.job, nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.readiness.AssertNotCalled(suite.T(), "ValidateJobPayrollReadiness", mock.Anything, mock.Anything)
	suite.assertNoWrites()
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_JobNotFound() {
	suite.jobRepo.On("FindJobByID", mock.Anything, "job-1").Return(nil, apperrors.NewNotFoundError("job not found")).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.assertNoWrites()
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_UnknownPhoto() {
	suite.expectGuardPasses()
	req := suite.request()
	req.PhotoChanges = append(req.PhotoChanges, domain.PhotoChange{PhotoID: "ph-other", Visible: boolPtr(true)})

	_, err := suite.saga.CompleteJob(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.assertNoWrites()
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_CommitFails() {
	suite.expectGuardPasses()
	suite.jobRepo.On("CommitCompletion", mock.Anything, mock.Anything).Return(errors.New("batch rejected")).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.ErrorIs(err, apperrors.ErrBatchCommit)
	suite.NotErrorIs(err, apperrors.ErrPartialFailure)
	suite.earnings.AssertNotCalled(suite.T(), "UpdateTimesheetEarningsOnJobCompletion", mock.Anything, mock.Anything)
	suite.entries.AssertNotCalled(suite.T(), "CreatePayrollEntriesForJob", mock.Anything, mock.Anything)
	suite.jobRepo.AssertNotCalled(suite.T(), "RestoreJobState", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_EntryCreationFailsCompensatesInReverse() {
	previous := []domain.TimesheetEarnings{{TimesheetID: "ts-1", Earnings: decPtr("12.00")}}
	var order []string

	suite.expectGuardPasses()
	suite.jobRepo.On("CommitCompletion", mock.Anything, suite.commitMatches()).Return(nil).Once()
	suite.earnings.On("UpdateTimesheetEarningsOnJobCompletion", mock.Anything, "job-1").
		Return(domain.EarningsUpdate{TimesheetIDs: []string{"ts-1"}, Previous: previous}, nil).Once()
	suite.entries.On("CreatePayrollEntriesForJob", mock.Anything, "job-1").Return(errors.New("entries store down")).Once()

	suite.earnings.On("RollbackTimesheetEarningsOnJobCompletion", mock.Anything, previous).
		Run(func(mock.Arguments) { order = append(order, "earnings") }).Return(nil).Once()
	suite.jobRepo.On("RestoreJobState", mock.Anything, "job-1", suite.job.StatusState()).
		Run(func(mock.Arguments) { order = append(order, "job") }).Return(nil).Once()
	suite.jobRepo.On("RestorePhotos", mock.Anything, []domain.Photo{suite.photos[0]}).
		Run(func(mock.Arguments) { order = append(order, "photos") }).Return(nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	suite.ErrorIs(err, apperrors.ErrPartialFailure)
	var partial *apperrors.PartialFailureError
	suite.Require().ErrorAs(err, &partial)
	suite.Equal("create_payroll_entries", partial.Step)
	suite.Contains(err.Error(), apperrors.PartialFailureMessage)
	suite.Equal([]string{"earnings", "job", "photos"}, order)
	suite.jobRepo.AssertExpectations(suite.T())
	suite.earnings.AssertExpectations(suite.T())
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_EarningsFailsRestoresCommit() {
	suite.expectGuardPasses()
	suite.jobRepo.On("CommitCompletion", mock.Anything, mock.Anything).Return(nil).Once()
	suite.earnings.On("UpdateTimesheetEarningsOnJobCompletion", mock.Anything, "job-1").
		Return(domain.EarningsUpdate{}, errors.New("timesheet write failed")).Once()
	suite.jobRepo.On("RestoreJobState", mock.Anything, "job-1", suite.job.StatusState()).Return(nil).Once()
	suite.jobRepo.On("RestorePhotos", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	var partial *apperrors.PartialFailureError
	suite.Require().ErrorAs(err, &partial)
	suite.Equal("update_timesheet_earnings", partial.Step)
	suite.entries.AssertNotCalled(suite.T(), "CreatePayrollEntriesForJob", mock.Anything, mock.Anything)
	suite.earnings.AssertNotCalled(suite.T(), "RollbackTimesheetEarningsOnJobCompletion", mock.Anything, mock.Anything)
	suite.jobRepo.AssertExpectations(suite.T())
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_CompensationFailuresAreSwallowed() {
	suite.expectGuardPasses()
	suite.jobRepo.On("CommitCompletion", mock.Anything, mock.Anything).Return(nil).Once()
	suite.earnings.On("UpdateTimesheetEarningsOnJobCompletion", mock.Anything, "job-1").Return(domain.EarningsUpdate{}, nil).Once()
	suite.entries.On("CreatePayrollEntriesForJob", mock.Anything, "job-1").Return(errors.New("boom")).Once()
	suite.earnings.On("RollbackTimesheetEarningsOnJobCompletion", mock.Anything, mock.Anything).Return(errors.New("rollback failed")).Once()
	suite.jobRepo.On("RestoreJobState", mock.Anything, "job-1", mock.Anything).Return(errors.New("restore failed")).Once()
	suite.jobRepo.On("RestorePhotos", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, suite.request())

	var partial *apperrors.PartialFailureError
	suite.Require().ErrorAs(err, &partial)
	suite.Equal("boom", partial.Cause.Error())
	suite.jobRepo.AssertExpectations(suite.T())
	suite.earnings.AssertExpectations(suite.T())
}

func (suite *CompletionSagaTestSuite) TestCompleteJob_NoPhotoChangesSkipsPhotoRestore() {
	suite.expectGuardPasses()
	req := suite.request()
	req.PhotoChanges = nil
	suite.jobRepo.On("CommitCompletion", mock.Anything, mock.Anything).Return(nil).Once()
	suite.earnings.On("UpdateTimesheetEarningsOnJobCompletion", mock.Anything, "job-1").Return(domain.EarningsUpdate{}, nil).Once()
	suite.entries.On("CreatePayrollEntriesForJob", mock.Anything, "job-1").Return(errors.New("boom")).Once()
	suite.earnings.On("RollbackTimesheetEarningsOnJobCompletion", mock.Anything, mock.Anything).Return(nil).Once()
	suite.jobRepo.On("RestoreJobState", mock.Anything, "job-1", mock.Anything).Return(nil).Once()

	_, err := suite.saga.CompleteJob(suite.ctx, req)

	suite.ErrorIs(err, apperrors.ErrPartialFailure)
	suite.jobRepo.AssertNotCalled(suite.T(), "RestorePhotos", mock.Anything, mock.Anything)
}
