package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
)

const (
	opCommitCompletion = "commit_job_completion"

	stepUpdateEarnings   = "update_timesheet_earnings"
	stepCreateEntries    = "create_payroll_entries"
	stepRollbackEarnings = "rollback_timesheet_earnings"
	stepRestoreJob       = "restore_job_status"
	stepRestorePhotos    = "restore_photos"
)

// sagaLog records the inverse of every forward step that has taken effect.
type sagaLog struct {
	jobID string
	steps []compensation
}

type compensation struct {
	name string
	undo func(ctx context.Context) error
}

func (l *sagaLog) push(name string, undo func(ctx context.Context) error) {
	l.steps = append(l.steps, compensation{name: name, undo: undo})
}

// compensate runs the recorded inverses newest first. Failures are logged and
// otherwise ignored; every inverse is attempted once.
func (l *sagaLog) compensate(ctx context.Context) {
	logger := middleware.GetLoggerFromCtx(ctx)
	// Compensation must not be cut short by the caller going away.
	ctx = context.WithoutCancel(ctx)

	for i := len(l.steps) - 1; i >= 0; i-- {
		step := l.steps[i]
		if err := step.undo(ctx); err != nil {
			logger.Error("Compensation step failed",
				slog.String("job_id", l.jobID),
				slog.String("step", step.name),
				slog.String("error", err.Error()))
			continue
		}
		logger.Info("Compensation step applied", slog.String("job_id", l.jobID), slog.String("step", step.name))
	}
}

// CompletionSaga moves a job to completed: guard, atomic commit, then the
// payroll follow-up with compensation on failure.
type CompletionSaga struct {
	jobRepo   portsrepo.JobRepositoryFacade
	readiness portssvc.ReadinessValidator
	earnings  portssvc.EarningsUpdater
	entries   portssvc.PayrollEntryCreator
}

func NewCompletionSaga(
	jobRepo portsrepo.JobRepositoryFacade,
	readiness portssvc.ReadinessValidator,
	earnings portssvc.EarningsUpdater,
	entries portssvc.PayrollEntryCreator,
) *CompletionSaga {
	return &CompletionSaga{
		jobRepo:   jobRepo,
		readiness: readiness,
		earnings:  earnings,
		entries:   entries,
	}
}

var _ portssvc.JobCompletionSvc = (*CompletionSaga)(nil)

// CompleteJob returns *apperrors.PayrollNotReadyError when the guard rejects
// the job, *apperrors.BatchCommitError when the commit fails and
// *apperrors.PartialFailureError when a follow-up step fails after the commit.
func (s *CompletionSaga) CompleteJob(ctx context.Context, req domain.CompletionRequest) (*domain.CompletionResult, error) {
	if req.JobID == "" {
		return nil, apperrors.NewValidationError("job ID is required")
	}
	if req.ActorID == "" {
		return nil, apperrors.NewValidationError("actor is required")
	}
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("job_id", req.JobID))

	job, err := s.jobRepo.FindJobByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job.IsCompleted() {
		return nil, fmt.Errorf("%w: job %s is already completed", apperrors.ErrConflict, req.JobID)
	}

	missing, err := s.readiness.ValidateJobPayrollReadiness(ctx, req.JobID)
	if err != nil {
		return nil, fmt.Errorf("payroll readiness check failed for job %s: %w", req.JobID, err)
	}
	if len(missing) > 0 {
		logger.Warn("Job completion refused, employees missing pay rates", slog.Any("employee_ids", missing))
		return nil, &apperrors.PayrollNotReadyError{JobID: req.JobID, EmployeeIDs: missing}
	}

	photos, err := s.jobRepo.FindPhotosByJobID(ctx, req.JobID)
	if err != nil {
		logger.Error("Failed to load job photos", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load photos for job %s: %w", req.JobID, err)
	}
	changed, prior, err := applyPhotoChanges(photos, req.PhotoChanges)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	before := job.StatusState()
	after := completedState(before, req.ActorID, now)

	commit := domain.CompletionCommit{
		JobID:  req.JobID,
		State:  after,
		Photos: changed,
		At:     now,
		By:     req.ActorID,
	}
	if err := s.jobRepo.CommitCompletion(ctx, commit); err != nil {
		logger.Error("Job completion commit failed", slog.String("error", err.Error()))
		return nil, &apperrors.BatchCommitError{Op: opCommitCompletion, Cause: err}
	}

	saga := &sagaLog{jobID: req.JobID}
	saga.push(stepRestorePhotos, func(ctx context.Context) error {
		if len(prior) == 0 {
			return nil
		}
		return s.jobRepo.RestorePhotos(ctx, prior)
	})
	saga.push(stepRestoreJob, func(ctx context.Context) error {
		return s.jobRepo.RestoreJobState(ctx, req.JobID, before)
	})

	update, err := s.earnings.UpdateTimesheetEarningsOnJobCompletion(ctx, req.JobID)
	if err != nil {
		return nil, s.fail(ctx, saga, stepUpdateEarnings, err)
	}
	saga.push(stepRollbackEarnings, func(ctx context.Context) error {
		return s.earnings.RollbackTimesheetEarningsOnJobCompletion(ctx, update.Previous)
	})

	if err := s.entries.CreatePayrollEntriesForJob(ctx, req.JobID); err != nil {
		return nil, s.fail(ctx, saga, stepCreateEntries, err)
	}

	job.Status = after.Status
	job.CanonicalStatus = after.CanonicalStatus
	job.ApprovedAt = after.ApprovedAt
	job.ApprovedBy = after.ApprovedBy
	job.PayrollProcessed = true
	job.LastUpdatedAt = now
	job.LastUpdatedBy = req.ActorID

	updatedPhotoIDs := make([]string, 0, len(changed))
	for _, p := range changed {
		updatedPhotoIDs = append(updatedPhotoIDs, p.PhotoID)
	}

	logger.Info("Job completed",
		slog.Int("timesheets_updated", len(update.TimesheetIDs)),
		slog.Int("photos_updated", len(updatedPhotoIDs)))
	return &domain.CompletionResult{
		Job:                 *job,
		UpdatedTimesheetIDs: update.TimesheetIDs,
		UpdatedPhotoIDs:     updatedPhotoIDs,
	}, nil
}

func (s *CompletionSaga) fail(ctx context.Context, saga *sagaLog, step string, cause error) error {
	middleware.GetLoggerFromCtx(ctx).Error("Job completion follow-up failed, compensating",
		slog.String("job_id", saga.jobID),
		slog.String("step", step),
		slog.String("error", cause.Error()))
	saga.compensate(ctx)
	return &apperrors.PartialFailureError{JobID: saga.jobID, Step: step, Cause: cause}
}

// completedState sets the approval fields only on the first completion.
func completedState(before domain.JobStatusState, actorID string, now time.Time) domain.JobStatusState {
	after := domain.JobStatusState{
		Status:          string(domain.JobCompleted),
		CanonicalStatus: domain.JobCompleted,
		ApprovedAt:      before.ApprovedAt,
		ApprovedBy:      before.ApprovedBy,
	}
	if after.ApprovedAt == nil {
		at := now
		after.ApprovedAt = &at
	}
	if after.ApprovedBy == nil {
		by := actorID
		after.ApprovedBy = &by
	}
	return after
}

// applyPhotoChanges returns the photos whose values actually change together
// with their current values.
func applyPhotoChanges(photos []domain.Photo, changes []domain.PhotoChange) (changed, prior []domain.Photo, err error) {
	byID := make(map[string]domain.Photo, len(photos))
	for _, p := range photos {
		byID[p.PhotoID] = p
	}

	seen := make(map[string]int)
	for _, c := range changes {
		current, ok := byID[c.PhotoID]
		if !ok {
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("photo %s does not belong to the job", c.PhotoID))
		}
		next := current
		if c.Visible != nil {
			next.Visible = *c.Visible
		}
		if c.Note != nil {
			next.Note = *c.Note
		}

		// A later change to the same photo replaces the earlier one.
		if i, dup := seen[c.PhotoID]; dup {
			changed[i] = next
			byID[c.PhotoID] = next
			continue
		}
		if next == current {
			continue
		}
		seen[c.PhotoID] = len(changed)
		changed = append(changed, next)
		prior = append(prior, current)
		byID[c.PhotoID] = next
	}
	return changed, prior, nil
}
