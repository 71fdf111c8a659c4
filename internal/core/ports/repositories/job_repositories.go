package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// JobReader defines read operations for jobs and their photos
type JobReader interface {
	// FindJobByID returns apperrors.ErrNotFound when the job does not exist.
	FindJobByID(ctx context.Context, jobID string) (*domain.Job, error)

	FindPhotosByJobID(ctx context.Context, jobID string) ([]domain.Photo, error)
}

// JobWriter defines write operations for jobs
type JobWriter interface {
	// CommitCompletion writes the job status/approval fields and the photo
	// edits in a single transaction.
	CommitCompletion(ctx context.Context, commit domain.CompletionCommit) error

	// RestoreJobState puts back the status/approval fields captured before a commit.
	RestoreJobState(ctx context.Context, jobID string, state domain.JobStatusState) error

	// RestorePhotos writes the given photo values back in a single transaction.
	RestorePhotos(ctx context.Context, photos []domain.Photo) error
}

// JobRepositoryFacade combines all job-related repository interfaces
type JobRepositoryFacade interface {
	JobReader
	JobWriter
}
