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

type PgxJobRepository struct {
	BaseRepository
}

// newPgxJobRepository creates a new repository for jobs and their photos.
func newPgxJobRepository(pool *pgxpool.Pool) portsrepo.JobRepositoryFacade {
	return &PgxJobRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JobRepositoryFacade = (*PgxJobRepository)(nil)

const (
	updateJobStateQuery = `
		UPDATE jobs
		SET status = $2, canonical_status = $3, approved_at = $4, approved_by = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE job_id = $1;
	`
	restoreJobStateQuery = `
		UPDATE jobs
		SET status = $2, canonical_status = $3, approved_at = $4, approved_by = $5
		WHERE job_id = $1;
	`
	updatePhotoQuery = `UPDATE job_photos SET visible = $2, note = $3 WHERE photo_id = $1;`
)

// FindJobByID retrieves a job by its ID.
func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
		SELECT job_id, assigned_employee_ids, status, canonical_status, scheduled_at,
		       approved_at, approved_by, payroll_processed,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM jobs
		WHERE job_id = $1;
	`
	var m models.Job
	err := r.Pool.QueryRow(ctx, query, jobID).Scan(
		&m.JobID,
		&m.AssignedEmployeeIDs,
		&m.Status,
		&m.CanonicalStatus,
		&m.ScheduledAt,
		&m.ApprovedAt,
		&m.ApprovedBy,
		&m.PayrollProcessed,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("job " + jobID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find job by ID "+jobID, err)
	}
	job := mapping.ToDomainJob(m)
	return &job, nil
}

// FindPhotosByJobID retrieves the photos attached to a job.
func (r *PgxJobRepository) FindPhotosByJobID(ctx context.Context, jobID string) ([]domain.Photo, error) {
	rows, err := r.Pool.Query(ctx, `SELECT photo_id, job_id, visible, note FROM job_photos WHERE job_id = $1 ORDER BY photo_id;`, jobID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query photos for job "+jobID, err)
	}
	defer rows.Close()

	photos := []domain.Photo{}
	for rows.Next() {
		var m models.Photo
		if err := rows.Scan(&m.PhotoID, &m.JobID, &m.Visible, &m.Note); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan photo row for job "+jobID, err)
		}
		photos = append(photos, mapping.ToDomainPhoto(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating photo rows for job "+jobID, err)
	}
	return photos, nil
}

// CommitCompletion writes the job state and the photo edits in one transaction.
func (r *PgxJobRepository) CommitCompletion(ctx context.Context, commit domain.CompletionCommit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, updateJobStateQuery,
		commit.JobID,
		commit.State.Status,
		string(commit.State.CanonicalStatus),
		commit.State.ApprovedAt,
		commit.State.ApprovedBy,
		commit.At,
		commit.By,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update job "+commit.JobID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("job " + commit.JobID + " not found")
	}

	batch := &pgx.Batch{}
	for _, p := range commit.Photos {
		m := mapping.ToModelPhoto(p)
		batch.Queue(updatePhotoQuery, m.PhotoID, m.Visible, m.Note)
	}
	if err := r.sendBatch(ctx, tx, batch, "photos of job "+commit.JobID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// RestoreJobState puts back a job's status and approval fields.
func (r *PgxJobRepository) RestoreJobState(ctx context.Context, jobID string, state domain.JobStatusState) error {
	var canonical *string
	if state.CanonicalStatus != "" {
		s := string(state.CanonicalStatus)
		canonical = &s
	}
	_, err := r.Pool.Exec(ctx, restoreJobStateQuery, jobID, state.Status, canonical, state.ApprovedAt, state.ApprovedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to restore job "+jobID, err)
	}
	return nil
}

// RestorePhotos writes the given photo values back in one transaction.
func (r *PgxJobRepository) RestorePhotos(ctx context.Context, photos []domain.Photo) error {
	if len(photos) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, p := range photos {
		m := mapping.ToModelPhoto(p)
		batch.Queue(updatePhotoQuery, m.PhotoID, m.Visible, m.Note)
	}
	if err := r.sendBatch(ctx, tx, batch, "photo restore"); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
