package pgsql

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/models"
	"github.com/SscSPs/fieldops_payroll/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPayrollEntryRepository struct {
	BaseRepository
}

func newPgxPayrollEntryRepository(pool *pgxpool.Pool) portsrepo.PayrollEntryRepositoryFacade {
	return &PgxPayrollEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollEntryRepositoryFacade = (*PgxPayrollEntryRepository)(nil)

// FindEntriesByJobID retrieves the payroll entries created for a job.
func (r *PgxPayrollEntryRepository) FindEntriesByJobID(ctx context.Context, jobID string) ([]domain.PayrollEntry, error) {
	query := `
		SELECT entry_id, job_id, employee_id, timesheet_id, hours, amount, created_at, created_by
		FROM payroll_entries
		WHERE job_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payroll entries for job "+jobID, err)
	}
	defer rows.Close()

	entries := []domain.PayrollEntry{}
	for rows.Next() {
		var m models.PayrollEntry
		err := rows.Scan(&m.EntryID, &m.JobID, &m.EmployeeID, &m.TimesheetID, &m.Hours, &m.Amount, &m.CreatedAt, &m.CreatedBy)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll entry for job "+jobID, err)
		}
		entries = append(entries, mapping.ToDomainPayrollEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payroll entries for job "+jobID, err)
	}
	return entries, nil
}

// ReplaceJobEntries swaps a job's payroll entries and flags the job processed.
func (r *PgxPayrollEntryRepository) ReplaceJobEntries(ctx context.Context, jobID string, entries []domain.PayrollEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM payroll_entries WHERE job_id = $1;`, jobID)
	insert := `
		INSERT INTO payroll_entries (entry_id, job_id, employee_id, timesheet_id, hours, amount, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, e := range entries {
		m := mapping.ToModelPayrollEntry(e)
		batch.Queue(insert, m.EntryID, m.JobID, m.EmployeeID, m.TimesheetID, m.Hours, m.Amount, m.CreatedAt, m.CreatedBy)
	}
	batch.Queue(`UPDATE jobs SET payroll_processed = TRUE WHERE job_id = $1;`, jobID)

	if err := r.sendBatch(ctx, tx, batch, "payroll entries of job "+jobID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
