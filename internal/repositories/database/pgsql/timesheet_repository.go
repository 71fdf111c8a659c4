package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/models"
	"github.com/SscSPs/fieldops_payroll/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTimesheetRepository struct {
	BaseRepository
}

// newPgxTimesheetRepository creates a new repository for timesheet data.
func newPgxTimesheetRepository(pool *pgxpool.Pool) portsrepo.TimesheetRepositoryFacade {
	return &PgxTimesheetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TimesheetRepositoryFacade = (*PgxTimesheetRepository)(nil)

const timesheetSelect = `
	SELECT timesheet_id, employee_id, profile_id, job_id, start_at, end_at, hours, units,
	       snapshot_kind, snapshot_amount, legacy_hourly_rate,
	       employee_approved, admin_approved, approved_in_run_id, earnings,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM timesheets
`

func (r *PgxTimesheetRepository) query(ctx context.Context, what, query string, args ...any) ([]models.Timesheet, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query timesheets "+what, err)
	}
	defer rows.Close()

	timesheets := []models.Timesheet{}
	for rows.Next() {
		var t models.Timesheet
		err := rows.Scan(
			&t.TimesheetID,
			&t.EmployeeID,
			&t.ProfileID,
			&t.JobID,
			&t.StartAt,
			&t.EndAt,
			&t.Hours,
			&t.Units,
			&t.SnapshotKind,
			&t.SnapshotAmount,
			&t.LegacyHourlyRate,
			&t.EmployeeApproved,
			&t.AdminApproved,
			&t.ApprovedInRunID,
			&t.Earnings,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan timesheet row "+what, err)
		}
		timesheets = append(timesheets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating timesheet rows "+what, err)
	}
	return timesheets, nil
}

// FindTimesheetsByRunID retrieves the timesheets approved into a run.
func (r *PgxTimesheetRepository) FindTimesheetsByRunID(ctx context.Context, runID string) ([]domain.Timesheet, error) {
	rows, err := r.query(ctx, "for run "+runID,
		timesheetSelect+` WHERE approved_in_run_id = $1 ORDER BY start_at, timesheet_id;`, runID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTimesheetSlice(rows), nil
}

// FindTimesheetsInPeriod retrieves the timesheets starting within the period.
func (r *PgxTimesheetRepository) FindTimesheetsInPeriod(ctx context.Context, period domain.Period) ([]domain.Timesheet, error) {
	rows, err := r.query(ctx, "in period",
		timesheetSelect+` WHERE start_at >= $1 AND start_at <= $2 ORDER BY start_at, timesheet_id;`,
		period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTimesheetSlice(rows), nil
}

// FindTimesheetsWithoutSnapshot retrieves the timesheets in the period that carry no rate snapshot.
func (r *PgxTimesheetRepository) FindTimesheetsWithoutSnapshot(ctx context.Context, period domain.Period) ([]domain.Timesheet, error) {
	rows, err := r.query(ctx, "without snapshot",
		timesheetSelect+` WHERE start_at >= $1 AND start_at <= $2 AND snapshot_kind IS NULL ORDER BY start_at, timesheet_id;`,
		period.Start, period.End)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTimesheetSlice(rows), nil
}

// FindTimesheetsByJobID retrieves the timesheets logged against a job.
func (r *PgxTimesheetRepository) FindTimesheetsByJobID(ctx context.Context, jobID string) ([]domain.Timesheet, error) {
	rows, err := r.query(ctx, "for job "+jobID,
		timesheetSelect+` WHERE job_id = $1 ORDER BY start_at, timesheet_id;`, jobID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTimesheetSlice(rows), nil
}

// FindTimesheetsByIDs retrieves the timesheets that exist among the given IDs.
func (r *PgxTimesheetRepository) FindTimesheetsByIDs(ctx context.Context, timesheetIDs []string) (map[string]domain.Timesheet, error) {
	result := make(map[string]domain.Timesheet, len(timesheetIDs))
	if len(timesheetIDs) == 0 {
		return result, nil
	}
	rows, err := r.query(ctx, "by IDs", timesheetSelect+` WHERE timesheet_id = ANY($1);`, timesheetIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TimesheetID] = mapping.ToDomainTimesheet(row)
	}
	return result, nil
}

// ApproveTimesheet binds a timesheet to a run. An existing snapshot is never
// overwritten, and a timesheet already bound to another run is left alone and
// reported as ErrConflict.
func (r *PgxTimesheetRepository) ApproveTimesheet(ctx context.Context, approval domain.TimesheetApproval) error {
	kind, amount := mapping.ToModelRateSnapshot(approval.RateSnapshot)
	query := `
		UPDATE timesheets
		SET admin_approved = TRUE,
		    approved_in_run_id = $2,
		    snapshot_kind = COALESCE(snapshot_kind, $3),
		    snapshot_amount = CASE WHEN snapshot_kind IS NULL THEN $4 ELSE snapshot_amount END,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE timesheet_id = $1
		  AND (approved_in_run_id IS NULL OR approved_in_run_id = $2);
	`
	tag, err := r.Pool.Exec(ctx, query, approval.TimesheetID, approval.RunID, kind, amount, approval.ApprovedAt, approval.ApprovedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve timesheet "+approval.TimesheetID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, approval.TimesheetID, "is already approved into another run")
	}
	return nil
}

// SetRateSnapshot stores a snapshot and earnings on a timesheet without one.
func (r *PgxTimesheetRepository) SetRateSnapshot(ctx context.Context, timesheetID string, snapshot domain.RateSnapshot, earnings *decimal.Decimal) error {
	kind, amount := mapping.ToModelRateSnapshot(&snapshot)
	query := `
		UPDATE timesheets
		SET snapshot_kind = $2, snapshot_amount = $3, earnings = $4
		WHERE timesheet_id = $1 AND snapshot_kind IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, timesheetID, kind, amount, mapping.ToNullDecimal(earnings))
	if err != nil {
		return apperrors.NewAppError(500, "failed to set rate snapshot on timesheet "+timesheetID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, timesheetID, "already has a rate snapshot")
	}
	return nil
}

// missingOrConflict explains a guarded UPDATE that matched no row: either the
// timesheet is gone or another writer changed it first.
func (r *PgxTimesheetRepository) missingOrConflict(ctx context.Context, timesheetID, reason string) error {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM timesheets WHERE timesheet_id = $1);`, timesheetID).Scan(&exists); err != nil {
		return apperrors.NewAppError(500, "failed to check timesheet "+timesheetID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("timesheet " + timesheetID + " not found")
	}
	return fmt.Errorf("timesheet %s %s: %w", timesheetID, reason, apperrors.ErrConflict)
}

// UpdateTimesheetEarnings writes earnings and snapshots for several timesheets in one transaction.
func (r *PgxTimesheetRepository) UpdateTimesheetEarnings(ctx context.Context, updates []domain.TimesheetEarnings) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	query := `
		UPDATE timesheets
		SET earnings = $2, snapshot_kind = $3, snapshot_amount = $4
		WHERE timesheet_id = $1;
	`
	for _, u := range updates {
		kind, amount := mapping.ToModelRateSnapshot(u.RateSnapshot)
		batch.Queue(query, u.TimesheetID, mapping.ToNullDecimal(u.Earnings), kind, amount)
	}
	if err := r.sendBatch(ctx, tx, batch, "timesheet earnings"); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
