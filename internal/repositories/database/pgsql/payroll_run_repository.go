package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/models"
	"github.com/SscSPs/fieldops_payroll/internal/utils/mapping"
	"github.com/SscSPs/fieldops_payroll/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPayrollRunRepository struct {
	BaseRepository
}

// newPgxPayrollRunRepository creates a new repository for payroll runs and their summaries.
func newPgxPayrollRunRepository(pool *pgxpool.Pool) portsrepo.PayrollRunRepositoryFacade {
	return &PgxPayrollRunRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRunRepositoryFacade = (*PgxPayrollRunRepository)(nil)

const runSelect = `
	SELECT run_id, employee_id, period_start, period_end, status,
	       total_hours, total_earnings, employee_totals,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM payroll_runs
`

func scanRun(row pgx.Row) (models.PayrollRun, error) {
	var m models.PayrollRun
	err := row.Scan(
		&m.RunID,
		&m.EmployeeID,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.Status,
		&m.TotalHours,
		&m.TotalEarnings,
		&m.EmployeeTotals,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPayrollRunRepository) queryRuns(ctx context.Context, what, query string, args ...any) ([]domain.PayrollRun, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payroll runs "+what, err)
	}
	defer rows.Close()

	runs := []domain.PayrollRun{}
	for rows.Next() {
		m, err := scanRun(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll run row "+what, err)
		}
		run, err := mapping.ToDomainPayrollRun(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode payroll run "+m.RunID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payroll run rows "+what, err)
	}
	return runs, nil
}

// SaveRun inserts a new payroll run.
func (r *PgxPayrollRunRepository) SaveRun(ctx context.Context, run domain.PayrollRun) error {
	m, err := mapping.ToModelPayrollRun(run)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode payroll run "+run.RunID, err)
	}
	query := `
		INSERT INTO payroll_runs (
			run_id, employee_id, period_start, period_end, status,
			total_hours, total_earnings, employee_totals,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RunID,
		m.EmployeeID,
		m.PeriodStart,
		m.PeriodEnd,
		m.Status,
		m.TotalHours,
		m.TotalEarnings,
		m.EmployeeTotals,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert payroll run "+m.RunID, err)
	}
	return nil
}

// FindRunByID retrieves a payroll run by its ID.
func (r *PgxPayrollRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.PayrollRun, error) {
	m, err := scanRun(r.Pool.QueryRow(ctx, runSelect+` WHERE run_id = $1;`, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payroll run " + runID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find payroll run by ID "+runID, err)
	}
	run, err := mapping.ToDomainPayrollRun(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode payroll run "+runID, err)
	}
	return &run, nil
}

// FindRunsByPeriod retrieves the runs covering exactly the given period.
func (r *PgxPayrollRunRepository) FindRunsByPeriod(ctx context.Context, period domain.Period) ([]domain.PayrollRun, error) {
	return r.queryRuns(ctx, "by period",
		runSelect+` WHERE period_start = $1 AND period_end = $2 ORDER BY created_at, run_id;`,
		period.Start, period.End)
}

// ListRuns retrieves a paginated list of runs using token-based pagination.
// It returns the runs, a token for the next page, and an error.
func (r *PgxPayrollRunRepository) ListRuns(ctx context.Context, limit int, nextToken *string) ([]domain.PayrollRun, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether there is a next page.
	fetchLimit := limit + 1

	orderByClause := `ORDER BY period_start DESC, run_id DESC`
	args := []any{}
	query := runSelect

	if nextToken != nil && *nextToken != "" {
		lastStart, lastRunID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` WHERE (period_start, run_id) < ($1, $2)`
		args = append(args, lastStart, lastRunID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	runs, err := r.queryRuns(ctx, "page", query, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(runs) > limit {
		last := runs[limit-1]
		token := pagination.EncodeToken(last.PeriodStart, last.RunID)
		nextTokenVal = &token
		runs = runs[:limit]
	}
	return runs, nextTokenVal, nil
}

// ListSummaryAccountIDs retrieves the account keys of a run's stored summaries.
func (r *PgxPayrollRunRepository) ListSummaryAccountIDs(ctx context.Context, runID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT account_id FROM payroll_run_summaries WHERE run_id = $1 ORDER BY account_id;`, runID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query summary keys for run "+runID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan summary keys for run "+runID, err)
	}
	return ids, nil
}

// ListSummaries retrieves a run's stored summaries.
func (r *PgxPayrollRunRepository) ListSummaries(ctx context.Context, runID string) ([]domain.RunSummary, error) {
	query := `
		SELECT run_id, account_id, period_start, period_end, hours_total, gross_pay,
		       rate_at_time, status, timesheet_refs
		FROM payroll_run_summaries
		WHERE run_id = $1
		ORDER BY account_id;
	`
	rows, err := r.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query summaries for run "+runID, err)
	}
	defer rows.Close()

	summaries := []domain.RunSummary{}
	for rows.Next() {
		var m models.RunSummary
		err := rows.Scan(
			&m.RunID,
			&m.AccountID,
			&m.PeriodStart,
			&m.PeriodEnd,
			&m.HoursTotal,
			&m.GrossPay,
			&m.RateAtTime,
			&m.Status,
			&m.TimesheetRefs,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan summary row for run "+runID, err)
		}
		summaries = append(summaries, mapping.ToDomainRunSummary(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating summary rows for run "+runID, err)
	}
	return summaries, nil
}

// ApplySummaryBatch stores the run totals, deletes stale summaries and upserts
// current ones in one transaction.
func (r *PgxPayrollRunRepository) ApplySummaryBatch(ctx context.Context, batch domain.SummaryBatch) error {
	if batch.Empty() {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if batch.Totals != nil {
		if err := r.updateRunTotals(ctx, tx, batch.RunID, *batch.Totals); err != nil {
			return err
		}
	}

	b := &pgx.Batch{}
	for _, accountID := range batch.Deletes {
		b.Queue(`DELETE FROM payroll_run_summaries WHERE run_id = $1 AND account_id = $2;`, batch.RunID, accountID)
	}
	upsert := `
		INSERT INTO payroll_run_summaries (
			run_id, account_id, period_start, period_end, hours_total, gross_pay,
			rate_at_time, status, timesheet_refs
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, account_id) DO UPDATE
		SET period_start = EXCLUDED.period_start,
		    period_end = EXCLUDED.period_end,
		    hours_total = EXCLUDED.hours_total,
		    gross_pay = EXCLUDED.gross_pay,
		    rate_at_time = EXCLUDED.rate_at_time,
		    status = EXCLUDED.status,
		    timesheet_refs = EXCLUDED.timesheet_refs;
	`
	for _, s := range batch.Upserts {
		m := mapping.ToModelRunSummary(batch.RunID, s)
		b.Queue(upsert,
			m.RunID,
			m.AccountID,
			m.PeriodStart,
			m.PeriodEnd,
			m.HoursTotal,
			m.GrossPay,
			m.RateAtTime,
			m.Status,
			m.TimesheetRefs,
		)
	}
	if err := r.sendBatch(ctx, tx, b, "summaries of run "+batch.RunID); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// updateRunTotals stores freshly computed totals on a run within tx.
func (r *PgxPayrollRunRepository) updateRunTotals(ctx context.Context, tx pgx.Tx, runID string, update domain.RunTotalsUpdate) error {
	employeeTotals, err := mapping.MarshalEmployeeTotals(update.Totals.Employees)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode totals for run "+runID, err)
	}
	query := `
		UPDATE payroll_runs
		SET total_hours = $2, total_earnings = $3, employee_totals = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE run_id = $1;
	`
	tag, err := tx.Exec(ctx, query, runID, update.Totals.TotalHours, update.Totals.TotalEarnings, employeeTotals, update.UpdatedAt, update.UpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update totals for run "+runID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payroll run " + runID + " not found")
	}
	return nil
}
