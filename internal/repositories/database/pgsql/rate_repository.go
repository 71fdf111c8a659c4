package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/models"
	"github.com/SscSPs/fieldops_payroll/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for employee rate history.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

const rateColumns = `rate_id, employee_id, effective_date, kind, amount, created_at`

func (r *PgxRateRepository) findOne(ctx context.Context, query string, args ...any) (*domain.EmployeeRate, error) {
	var m models.EmployeeRate
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&m.RateID,
		&m.EmployeeID,
		&m.EffectiveDate,
		&m.Kind,
		&m.Amount,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query employee rate", err)
	}
	rate := mapping.ToDomainEmployeeRate(m)
	return &rate, nil
}

// FindEffectiveRate returns the dated rate in force at the given instant.
func (r *PgxRateRepository) FindEffectiveRate(ctx context.Context, employeeID string, at time.Time) (*domain.EmployeeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM employee_rates
		WHERE employee_id = $1 AND effective_date IS NOT NULL AND effective_date <= $2
		ORDER BY effective_date DESC, created_at DESC
		LIMIT 1;
	`
	return r.findOne(ctx, query, employeeID, at)
}

// FindLegacyRate returns the newest undated rate created on or before the instant.
func (r *PgxRateRepository) FindLegacyRate(ctx context.Context, employeeID string, at time.Time) (*domain.EmployeeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM employee_rates
		WHERE employee_id = $1 AND effective_date IS NULL AND created_at <= $2
		ORDER BY created_at DESC
		LIMIT 1;
	`
	return r.findOne(ctx, query, employeeID, at)
}

// SaveRate inserts a new rate row.
func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.EmployeeRate) error {
	m := mapping.ToModelEmployeeRate(rate)
	query := `
		INSERT INTO employee_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.RateID, m.EmployeeID, m.EffectiveDate, m.Kind, m.Amount, m.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert rate "+m.RateID, err)
	}
	return nil
}
