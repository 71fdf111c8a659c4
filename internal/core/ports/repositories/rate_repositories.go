package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// RateReader defines read operations for employee pay rates.
type RateReader interface {
	// FindEffectiveRate returns the rate with the latest effective date on or
	// before at. Returns apperrors.ErrNotFound when the employee has none.
	FindEffectiveRate(ctx context.Context, employeeID string, at time.Time) (*domain.EmployeeRate, error)

	// FindLegacyRate returns the latest rate without an effective date that was
	// created on or before at. Returns apperrors.ErrNotFound when there is none.
	FindLegacyRate(ctx context.Context, employeeID string, at time.Time) (*domain.EmployeeRate, error)
}

// RateWriter defines write operations for employee pay rates.
// Rates are immutable, a change is a new row.
type RateWriter interface {
	SaveRate(ctx context.Context, rate domain.EmployeeRate) error
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
