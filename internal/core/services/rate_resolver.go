package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
)

type rateCacheKey struct {
	employeeID string
	at         int64 // unix seconds
}

// RateResolver finds the pay rate in effect for an employee at an instant.
// Results are cached for the lifetime of the resolver, so create one per
// aggregation pass and drop it afterwards.
type RateResolver struct {
	rateRepo portsrepo.RateReader

	mu    sync.Mutex
	cache map[rateCacheKey]domain.ResolvedRate
}

// NewRateResolver creates a resolver with an empty cache.
func NewRateResolver(rateRepo portsrepo.RateReader) *RateResolver {
	return &RateResolver{
		rateRepo: rateRepo,
		cache:    make(map[rateCacheKey]domain.ResolvedRate),
	}
}

// Resolve returns the rate with the latest effective date on or before at,
// falling back to legacy undated rates ordered by creation time. When neither
// exists the returned rate reports Missing(); that is not an error.
func (r *RateResolver) Resolve(ctx context.Context, employeeID string, at time.Time) (domain.ResolvedRate, error) {
	if employeeID == "" {
		return domain.ResolvedRate{}, nil
	}

	// Truncate before lookup too, so the cached value is the one any instant
	// inside the same second would get.
	at = at.Truncate(time.Second)
	key := rateCacheKey{employeeID: employeeID, at: at.Unix()}

	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	resolved, err := r.lookup(ctx, employeeID, at)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to resolve employee rate",
			slog.String("employee_id", employeeID),
			slog.Time("at", at),
			slog.String("error", err.Error()))
		return domain.ResolvedRate{}, err
	}

	r.mu.Lock()
	r.cache[key] = resolved
	r.mu.Unlock()
	return resolved, nil
}

func (r *RateResolver) lookup(ctx context.Context, employeeID string, at time.Time) (domain.ResolvedRate, error) {
	rate, err := r.rateRepo.FindEffectiveRate(ctx, employeeID, at)
	if err == nil {
		return rate.ToResolvedRate(), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return domain.ResolvedRate{}, fmt.Errorf("failed to find effective rate for employee %s: %w", employeeID, err)
	}

	rate, err = r.rateRepo.FindLegacyRate(ctx, employeeID, at)
	if err == nil {
		return rate.ToResolvedRate(), nil
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.ResolvedRate{}, nil
	}
	return domain.ResolvedRate{}, fmt.Errorf("failed to find legacy rate for employee %s: %w", employeeID, err)
}
