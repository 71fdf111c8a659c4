package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	portsrepo "github.com/SscSPs/fieldops_payroll/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
)

const readinessLookupLimit = 8

// readinessService reports assigned employees that have no rate at the job's instant.
type readinessService struct {
	BaseService
	jobRepo  portsrepo.JobReader
	rateRepo portsrepo.RateReader
}

func NewReadinessService(jobRepo portsrepo.JobReader, rateRepo portsrepo.RateReader) portssvc.ReadinessValidator {
	return &readinessService{jobRepo: jobRepo, rateRepo: rateRepo}
}

var _ portssvc.ReadinessValidator = (*readinessService)(nil)

// ValidateJobPayrollReadiness looks up every assigned employee concurrently.
// The result keeps assignment order.
func (s *readinessService) ValidateJobPayrollReadiness(ctx context.Context, jobID string) ([]string, error) {
	job, err := s.jobRepo.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	employeeIDs := dedupe(job.AssignedEmployeeIDs)
	at := job.RateInstant(time.Now().UTC())
	resolver := NewRateResolver(s.rateRepo)
	missing := make([]bool, len(employeeIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readinessLookupLimit)
	for i, employeeID := range employeeIDs {
		g.Go(func() error {
			rate, err := resolver.Resolve(gctx, employeeID, at)
			if err != nil {
				return fmt.Errorf("failed to resolve rate for employee %s: %w", employeeID, err)
			}
			missing[i] = rate.Missing()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Payroll readiness check failed", slog.String("job_id", jobID))
		return nil, err
	}

	result := []string{}
	for i, employeeID := range employeeIDs {
		if missing[i] {
			result = append(result, employeeID)
		}
	}
	if len(result) > 0 {
		s.GetLogger(ctx).Warn("Job has employees without a pay rate",
			slog.String("job_id", jobID),
			slog.Any("employee_ids", result))
	}
	return result, nil
}
