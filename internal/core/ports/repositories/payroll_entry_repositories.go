package repositories

import (
	"context"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// PayrollEntryReader defines read operations for payroll entries
type PayrollEntryReader interface {
	FindEntriesByJobID(ctx context.Context, jobID string) ([]domain.PayrollEntry, error)
}

// PayrollEntryWriter defines write operations for payroll entries
type PayrollEntryWriter interface {
	// ReplaceJobEntries removes the job's existing entries, inserts the new ones
	// and marks the job payroll-processed, all in one transaction.
	ReplaceJobEntries(ctx context.Context, jobID string, entries []domain.PayrollEntry) error
}

// PayrollEntryRepositoryFacade combines all payroll entry repository interfaces
type PayrollEntryRepositoryFacade interface {
	PayrollEntryReader
	PayrollEntryWriter
}
