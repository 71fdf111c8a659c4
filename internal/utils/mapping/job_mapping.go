package mapping

import (
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
	"github.com/SscSPs/fieldops_payroll/internal/models"
)

// ToDomainJob converts a job row to a domain Job
func ToDomainJob(m models.Job) domain.Job {
	var scheduledAt time.Time
	if m.ScheduledAt != nil {
		scheduledAt = *m.ScheduledAt
	}
	assigned := m.AssignedEmployeeIDs
	if assigned == nil {
		assigned = []string{}
	}
	return domain.Job{
		JobID:               m.JobID,
		AssignedEmployeeIDs: assigned,
		Status:              m.Status,
		CanonicalStatus:     domain.JobStatus(stringOrEmpty(m.CanonicalStatus)),
		ScheduledAt:         scheduledAt,
		ApprovedAt:          m.ApprovedAt,
		ApprovedBy:          m.ApprovedBy,
		PayrollProcessed:    m.PayrollProcessed,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPhoto converts a photo row to a domain Photo
func ToDomainPhoto(m models.Photo) domain.Photo {
	return domain.Photo{
		PhotoID: m.PhotoID,
		JobID:   m.JobID,
		Visible: m.Visible,
		Note:    stringOrEmpty(m.Note),
	}
}

// ToModelPhoto converts a domain Photo to a photo row. An empty note is stored as NULL.
func ToModelPhoto(d domain.Photo) models.Photo {
	return models.Photo{
		PhotoID: d.PhotoID,
		JobID:   d.JobID,
		Visible: d.Visible,
		Note:    nilIfEmpty(d.Note),
	}
}
