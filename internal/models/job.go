package models

import "time"

// Job is a row of the jobs table.
type Job struct {
	JobID               string
	AssignedEmployeeIDs []string
	Status              string
	CanonicalStatus     *string
	ScheduledAt         *time.Time
	ApprovedAt          *time.Time
	ApprovedBy          *string
	PayrollProcessed    bool
	AuditFields
}

// Photo is a row of the job_photos table.
type Photo struct {
	PhotoID string
	JobID   string
	Visible bool
	Note    *string
}
