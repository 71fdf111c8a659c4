package domain

import (
	"strings"
	"time"
)

// JobStatus is the canonical status of a service job.
type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobCompleted  JobStatus = "completed"
	JobCancelled  JobStatus = "cancelled"
)

// Job is a scheduled service record.
type Job struct {
	JobID               string     `json:"jobID"`
	AssignedEmployeeIDs []string   `json:"assignedEmployeeIDs"`
	Status              string     `json:"status"` // Legacy free-form status
	CanonicalStatus     JobStatus  `json:"canonicalStatus,omitempty"`
	ScheduledAt         time.Time  `json:"scheduledAt"`
	ApprovedAt          *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy          *string    `json:"approvedBy,omitempty"`
	PayrollProcessed    bool       `json:"payrollProcessed"`
	AuditFields
}

// IsCompleted checks both the canonical and the legacy status.
func (j Job) IsCompleted() bool {
	if j.CanonicalStatus == JobCompleted {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(j.Status)) {
	case "completed", "complete", "done":
		return true
	}
	return false
}

// RateInstant is the point in time used to check assigned employees' rates.
func (j Job) RateInstant(now time.Time) time.Time {
	if j.ScheduledAt.IsZero() {
		return now
	}
	return j.ScheduledAt
}

// Photo is an attachment of a job shown to clients when Visible.
type Photo struct {
	PhotoID string `json:"photoID"`
	JobID   string `json:"jobID"`
	Visible bool   `json:"visible"`
	Note    string `json:"note"`
}

// PhotoChange is a requested edit of a photo's visibility and note.
type PhotoChange struct {
	PhotoID string  `json:"photoID"`
	Visible *bool   `json:"visible,omitempty"`
	Note    *string `json:"note,omitempty"`
}

// JobStatusState is the status/approval portion of a job, captured before a
// commit so it can be restored.
type JobStatusState struct {
	Status          string
	CanonicalStatus JobStatus
	ApprovedAt      *time.Time
	ApprovedBy      *string
}

// StatusState returns the job's current status/approval fields.
func (j Job) StatusState() JobStatusState {
	return JobStatusState{
		Status:          j.Status,
		CanonicalStatus: j.CanonicalStatus,
		ApprovedAt:      j.ApprovedAt,
		ApprovedBy:      j.ApprovedBy,
	}
}

// CompletionCommit is the atomic write set of a job completion.
type CompletionCommit struct {
	JobID  string
	State  JobStatusState
	Photos []Photo
	At     time.Time
	By     string
}

// CompletionRequest asks for a job to be marked completed.
type CompletionRequest struct {
	JobID        string
	ActorID      string
	PhotoChanges []PhotoChange
}

// CompletionResult describes a successful completion.
type CompletionResult struct {
	Job                 Job      `json:"job"`
	UpdatedTimesheetIDs []string `json:"updatedTimesheetIDs"`
	UpdatedPhotoIDs     []string `json:"updatedPhotoIDs"`
}
