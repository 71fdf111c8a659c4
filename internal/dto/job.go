package dto

import (
	"time"

	"github.com/SscSPs/fieldops_payroll/internal/core/domain"
)

// PhotoChangeRequest edits a job photo while completing the job.
type PhotoChangeRequest struct {
	PhotoID string  `json:"photoID" binding:"required,entity_id"`
	Visible *bool   `json:"visible,omitempty"`
	Note    *string `json:"note,omitempty" binding:"omitempty,max=2000"`
}

// CompleteJobRequest defines the optional photo edits applied with a completion.
type CompleteJobRequest struct {
	PhotoChanges []PhotoChangeRequest `json:"photoChanges" binding:"omitempty,max=200,dive"`
}

// ToCompletionRequest converts the request into a domain.CompletionRequest.
func (r CompleteJobRequest) ToCompletionRequest(jobID, actorID string) domain.CompletionRequest {
	changes := make([]domain.PhotoChange, len(r.PhotoChanges))
	for i, pc := range r.PhotoChanges {
		changes[i] = domain.PhotoChange{PhotoID: pc.PhotoID, Visible: pc.Visible, Note: pc.Note}
	}
	return domain.CompletionRequest{JobID: jobID, ActorID: actorID, PhotoChanges: changes}
}

// JobResponse defines the data returned for a job.
type JobResponse struct {
	JobID               string     `json:"jobID"`
	AssignedEmployeeIDs []string   `json:"assignedEmployeeIDs"`
	Status              string     `json:"status"`
	CanonicalStatus     string     `json:"canonicalStatus,omitempty"`
	ScheduledAt         time.Time  `json:"scheduledAt"`
	ApprovedAt          *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy          *string    `json:"approvedBy,omitempty"`
	PayrollProcessed    bool       `json:"payrollProcessed"`
}

// CompleteJobResponse is returned after a successful completion.
type CompleteJobResponse struct {
	Job                 JobResponse `json:"job"`
	UpdatedTimesheetIDs []string    `json:"updatedTimesheetIDs"`
	UpdatedPhotoIDs     []string    `json:"updatedPhotoIDs"`
}

// ToCompleteJobResponse converts a domain.CompletionResult to CompleteJobResponse DTO.
func ToCompleteJobResponse(r *domain.CompletionResult) CompleteJobResponse {
	return CompleteJobResponse{
		Job: JobResponse{
			JobID:               r.Job.JobID,
			AssignedEmployeeIDs: r.Job.AssignedEmployeeIDs,
			Status:              r.Job.Status,
			CanonicalStatus:     string(r.Job.CanonicalStatus),
			ScheduledAt:         r.Job.ScheduledAt,
			ApprovedAt:          r.Job.ApprovedAt,
			ApprovedBy:          r.Job.ApprovedBy,
			PayrollProcessed:    r.Job.PayrollProcessed,
		},
		UpdatedTimesheetIDs: nonNil(r.UpdatedTimesheetIDs),
		UpdatedPhotoIDs:     nonNil(r.UpdatedPhotoIDs),
	}
}

// PayrollNotReadyResponse lists the employees blocking a job completion.
type PayrollNotReadyResponse struct {
	Error     string   `json:"error"`
	JobID     string   `json:"jobID"`
	Employees []string `json:"employees"`
}

// PartialFailureResponse reports a completed job whose payroll follow-up failed.
type PartialFailureResponse struct {
	Error string `json:"error"`
	JobID string `json:"jobID"`
	Step  string `json:"step"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
