package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
	"github.com/SscSPs/fieldops_payroll/internal/dto"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
	"github.com/SscSPs/fieldops_payroll/internal/utils"
	"github.com/gin-gonic/gin"
)

// jobHandler handles HTTP requests related to job completion.
type jobHandler struct {
	completionService portssvc.JobCompletionSvc
	displayNames      portssvc.DisplayNameResolver
	posthogClient     *utils.PosthogClientWrapper
}

func newJobHandler(completion portssvc.JobCompletionSvc, names portssvc.DisplayNameResolver, posthogClient *utils.PosthogClientWrapper) *jobHandler {
	return &jobHandler{completionService: completion, displayNames: names, posthogClient: posthogClient}
}

func registerJobRoutes(rg *gin.RouterGroup, completion portssvc.JobCompletionSvc, names portssvc.DisplayNameResolver, posthogClient *utils.PosthogClientWrapper) {
	h := newJobHandler(completion, names, posthogClient)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("/:jobID/complete", h.completeJob)
	}
}

// completeJob godoc
// @Summary Complete a job
// @Description Marks a job completed, applies photo edits, refreshes timesheet earnings and creates payroll entries
// @Tags jobs
// @Accept  json
// @Produce  json
// @Param   jobID path string true "Job ID"
// @Param   request body dto.CompleteJobRequest false "Photo edits"
// @Success 200 {object} dto.CompleteJobResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Job already completed"
// @Failure 422 {object} dto.PayrollNotReadyResponse "Assigned employees without a pay rate"
// @Failure 502 {object} dto.PartialFailureResponse "Job completed but payroll follow-up failed"
// @Failure 500 {object} map[string]string "Failed to complete job"
// @Security BearerAuth
// @Router /jobs/{jobID}/complete [post]
func (h *jobHandler) completeJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteJobRequest
	// The body is optional; an empty one means no photo edits.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for CompleteJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	jobID := c.Param("jobID")
	logger = logger.With(slog.String("job_id", jobID))

	result, err := h.completionService.CompleteJob(c.Request.Context(), req.ToCompletionRequest(jobID, actorID))
	if err != nil {
		var notReady *apperrors.PayrollNotReadyError
		if errors.As(err, &notReady) {
			h.respondNotReady(c, notReady)
			return
		}
		respondWithError(c, err, "Failed to complete job")
		return
	}

	logger.Info("Job completed", slog.Int("timesheets_updated", len(result.UpdatedTimesheetIDs)))
	middleware.PosthogEvent(c, h.posthogClient, "job_completed", map[string]any{
		"job_id":             jobID,
		"timesheets_updated": len(result.UpdatedTimesheetIDs),
	})
	c.JSON(http.StatusOK, dto.ToCompleteJobResponse(result))
}

func (h *jobHandler) respondNotReady(c *gin.Context, notReady *apperrors.PayrollNotReadyError) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	names, err := h.displayNames.ResolveDisplayNames(c.Request.Context(), notReady.EmployeeIDs)
	if err != nil {
		logger.Warn("Failed to resolve employee display names", slog.String("error", err.Error()))
		names = notReady.EmployeeIDs
	}
	logger.Warn("Job not ready for payroll", slog.Any("employee_ids", notReady.EmployeeIDs))
	c.JSON(http.StatusUnprocessableEntity, dto.PayrollNotReadyResponse{
		Error:     "Cannot complete job: some assigned employees have no pay rate",
		JobID:     notReady.JobID,
		Employees: names,
	})
}
