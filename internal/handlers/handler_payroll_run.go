package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fieldops_payroll/internal/core/ports/services"
	"github.com/SscSPs/fieldops_payroll/internal/dto"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
	"github.com/gin-gonic/gin"
)

// payrollRunHandler handles HTTP requests related to payroll runs.
type payrollRunHandler struct {
	payrollRunService portssvc.PayrollRunSvcFacade
}

func newPayrollRunHandler(svc portssvc.PayrollRunSvcFacade) *payrollRunHandler {
	return &payrollRunHandler{payrollRunService: svc}
}

// registerPayrollRunRoutes registers run routes and the period-level payroll operations.
func registerPayrollRunRoutes(rg *gin.RouterGroup, svc portssvc.PayrollRunSvcFacade) {
	h := newPayrollRunHandler(svc)

	runs := rg.Group("/payroll-runs")
	{
		runs.POST("", h.createRun)
		runs.GET("", h.listRuns)
		runs.GET("/:runID", h.getRun)
		runs.GET("/:runID/summaries", h.listSummaries)
		runs.POST("/:runID/recalculate", h.recalcRun)
		runs.POST("/:runID/approve", h.approveTimesheets)
	}

	payroll := rg.Group("/payroll")
	{
		payroll.POST("/scan", h.scanPeriod)
		payroll.POST("/generate", h.generateRuns)
		payroll.POST("/backfill-snapshots", h.backfillSnapshots)
	}
}

// createRun godoc
// @Summary Create a payroll run
// @Description Creates an empty draft run for a period, optionally bound to one employee
// @Tags payroll-runs
// @Accept  json
// @Produce  json
// @Param   run body dto.CreatePayrollRunRequest true "Run period"
// @Success 201 {object} dto.PayrollRunResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create payroll run"
// @Security BearerAuth
// @Router /payroll-runs [post]
func (h *payrollRunHandler) createRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePayrollRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRun", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	run, err := h.payrollRunService.CreateRun(c.Request.Context(), req.ToPeriod(), req.EmployeeID, actorID)
	if err != nil {
		respondWithError(c, err, "Failed to create payroll run")
		return
	}

	logger.Info("Payroll run created", slog.String("run_id", run.RunID))
	c.JSON(http.StatusCreated, dto.ToPayrollRunResponse(run))
}

// listRuns godoc
// @Summary List payroll runs
// @Description Lists runs newest period first using token-based pagination
// @Tags payroll-runs
// @Produce  json
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListPayrollRunsResponse
// @Failure 400 {object} map[string]string "Invalid query or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list payroll runs"
// @Security BearerAuth
// @Router /payroll-runs [get]
func (h *payrollRunHandler) listRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPayrollRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListRuns", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	runs, next, err := h.payrollRunService.ListRuns(c.Request.Context(), params.Limit, params.NextToken)
	if err != nil {
		respondWithError(c, err, "Failed to list payroll runs")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPayrollRunsResponse(runs, next))
}

// getRun godoc
// @Summary Get a payroll run
// @Tags payroll-runs
// @Produce  json
// @Param   runID path string true "Run ID"
// @Success 200 {object} dto.PayrollRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payroll run"
// @Security BearerAuth
// @Router /payroll-runs/{runID} [get]
func (h *payrollRunHandler) getRun(c *gin.Context) {
	run, err := h.payrollRunService.GetRun(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve payroll run")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollRunResponse(run))
}

// listSummaries godoc
// @Summary List the per-account summaries of a run
// @Tags payroll-runs
// @Produce  json
// @Param   runID path string true "Run ID"
// @Success 200 {array} dto.RunSummaryResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to list run summaries"
// @Security BearerAuth
// @Router /payroll-runs/{runID}/summaries [get]
func (h *payrollRunHandler) listSummaries(c *gin.Context) {
	summaries, err := h.payrollRunService.ListRunSummaries(c.Request.Context(), c.Param("runID"))
	if err != nil {
		respondWithError(c, err, "Failed to list run summaries")
		return
	}
	c.JSON(http.StatusOK, dto.ToRunSummaryResponses(summaries))
}

// recalcRun godoc
// @Summary Recalculate a payroll run
// @Description Re-aggregates the run's timesheets and persists totals and summaries
// @Tags payroll-runs
// @Produce  json
// @Param   runID path string true "Run ID"
// @Success 200 {object} dto.RecalcRunResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to recalculate payroll run"
// @Security BearerAuth
// @Router /payroll-runs/{runID}/recalculate [post]
func (h *payrollRunHandler) recalcRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	runID := c.Param("runID")

	agg, err := h.payrollRunService.RecalcRun(c.Request.Context(), runID, actorID)
	if err != nil {
		respondWithError(c, err, "Failed to recalculate payroll run")
		return
	}

	logger.Info("Payroll run recalculated", slog.String("run_id", runID), slog.Int("missing_rates", len(agg.MissingRates)))
	c.JSON(http.StatusOK, dto.ToRecalcRunResponse(agg))
}

// approveTimesheets godoc
// @Summary Approve timesheets into a run
// @Description Binds timesheets to the run, snapshots their rate and recalculates the run
// @Tags payroll-runs
// @Accept  json
// @Produce  json
// @Param   runID path string true "Run ID"
// @Param   request body dto.ApproveTimesheetsRequest true "Timesheets to approve"
// @Success 200 {object} dto.BulkResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Failed to approve timesheets"
// @Security BearerAuth
// @Router /payroll-runs/{runID}/approve [post]
func (h *payrollRunHandler) approveTimesheets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApproveTimesheetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApproveTimesheets", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.payrollRunService.ApproveRecordsIntoRun(c.Request.Context(), c.Param("runID"), req.TimesheetIDs, actorID)
	if err != nil && result == nil {
		respondWithError(c, err, "Failed to approve timesheets")
		return
	}
	if err != nil {
		// The approvals landed; only the follow-up recalculation failed.
		logger.Error("Recalculation after approval failed", slog.String("error", err.Error()))
	}
	c.JSON(http.StatusOK, dto.ToBulkResultResponse(result))
}

// scanPeriod godoc
// @Summary Preview the payroll of a period
// @Description Aggregates the period's timesheets without writing anything
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   period body dto.PeriodRequest true "Period"
// @Success 200 {object} dto.PeriodScanResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to scan period"
// @Security BearerAuth
// @Router /payroll/scan [post]
func (h *payrollRunHandler) scanPeriod(c *gin.Context) {
	var req dto.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for ScanPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	scan, err := h.payrollRunService.ScanPeriod(c.Request.Context(), req.ToPeriod())
	if err != nil {
		respondWithError(c, err, "Failed to scan period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodScanResponse(scan))
}

// generateRuns godoc
// @Summary Generate runs for a period
// @Description Creates one run per employee with unassigned earnings in the period
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   period body dto.PeriodRequest true "Period"
// @Success 200 {object} dto.BulkResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate payroll runs"
// @Security BearerAuth
// @Router /payroll/generate [post]
func (h *payrollRunHandler) generateRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GenerateRuns", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.payrollRunService.GenerateRuns(c.Request.Context(), req.ToPeriod(), actorID)
	if err != nil {
		respondWithError(c, err, "Failed to generate payroll runs")
		return
	}
	logger.Info("Payroll runs generated", slog.Int("updated", result.Updated), slog.Int("errors", result.Errors))
	c.JSON(http.StatusOK, dto.ToBulkResultResponse(result))
}

// backfillSnapshots godoc
// @Summary Backfill rate snapshots
// @Description Writes a rate snapshot onto every timesheet of the period that has none
// @Tags payroll
// @Accept  json
// @Produce  json
// @Param   period body dto.PeriodRequest true "Period"
// @Success 200 {object} dto.BulkResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to backfill rate snapshots"
// @Security BearerAuth
// @Router /payroll/backfill-snapshots [post]
func (h *payrollRunHandler) backfillSnapshots(c *gin.Context) {
	var req dto.PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for BackfillSnapshots", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if _, ok := actorFromContext(c); !ok {
		return
	}

	result, err := h.payrollRunService.BackfillRateSnapshots(c.Request.Context(), req.ToPeriod())
	if err != nil {
		respondWithError(c, err, "Failed to backfill rate snapshots")
		return
	}
	c.JSON(http.StatusOK, dto.ToBulkResultResponse(result))
}
