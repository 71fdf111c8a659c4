package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fieldops_payroll/internal/apperrors"
	"github.com/SscSPs/fieldops_payroll/internal/dto"
	"github.com/SscSPs/fieldops_payroll/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithError maps a service error to an HTTP status and body. fallback
// is shown for failures whose details must not leak.
func respondWithError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var partial *apperrors.PartialFailureError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &partial):
		logger.Error("Payroll follow-up failed after commit", slog.String("job_id", partial.JobID), slog.String("step", partial.Step), slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, dto.PartialFailureResponse{Error: apperrors.PartialFailureMessage, JobID: partial.JobID, Step: partial.Step})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Permission denied", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &appErr) && appErr.Code == http.StatusBadRequest:
		logger.Warn("Bad request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Message})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// actorFromContext returns the authenticated user or writes a 401.
func actorFromContext(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
