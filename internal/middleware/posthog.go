package middleware

import (
	"net/http"

	"github.com/SscSPs/fieldops_payroll/internal/utils"
	"github.com/gin-gonic/gin"
)

// payrollEvents names the analytics event for each tracked mutation, keyed by
// method and gin route pattern. Reads are not tracked. Job completion is
// reported by its handler, which knows how many timesheets were touched.
var payrollEvents = map[string]string{
	http.MethodPost + " /api/v1/payroll-runs":                    "payroll_run_created",
	http.MethodPost + " /api/v1/payroll-runs/:runID/recalculate": "payroll_run_recalculated",
	http.MethodPost + " /api/v1/payroll-runs/:runID/approve":     "timesheets_approved",
	http.MethodPost + " /api/v1/payroll/scan":                    "payroll_period_scanned",
	http.MethodPost + " /api/v1/payroll/generate":                "payroll_runs_generated",
	http.MethodPost + " /api/v1/payroll/backfill-snapshots":      "rate_snapshots_backfilled",
}

// PayrollEventName returns the event tracked for a request to route, if any.
func PayrollEventName(method, route string) (string, bool) {
	name, ok := payrollEvents[method+" "+route]
	return name, ok
}

// PosthogMiddleware reports successful payroll mutations to PostHog under the
// acting user's ID. Path parameters such as runID become event properties.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if posthogClient == nil || !posthogClient.IsInitialized() {
			return
		}
		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		eventName, ok := PayrollEventName(c.Request.Method, c.FullPath())
		if !ok {
			return
		}
		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		props := map[string]any{"status_code": c.Writer.Status()}
		for _, param := range c.Params {
			props[paramProperty(param.Key)] = param.Value
		}
		posthogClient.Enqueue(userID, eventName, props)
	}
}

// PosthogEvent sends a handler-specific event for the acting user.
func PosthogEvent(c *gin.Context, posthogClient *utils.PosthogClientWrapper, eventName string, properties map[string]any) {
	if posthogClient == nil || !posthogClient.IsInitialized() {
		return
	}
	userID, exists := GetUserIDFromContext(c)
	if !exists {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["route"] = c.FullPath()
	posthogClient.Enqueue(userID, eventName, properties)
}

// paramProperty maps a route parameter to its snake_case property name.
func paramProperty(key string) string {
	switch key {
	case "runID":
		return "run_id"
	case "jobID":
		return "job_id"
	}
	return key
}
