package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulsehq/teampulse-go/internal/application/services"
	"github.com/teampulsehq/teampulse-go/internal/domain/schedule"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
	"github.com/teampulsehq/teampulse-go/internal/presentation/http/middleware"
)

// MetricsHandlers contains the read and write handlers for metrics.
type MetricsHandlers struct {
	teamMetrics *services.TeamMetricsService
	userMetrics *services.UserMetricsService
	submissions *services.SubmissionService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewMetricsHandlers creates metrics handlers with injected dependencies
func NewMetricsHandlers(
	teamMetrics *services.TeamMetricsService,
	userMetrics *services.UserMetricsService,
	submissions *services.SubmissionService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *MetricsHandlers {
	return &MetricsHandlers{
		teamMetrics: teamMetrics,
		userMetrics: userMetrics,
		submissions: submissions,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetTeamMetrics handles GET /api/v1/metrics/all?refresh=true
func (h *MetricsHandlers) GetTeamMetrics(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_team_metrics_request")
	defer marker.Complete()

	forceRefresh := c.Query("refresh") == "true"

	result, err := h.teamMetrics.GetTeamMetrics(c.Request.Context(), forceRefresh)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, services.ErrRefreshTimeout) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream refresh timed out"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load team metrics"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetTeamMetrics request",
		"duration", time.Since(start), "cached", result.Cached, "stale", result.Stale)

	c.JSON(http.StatusOK, gin.H{
		"allMetrics":     result.Snapshot.AllRecords(),
		"aggregatedKPIs": result.Snapshot.AggregatedKPIs,
		"individualKPIs": result.Snapshot.IndividualKPIs,
		"userMetrics":    result.Snapshot.UserMetrics,
		"teamMembers":    result.Snapshot.TeamMembers,
		"totalMetrics":   result.Snapshot.TotalMetrics,
		"cached":         result.Cached,
		"stale":          result.Stale,
		"lastRefreshed":  result.LastRefreshed,
	})
}

// GetUserMetrics handles GET /api/v1/metrics/user
func (h *MetricsHandlers) GetUserMetrics(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_user_metrics_request")
	defer marker.Complete()

	u, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	result, err := h.userMetrics.GetUserMetrics(c.Request.Context(), u)
	if err != nil {
		marker.SetError(err)
		if sheets.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no sheet found for this user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load metrics"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"sheetName": result.SheetName,
		"metrics":   result.Metrics,
		"kpis":      result.KPIs,
	})
}

// PostSubmit handles POST /api/v1/metrics/submit
func (h *MetricsHandlers) PostSubmit(c *gin.Context) {
	h.handleWrite(c, "post_submit_request", h.submissions.Submit)
}

// PutUpdate handles PUT /api/v1/metrics/update
func (h *MetricsHandlers) PutUpdate(c *gin.Context) {
	h.handleWrite(c, "put_update_request", h.submissions.Update)
}

type writeFunc func(ctx context.Context, u *user.User, input services.SubmissionInput) (*services.SubmissionResult, error)

func (h *MetricsHandlers) handleWrite(c *gin.Context, operation string, write writeFunc) {
	marker := h.perfTracker.StartOperation(operation)
	defer marker.Complete()

	u, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input services.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := write(c.Request.Context(), u, input)
	if err != nil {
		marker.SetError(err)
		h.writeError(c, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"action":    result.Action,
		"sheetName": result.SheetName,
		"record":    result.Record,
	})
}

// writeError maps submission failures onto HTTP statuses with their
// machine-readable reasons intact.
func (h *MetricsHandlers) writeError(c *gin.Context, err error) {
	var validationErr *schedule.ValidationError
	var deniedErr *services.DeniedError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Message,
			"code":  validationErr.Code,
		})
	case errors.As(err, &deniedErr):
		c.JSON(http.StatusForbidden, gin.H{"error": deniedErr.Reason})
	case sheets.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "no sheet found for this user"})
	case errors.Is(err, services.ErrRowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no row found for that date"})
	default:
		h.logger.Metrics().Error("Metrics write failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
	}
}
