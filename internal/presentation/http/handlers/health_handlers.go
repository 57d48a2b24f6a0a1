package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/manager"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/database"
)

// HealthHandlers serves liveness and operational health.
type HealthHandlers struct {
	db          *database.DB
	cache       *manager.Manager
	perfTracker *performance.Tracker
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db *database.DB, cache *manager.Manager, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		db:          db,
		cache:       cache,
		perfTracker: perfTracker,
	}
}

// GetHealth handles GET /api/v1/health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	perf := h.perfTracker.Snapshot()

	dbHealthy := h.db.Ping() == nil

	var snapshotAge string
	if refreshed, ok := h.cache.LastRefreshed(); ok {
		snapshotAge = time.Since(refreshed).Round(time.Second).String()
	}

	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":      perf.OverallHealth,
		"database":    dbHealthy,
		"snapshotAge": snapshotAge,
		"operations":  perf.CompletedOperations,
		"timestamp":   time.Now().UTC(),
	})
}
