package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teampulsehq/teampulse-go/internal/domain/audit"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
)

// AuditHandlers serves the audit trail.
type AuditHandlers struct {
	repo        audit.Repository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuditHandlers creates audit handlers with injected dependencies
func NewAuditHandlers(repo audit.Repository, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuditHandlers {
	return &AuditHandlers{
		repo:        repo,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetAudit handles GET /api/v1/audit?limit=&offset=&sheet=
func (h *AuditHandlers) GetAudit(c *gin.Context) {
	marker := h.perfTracker.StartOperation("get_audit_request")
	defer marker.Complete()

	limit := queryInt(c, "limit", 100)
	if limit > 500 {
		limit = 500
	}
	offset := queryInt(c, "offset", 0)

	var entries []*audit.Entry
	var err error
	if sheet := c.Query("sheet"); sheet != "" {
		entries, err = h.repo.ListBySheet(sheet, limit)
	} else {
		entries, err = h.repo.List(limit, offset)
	}
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
