package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teampulsehq/teampulse-go/internal/application/services"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
)

// NotificationHandlers triggers reminder runs.
type NotificationHandlers struct {
	notifications *services.NotificationService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewNotificationHandlers creates notification handlers with injected dependencies
func NewNotificationHandlers(notifications *services.NotificationService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *NotificationHandlers {
	return &NotificationHandlers{
		notifications: notifications,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// PostReminders handles POST /api/v1/notifications/reminders - emails every
// member who has not submitted today's row.
func (h *NotificationHandlers) PostReminders(c *gin.Context) {
	marker := h.perfTracker.StartOperation("post_reminders_request")
	defer marker.Complete()

	report, err := h.notifications.SendReminders(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reminder run failed"})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, report)
}
