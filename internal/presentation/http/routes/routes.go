// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/teampulsehq/teampulse-go/internal/application/container"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/presentation/http/handlers"
	"github.com/teampulsehq/teampulse-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(c.AuthService, c.Logger, c.PerfTracker)
	metricsHandlers := handlers.NewMetricsHandlers(c.TeamMetricsService, c.UserMetricsService, c.SubmissionService, c.Logger, c.PerfTracker)
	auditHandlers := handlers.NewAuditHandlers(c.AuditRepo, c.Logger, c.PerfTracker)
	notificationHandlers := handlers.NewNotificationHandlers(c.NotificationService, c.Logger, c.PerfTracker)
	streamHandlers := handlers.NewStreamHandlers(c.Broadcaster, c.Logger)
	healthHandlers := handlers.NewHealthHandlers(c.DB, c.CacheManager, c.PerfTracker)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.GET("/status",
				middleware.AuthMiddleware(c.AuthService, c.Logger),
				authHandlers.GetAuthStatus)
			auth.POST("/refresh",
				middleware.AuthMiddleware(c.AuthService, c.Logger),
				authHandlers.PostRefresh)
		}

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(c.AuthService, c.Logger))
		{
			metrics := authed.Group("/metrics")
			{
				metrics.GET("/user", metricsHandlers.GetUserMetrics)
				metrics.GET("/all", metricsHandlers.GetTeamMetrics)
				metrics.POST("/submit", metricsHandlers.PostSubmit)
				metrics.PUT("/update", metricsHandlers.PutUpdate)
				metrics.GET("/stream", streamHandlers.GetMetricsStream)
			}

			authed.POST("/notifications/reminders",
				middleware.RequireRole(user.RoleTeamLead, user.RoleProjectManager),
				notificationHandlers.PostReminders)

			authed.GET("/audit",
				middleware.RequireRole(user.RoleProjectManager),
				auditHandlers.GetAudit)

			users := authed.Group("/users")
			users.Use(middleware.RequireRole(user.RoleProjectManager))
			{
				users.GET("", authHandlers.GetUsers)
				users.POST("", authHandlers.PostUsers)
			}
		}
	}

	return r
}
