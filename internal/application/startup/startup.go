// Package startup prepares the application server
package startup

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teampulsehq/teampulse-go/internal/application/container"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/cleanup"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/presentation/http/server"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until
// shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("Initializing TeamPulse...")

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Dependency injection container (db, repos, sheets, cache,
	// email, services)
	appContainer, err := container.NewContainer(ctx, logger)
	if err != nil {
		return err
	}
	defer appContainer.Close()
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 3: Seed the bootstrap account when the user table is empty
	if err := appContainer.AuthService.SeedAdmin(); err != nil {
		return err
	}

	// Step 4: Start the metrics broadcaster
	go appContainer.Broadcaster.Run()
	logger.Startup().Info("Metrics broadcaster started")

	// Step 5: Start the cache cleanup worker
	cleanupWorker := cleanup.NewWorker(
		appContainer.CacheManager,
		config.CacheCleanupInterval,
		config.SnapshotHardExpiry,
		logger,
	)
	cleanupWorker.Start()

	// Step 6: Start HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port,
		"timezone", config.CanonicalTimezone)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	cancelBackgroundTasks()
	cleanupWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
