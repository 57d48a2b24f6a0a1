// Package container provides dependency injection for all singleton services
package container

import (
	"context"
	"fmt"

	"github.com/teampulsehq/teampulse-go/internal/application/services"
	"github.com/teampulsehq/teampulse-go/internal/domain/audit"
	"github.com/teampulsehq/teampulse-go/internal/domain/schedule"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/manager"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/email"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/messaging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
	auditstore "github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/audit"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/database"
	userstore "github.com/teampulsehq/teampulse-go/internal/infrastructure/persistence/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Infrastructure
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	DB           *database.DB
	CacheManager *manager.Manager
	Broadcaster  *messaging.MetricsBroadcaster
	SheetSource  sheets.RowSource
	EmailService email.Service
	Validator    *schedule.Validator

	// Repositories
	UserRepo  user.Repository
	AuditRepo audit.Repository

	// Application services
	AuthService         *services.AuthService
	TeamMetricsService  *services.TeamMetricsService
	UserMetricsService  *services.UserMetricsService
	SubmissionService   *services.SubmissionService
	NotificationService *services.NotificationService
}

// NewContainer creates and wires all singleton services
func NewContainer(ctx context.Context, logger *logging.ChanneledLogger) (*Container, error) {
	perfTracker := performance.NewTracker(logger)

	db, err := openDatabase(logger)
	if err != nil {
		return nil, err
	}
	if err := database.NewSchemaCreator().CreateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	userRepo := userstore.NewSQLUserRepository(db, logger)
	auditRepo := auditstore.NewSQLAuditRepository(db, logger)

	validator, err := schedule.NewValidator(config.CanonicalTimezone)
	if err != nil {
		return nil, err
	}

	source, err := sheets.NewGoogleSource(ctx, config.GoogleCredentialsFile, config.SpreadsheetID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets source: %w", err)
	}

	emailService, err := email.NewService(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}

	cacheManager := manager.NewManager(config.TeamMetricsTTL, logger)
	broadcaster := messaging.NewMetricsBroadcaster(logger)

	teamMetrics := services.NewTeamMetricsService(source, cacheManager, broadcaster, logger, perfTracker)
	userMetrics := services.NewUserMetricsService(source, logger, perfTracker)
	submissions := services.NewSubmissionService(
		source, validator, auditRepo, emailService,
		config.ApprovedSubmitterEmails, config.MetricsHeaderRows,
		logger, perfTracker,
	)
	authService := services.NewAuthService(userRepo, logger)
	notifications := services.NewNotificationService(userRepo, teamMetrics, validator, emailService, logger)

	return &Container{
		Logger:       logger,
		PerfTracker:  perfTracker,
		DB:           db,
		CacheManager: cacheManager,
		Broadcaster:  broadcaster,
		SheetSource:  source,
		EmailService: emailService,
		Validator:    validator,

		UserRepo:  userRepo,
		AuditRepo: auditRepo,

		AuthService:         authService,
		TeamMetricsService:  teamMetrics,
		UserMetricsService:  userMetrics,
		SubmissionService:   submissions,
		NotificationService: notifications,
	}, nil
}

// openDatabase selects the configured driver: a Turso URL wins over the
// local sqlite file when present.
func openDatabase(logger *logging.ChanneledLogger) (*database.DB, error) {
	driver := config.DatabaseDriver
	dsn := config.DatabasePath

	if config.TursoDatabaseURL != "" {
		driver = "libsql"
		dsn = config.TursoDatabaseURL
		if config.TursoAuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.TursoDatabaseURL, config.TursoAuthToken)
		}
	}

	db, err := database.NewConnectionWithLogger(driver, dsn, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Close releases the container's long-lived resources.
func (c *Container) Close() error {
	return c.DB.Close()
}
