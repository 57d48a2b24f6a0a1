// Package config provides centralized default values for TeamPulse
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		if err := godotenv.Load(); err == nil {
			log.Println("Loading configuration overrides from .env file...")
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Spreadsheet upstream
	SpreadsheetID         string
	GoogleCredentialsFile string
	MetricsHeaderRows     int

	// Submission policy
	CanonicalTimezone       string
	ApprovedSubmitterEmails []string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Database
	DatabaseDriver   string
	DatabasePath     string
	TursoDatabaseURL string
	TursoAuthToken   string

	// Email
	EmailEnabled  bool
	EmailFrom     string
	EmailFromName string

	// TTL Configuration
	TeamMetricsTTL     time.Duration
	SnapshotHardExpiry time.Duration
	RefreshTimeout     time.Duration
	SheetsCallTimeout  time.Duration

	// Cleanup Intervals
	CacheCleanupInterval time.Duration
	SlowQueryThreshold   time.Duration

	// Bootstrap seed account (created only when the users table is empty)
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Spreadsheet upstream
	SpreadsheetID = getEnvString("SPREADSHEET_ID", "")
	GoogleCredentialsFile = getEnvString("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	MetricsHeaderRows = getEnvInt("METRICS_HEADER_ROWS", 1)

	// Submission policy
	CanonicalTimezone = getEnvString("CANONICAL_TIMEZONE", "Asia/Kolkata")
	ApprovedSubmitterEmails = getEnvStringList("APPROVED_SUBMITTER_EMAILS")

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)

	// Database
	DatabaseDriver = getEnvString("DB_DRIVER", "sqlite3")
	DatabasePath = getEnvString("DB_PATH", "teampulse.db")
	TursoDatabaseURL = getEnvString("TURSO_DATABASE_URL", "")
	TursoAuthToken = getEnvString("TURSO_AUTH_TOKEN", "")

	// Email
	EmailEnabled = getEnvBool("EMAIL_ENABLED", true)
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@teampulse.dev")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "TeamPulse")

	// TTL Configuration
	TeamMetricsTTL = getEnvDuration("TEAM_METRICS_TTL", 5*time.Minute)
	SnapshotHardExpiry = getEnvDuration("SNAPSHOT_HARD_EXPIRY", 4*time.Hour)
	RefreshTimeout = getEnvDuration("REFRESH_TIMEOUT", 25*time.Second)
	SheetsCallTimeout = getEnvDuration("SHEETS_CALL_TIMEOUT", 15*time.Second)

	// Cleanup Intervals
	CacheCleanupInterval = getEnvDuration("CACHE_CLEANUP_INTERVAL", 30*time.Minute)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 250*time.Millisecond)

	// Bootstrap seed account
	SeedAdminEmail = getEnvString("SEED_ADMIN_EMAIL", "")
	SeedAdminPassword = getEnvString("SEED_ADMIN_PASSWORD", "")
	SeedAdminName = getEnvString("SEED_ADMIN_NAME", "Project Manager")
}
