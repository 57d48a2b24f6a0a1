// Package performance provides operation-level performance markers and a
// tracker that aggregates them for health reporting.
package performance

import (
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string         `json:"operation"` // e.g., "metrics:team_refresh", "submit:append_row"
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Completed bool           `json:"completed"`

	tracker *Tracker
}

// Complete marks the operation as finished and records it with the tracker.
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	if m.tracker != nil {
		m.tracker.record(m)
	}
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// HealthStatus represents the overall health of the service
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"   // Operations performing within normal parameters
	HealthDegraded  HealthStatus = "degraded"  // Some operations showing performance issues
	HealthUnhealthy HealthStatus = "unhealthy" // Significant performance problems detected
	HealthUnknown   HealthStatus = "unknown"   // Not enough data yet
)

// Snapshot is a point-in-time view of tracked operations.
type Snapshot struct {
	Timestamp           time.Time               `json:"timestamp"`
	OverallHealth       HealthStatus            `json:"overallHealth"`
	ActiveOperations    int                     `json:"activeOperations"`
	CompletedOperations int                     `json:"completedOperations"`
	Operations          map[string]OperationAgg `json:"operations"`
}

// OperationAgg aggregates completed markers for one operation name.
type OperationAgg struct {
	Count        int           `json:"count"`
	Failures     int           `json:"failures"`
	AvgDuration  time.Duration `json:"avgDuration"`
	MaxDuration  time.Duration `json:"maxDuration"`
	LastDuration time.Duration `json:"lastDuration"`
}
