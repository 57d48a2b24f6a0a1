package performance

import (
	"sync"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
)

// slowOperationThreshold triggers a warning log for any single operation
// exceeding it.
const slowOperationThreshold = 5 * time.Second

// Tracker collects markers across the application. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	active    int
	completed int
	aggs      map[string]*operationStats
	logger    *logging.ChanneledLogger
}

type operationStats struct {
	count    int
	failures int
	total    time.Duration
	max      time.Duration
	last     time.Duration
}

// NewTracker creates a tracker.
func NewTracker(logger *logging.ChanneledLogger) *Tracker {
	return &Tracker{
		aggs:   make(map[string]*operationStats),
		logger: logger,
	}
}

// StartOperation begins a new marker for the named operation.
func (t *Tracker) StartOperation(operation string) *Marker {
	t.mu.Lock()
	t.active++
	t.mu.Unlock()

	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	t.active--
	t.completed++

	stats, ok := t.aggs[m.Operation]
	if !ok {
		stats = &operationStats{}
		t.aggs[m.Operation] = stats
	}
	stats.count++
	if !m.Success {
		stats.failures++
	}
	stats.total += m.Duration
	stats.last = m.Duration
	if m.Duration > stats.max {
		stats.max = m.Duration
	}
	t.mu.Unlock()

	if m.Duration > slowOperationThreshold && t.logger != nil {
		t.logger.Perf().Warn("Slow operation",
			"operation", m.Operation,
			"duration", m.Duration,
			"success", m.Success)
	}
}

// Snapshot returns a point-in-time aggregate view.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	ops := make(map[string]OperationAgg, len(t.aggs))
	failures := 0
	for name, stats := range t.aggs {
		failures += stats.failures
		ops[name] = OperationAgg{
			Count:        stats.count,
			Failures:     stats.failures,
			AvgDuration:  stats.total / time.Duration(stats.count),
			MaxDuration:  stats.max,
			LastDuration: stats.last,
		}
	}

	health := HealthUnknown
	if t.completed > 0 {
		failureRate := float64(failures) / float64(t.completed)
		switch {
		case failureRate > 0.25:
			health = HealthUnhealthy
		case failureRate > 0.05:
			health = HealthDegraded
		default:
			health = HealthHealthy
		}
	}

	return Snapshot{
		Timestamp:           time.Now().UTC(),
		OverallHealth:       health,
		ActiveOperations:    t.active,
		CompletedOperations: t.completed,
		Operations:          ops,
	}
}
