// Package types defines the cache entry shapes shared by stores and the
// cache manager.
package types

import (
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
)

// TeamMetricsEntry wraps a snapshot with its creation instant. Freshness is
// derived: an entry is fresh while now - ComputedAt < TTL.
type TeamMetricsEntry struct {
	Snapshot   *metrics.TeamSnapshot
	ComputedAt time.Time
}

// Age returns how long ago the entry was computed.
func (e *TeamMetricsEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.ComputedAt)
}

// Freshness describes the cache slot's state machine position.
type Freshness string

const (
	FreshnessEmpty Freshness = "empty" // No snapshot has ever been stored
	FreshnessFresh Freshness = "fresh" // Entry age < TTL
	FreshnessStale Freshness = "stale" // Entry exists but has outlived its TTL
)
