// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/types"
)

// TeamMetricsStore holds the single team snapshot slot. The slot pointer is
// replaced whole under the write lock, so readers see either the previous
// entry or the new one in full, never an interleaving.
type TeamMetricsStore struct {
	mu    sync.RWMutex
	entry *types.TeamMetricsEntry
}

// NewTeamMetricsStore creates an empty store.
func NewTeamMetricsStore() *TeamMetricsStore {
	return &TeamMetricsStore{}
}

// Get returns the current entry, if any.
func (s *TeamMetricsStore) Get() (*types.TeamMetricsEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return nil, false
	}
	return s.entry, true
}

// Set replaces the slot with a new entry stamped at now.
func (s *TeamMetricsStore) Set(snapshot *metrics.TeamSnapshot, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = &types.TeamMetricsEntry{
		Snapshot:   snapshot,
		ComputedAt: now,
	}
}

// Clear empties the slot.
func (s *TeamMetricsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = nil
}
