// Package manager provides centralized cache operations for the team
// metrics snapshot slot.
package manager

import (
	"sync"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/stores"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/types"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
)

// Manager owns the snapshot slot and its freshness policy. It is an
// explicitly constructed instance injected where needed; there is no
// package-level global.
type Manager struct {
	store  *stores.TeamMetricsStore
	ttl    time.Duration
	logger *logging.ChanneledLogger
	now    func() time.Time

	// refreshMu serializes refreshes so concurrent cache misses share one
	// upstream fetch instead of each triggering their own.
	refreshMu sync.Mutex
}

// NewManager creates a cache manager with the given TTL.
func NewManager(ttl time.Duration, logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "ttl", ttl)
	}
	return &Manager{
		store:  stores.NewTeamMetricsStore(),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the current entry and its freshness classification.
func (m *Manager) Get() (*types.TeamMetricsEntry, types.Freshness) {
	entry, ok := m.store.Get()
	if !ok {
		return nil, types.FreshnessEmpty
	}
	if entry.Age(m.now()) < m.ttl {
		return entry, types.FreshnessFresh
	}
	return entry, types.FreshnessStale
}

// Set stores a freshly built snapshot.
func (m *Manager) Set(snapshot *metrics.TeamSnapshot) {
	m.store.Set(snapshot, m.now())
	if m.logger != nil {
		m.logger.Cache().Debug("Snapshot stored",
			"members", len(snapshot.TeamMembers),
			"records", snapshot.TotalMetrics)
	}
}

// Refresh runs build under the refresh gate. If another caller finished a
// refresh while this one waited for the gate, the now-fresh entry is
// returned without calling build again. On build failure nothing is stored
// and the error propagates; a stale entry, if any, stays available.
func (m *Manager) Refresh(build func() (*metrics.TeamSnapshot, error)) (*metrics.TeamSnapshot, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	if entry, freshness := m.Get(); freshness == types.FreshnessFresh {
		if m.logger != nil {
			m.logger.LogCacheOperation("refresh_dedup", true, entry.Age(m.now()))
		}
		return entry.Snapshot, nil
	}

	snapshot, err := build()
	if err != nil {
		return nil, err
	}
	m.Set(snapshot)
	return snapshot, nil
}

// PurgeOlderThan drops the entry once it is older than the hard expiry.
// Stale fallback is intentional behavior, but it must not serve data from
// hours ago forever.
func (m *Manager) PurgeOlderThan(hardExpiry time.Duration) bool {
	entry, ok := m.store.Get()
	if !ok {
		return false
	}
	age := entry.Age(m.now())
	if age <= hardExpiry {
		return false
	}
	m.store.Clear()
	if m.logger != nil {
		m.logger.Cache().Info("Purged expired snapshot", "age", age, "hardExpiry", hardExpiry)
	}
	return true
}

// LastRefreshed reports when the current entry was computed, if one exists.
func (m *Manager) LastRefreshed() (time.Time, bool) {
	entry, ok := m.store.Get()
	if !ok {
		return time.Time{}, false
	}
	return entry.ComputedAt, true
}

// SetClock pins the manager's clock. Intended for tests.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}
