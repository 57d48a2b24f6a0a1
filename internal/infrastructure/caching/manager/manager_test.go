package manager

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/types"
)

func testSnapshot(members ...string) *metrics.TeamSnapshot {
	return &metrics.TeamSnapshot{TeamMembers: members}
}

// clock is a settable fake time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(start time.Time) *clock { return &clock{now: start} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestManager(ttl time.Duration) (*Manager, *clock) {
	clk := newClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	m := NewManager(ttl, nil)
	m.SetClock(clk.Now)
	return m, clk
}

func TestGetFreshnessTransitions(t *testing.T) {
	m, clk := newTestManager(5 * time.Minute)

	entry, freshness := m.Get()
	assert.Nil(t, entry)
	assert.Equal(t, types.FreshnessEmpty, freshness)

	m.Set(testSnapshot("Asha"))

	entry, freshness = m.Get()
	require.NotNil(t, entry)
	assert.Equal(t, types.FreshnessFresh, freshness)

	clk.Advance(4 * time.Minute)
	_, freshness = m.Get()
	assert.Equal(t, types.FreshnessFresh, freshness)

	clk.Advance(2 * time.Minute)
	entry, freshness = m.Get()
	require.NotNil(t, entry)
	assert.Equal(t, types.FreshnessStale, freshness)
	assert.Equal(t, []string{"Asha"}, entry.Snapshot.TeamMembers)
}

func TestRefreshStoresBuildResult(t *testing.T) {
	m, _ := newTestManager(5 * time.Minute)

	builds := 0
	snapshot, err := m.Refresh(func() (*metrics.TeamSnapshot, error) {
		builds++
		return testSnapshot("Asha", "Vikram"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, builds)
	assert.Equal(t, []string{"Asha", "Vikram"}, snapshot.TeamMembers)

	_, freshness := m.Get()
	assert.Equal(t, types.FreshnessFresh, freshness)
}

func TestRefreshSkipsBuildWhenAlreadyFresh(t *testing.T) {
	m, _ := newTestManager(5 * time.Minute)
	m.Set(testSnapshot("Asha"))

	builds := 0
	snapshot, err := m.Refresh(func() (*metrics.TeamSnapshot, error) {
		builds++
		return testSnapshot("new"), nil
	})
	require.NoError(t, err)
	assert.Zero(t, builds)
	assert.Equal(t, []string{"Asha"}, snapshot.TeamMembers)
}

func TestRefreshFailureKeepsStaleEntry(t *testing.T) {
	m, clk := newTestManager(5 * time.Minute)
	m.Set(testSnapshot("Asha"))
	clk.Advance(10 * time.Minute)

	_, err := m.Refresh(func() (*metrics.TeamSnapshot, error) {
		return nil, errors.New("upstream down")
	})
	require.Error(t, err)

	entry, freshness := m.Get()
	require.NotNil(t, entry)
	assert.Equal(t, types.FreshnessStale, freshness)
	assert.Equal(t, []string{"Asha"}, entry.Snapshot.TeamMembers)
}

func TestConcurrentRefreshesShareOneBuild(t *testing.T) {
	m, _ := newTestManager(5 * time.Minute)

	var mu sync.Mutex
	builds := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Refresh(func() (*metrics.TeamSnapshot, error) {
				mu.Lock()
				builds++
				mu.Unlock()
				return testSnapshot("Asha"), nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// The first caller through the gate builds; everyone queued behind it
	// finds a fresh entry and returns without building.
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, builds)
}

func TestPurgeOlderThan(t *testing.T) {
	m, clk := newTestManager(5 * time.Minute)

	assert.False(t, m.PurgeOlderThan(4*time.Hour), "empty slot")

	m.Set(testSnapshot("Asha"))
	clk.Advance(1 * time.Hour)
	assert.False(t, m.PurgeOlderThan(4*time.Hour), "stale but within hard expiry")

	clk.Advance(4 * time.Hour)
	assert.True(t, m.PurgeOlderThan(4*time.Hour))

	_, freshness := m.Get()
	assert.Equal(t, types.FreshnessEmpty, freshness)
	_, ok := m.LastRefreshed()
	assert.False(t, ok)
}

func TestLastRefreshed(t *testing.T) {
	m, clk := newTestManager(5 * time.Minute)

	_, ok := m.LastRefreshed()
	assert.False(t, ok)

	m.Set(testSnapshot("Asha"))
	at, ok := m.LastRefreshed()
	require.True(t, ok)
	assert.Equal(t, clk.Now(), at)
}
