// Package services contains the application-layer orchestration: composing
// domain logic, the sheets upstream, the cache, persistence, and email into
// the operations the HTTP layer exposes.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/manager"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/caching/types"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/messaging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// ErrRefreshTimeout is returned when a refresh exceeded its budget and no
// stale snapshot was available to fall back to.
var ErrRefreshTimeout = errors.New("team metrics refresh timed out")

// TeamMetricsResult is a snapshot plus how it was obtained.
type TeamMetricsResult struct {
	Snapshot      *metrics.TeamSnapshot
	Cached        bool
	Stale         bool
	LastRefreshed time.Time
}

// TeamMetricsService orchestrates the full team view: enumerate user tabs,
// fetch and parse each, aggregate, and cache the composed snapshot.
type TeamMetricsService struct {
	source      sheets.RowSource
	cache       *manager.Manager
	broadcaster *messaging.MetricsBroadcaster
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	headerRows  int
}

// NewTeamMetricsService creates the team metrics orchestrator. The
// broadcaster may be nil when no live feed is wired.
func NewTeamMetricsService(
	source sheets.RowSource,
	cache *manager.Manager,
	broadcaster *messaging.MetricsBroadcaster,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *TeamMetricsService {
	return &TeamMetricsService{
		source:      source,
		cache:       cache,
		broadcaster: broadcaster,
		logger:      logger,
		perfTracker: perfTracker,
		headerRows:  config.MetricsHeaderRows,
	}
}

// GetTeamMetrics returns the team snapshot, serving the cached entry when
// fresh and refreshing otherwise. A refresh that exceeds its budget falls
// back to the previous snapshot when one exists.
func (s *TeamMetricsService) GetTeamMetrics(ctx context.Context, forceRefresh bool) (*TeamMetricsResult, error) {
	marker := s.perfTracker.StartOperation("metrics:get_team")
	defer marker.Complete()

	if !forceRefresh {
		if entry, freshness := s.cache.Get(); freshness == types.FreshnessFresh {
			s.logger.LogCacheOperation("team_metrics_get", true, entry.Age(time.Now()))
			marker.SetSuccess(true)
			marker.AddMetadata("source", "cache")
			return &TeamMetricsResult{
				Snapshot:      entry.Snapshot,
				Cached:        true,
				LastRefreshed: entry.ComputedAt,
			}, nil
		}
	}

	snapshot, err := s.cache.Refresh(func() (*metrics.TeamSnapshot, error) {
		refreshCtx, cancel := context.WithTimeout(ctx, config.RefreshTimeout)
		defer cancel()
		return s.buildSnapshot(refreshCtx)
	})
	if err != nil {
		// Degraded path: serve the previous snapshot if we still have one.
		if entry, freshness := s.cache.Get(); freshness != types.FreshnessEmpty {
			s.logger.Metrics().Warn("Refresh failed, serving stale snapshot",
				"error", err.Error(),
				"age", entry.Age(time.Now()))
			marker.SetSuccess(true)
			marker.AddMetadata("source", "stale")
			return &TeamMetricsResult{
				Snapshot:      entry.Snapshot,
				Cached:        true,
				Stale:         true,
				LastRefreshed: entry.ComputedAt,
			}, nil
		}
		marker.SetError(err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrRefreshTimeout
		}
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSnapshot(snapshot)
	}

	marker.SetSuccess(true)
	marker.AddMetadata("source", "refresh")
	return &TeamMetricsResult{
		Snapshot:      snapshot,
		LastRefreshed: snapshot.BuiltAt,
	}, nil
}

// buildSnapshot performs the full upstream fetch and aggregation. One tab's
// failure is logged and skipped; it never aborts the batch.
func (s *TeamMetricsService) buildSnapshot(ctx context.Context) (*metrics.TeamSnapshot, error) {
	marker := s.perfTracker.StartOperation("metrics:team_refresh")
	defer marker.Complete()

	start := time.Now()
	titles, err := s.source.ListSheetTitles(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to enumerate sheet tabs: %w", err)
	}

	members := sheets.ListDataSheets(titles)
	userMetrics := make(map[string][]metrics.Record, len(members))
	memberOrder := make([]string, 0, len(members))

	for _, member := range members {
		if ctx.Err() != nil {
			marker.SetError(ctx.Err())
			return nil, ctx.Err()
		}

		rows, err := s.source.ReadRows(ctx, member)
		if err != nil {
			s.logger.Sheets().Warn("Skipping sheet after fetch failure",
				"sheet", member,
				"error", err.Error())
			continue
		}

		records := make([]metrics.Record, 0, max(0, len(rows)-s.headerRows))
		for i, row := range rows {
			if i < s.headerRows {
				continue
			}
			records = append(records, metrics.ParseRow(row, member))
		}

		userMetrics[member] = records
		memberOrder = append(memberOrder, member)
	}

	snapshot := metrics.BuildSnapshot(userMetrics, memberOrder, time.Now().UTC())

	s.logger.Metrics().Info("Team snapshot built",
		"members", len(memberOrder),
		"records", snapshot.TotalMetrics,
		"duration", time.Since(start))
	marker.SetSuccess(true)
	marker.AddMetadata("members", len(memberOrder))
	marker.AddMetadata("records", snapshot.TotalMetrics)

	return snapshot, nil
}
