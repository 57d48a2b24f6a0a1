package services

import (
	"context"
	"fmt"

	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/performance"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// UserMetricsResult is one user's parsed rows plus their aggregate.
type UserMetricsResult struct {
	SheetName string           `json:"sheetName"`
	Metrics   []metrics.Record `json:"metrics"`
	KPIs      metrics.KPI      `json:"kpis"`
}

// UserMetricsService reads and aggregates a single user's sheet. Unlike
// writes, reads resolve the tab fuzzily: serving data from a near-match tab
// is acceptable, returning nothing is not.
type UserMetricsService struct {
	source      sheets.RowSource
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	headerRows  int
}

// NewUserMetricsService creates the per-user metrics reader.
func NewUserMetricsService(source sheets.RowSource, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UserMetricsService {
	return &UserMetricsService{
		source:      source,
		logger:      logger,
		perfTracker: perfTracker,
		headerRows:  config.MetricsHeaderRows,
	}
}

// GetUserMetrics fetches and aggregates the rows of the caller's sheet.
func (s *UserMetricsService) GetUserMetrics(ctx context.Context, u *user.User) (*UserMetricsResult, error) {
	marker := s.perfTracker.StartOperation("metrics:get_user")
	defer marker.Complete()

	titles, err := s.source.ListSheetTitles(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to enumerate sheet tabs: %w", err)
	}

	title, err := sheets.Resolve(titles, u.Sheet())
	if err != nil {
		s.logger.Sheets().Warn("No sheet resolved for user", "user", u.Name, "target", u.Sheet())
		marker.SetError(err)
		return nil, err
	}

	rows, err := s.source.ReadRows(ctx, title)
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to read sheet %q: %w", title, err)
	}

	records := make([]metrics.Record, 0, max(0, len(rows)-s.headerRows))
	for i, row := range rows {
		if i < s.headerRows {
			continue
		}
		records = append(records, metrics.ParseRow(row, title))
	}

	marker.SetSuccess(true)
	marker.AddMetadata("sheet", title)
	marker.AddMetadata("records", len(records))

	return &UserMetricsResult{
		SheetName: title,
		Metrics:   records,
		KPIs:      metrics.Aggregate(records, metrics.AggregateOptions{IncludeEfficiency: true}),
	}, nil
}
