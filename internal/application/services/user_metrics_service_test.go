package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/sheets"
)

func TestGetUserMetricsResolvesFuzzilyAndAggregates(t *testing.T) {
	source := newFakeRowSource()
	source.addSheet("Winnish Allwin G J", [][]string{
		sheetHeader,
		{"2026-03-09", "Winnish", "winnish@example.com", "10", "8", "1", "0", "4", ""},
		{"2026-03-10", "Winnish", "winnish@example.com", "6", "3", "0", "1", "2", ""},
	})

	svc := NewUserMetricsService(source, newTestLogger(t), newTestTracker(t))

	result, err := svc.GetUserMetrics(context.Background(), &user.User{
		Name:  "Winnish",
		Email: "winnish@example.com",
		Role:  user.RoleTeamMember,
	})
	require.NoError(t, err)

	assert.Equal(t, "Winnish Allwin G J", result.SheetName)
	require.Len(t, result.Metrics, 2)
	assert.Equal(t, 16, result.KPIs.TotalTasks)
	assert.Equal(t, 11, result.KPIs.CompletedTasks)
	// 11/16 = 68.75% -> 69
	assert.Equal(t, 69, result.KPIs.CompletionRate)
	// 11 completed / 6 interactions
	assert.InDelta(t, 1.83, result.KPIs.Efficiency, 0.0001)
}

func TestGetUserMetricsPrefersConfiguredSheetName(t *testing.T) {
	source := newFakeRowSource()
	source.addSheet("Support Rotation", [][]string{
		sheetHeader,
		{"2026-03-10", "Asha", "asha@example.com", "2", "2", "0", "0", "1", ""},
	})

	svc := NewUserMetricsService(source, newTestLogger(t), newTestTracker(t))

	result, err := svc.GetUserMetrics(context.Background(), &user.User{
		Name:      "Asha Rao",
		SheetName: "Support Rotation",
		Role:      user.RoleTeamMember,
	})
	require.NoError(t, err)
	assert.Equal(t, "Support Rotation", result.SheetName)
	assert.Len(t, result.Metrics, 1)
}

func TestGetUserMetricsNoMatchingSheet(t *testing.T) {
	source := newFakeRowSource()
	source.addSheet("Vikram S", [][]string{sheetHeader})

	svc := NewUserMetricsService(source, newTestLogger(t), newTestTracker(t))

	_, err := svc.GetUserMetrics(context.Background(), &user.User{
		Name: "Asha Rao",
		Role: user.RoleTeamMember,
	})
	require.Error(t, err)
	assert.True(t, sheets.IsNotFound(err))
}
