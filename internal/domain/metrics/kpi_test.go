package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rec(total, completed, late, reopened, interactions int) Record {
	return Record{
		TotalTasks:         total,
		Completed:          completed,
		Pending:            total - completed,
		Late:               late,
		Reopened:           reopened,
		ClientInteractions: interactions,
	}
}

func TestAggregateSums(t *testing.T) {
	kpi := Aggregate([]Record{
		rec(10, 8, 1, 0, 4),
		rec(5, 5, 0, 1, 2),
	}, AggregateOptions{})

	assert.Equal(t, 15, kpi.TotalTasks)
	assert.Equal(t, 13, kpi.CompletedTasks)
	assert.Equal(t, 2, kpi.PendingTasks)
	assert.Equal(t, 1, kpi.LateTasks)
	assert.Equal(t, 6, kpi.TotalClientInteractions)
}

func TestAggregateEmptyInput(t *testing.T) {
	kpi := Aggregate(nil, AggregateOptions{IncludeEfficiency: true})
	assert.Zero(t, kpi.TotalTasks)
	assert.Zero(t, kpi.CompletionRate)
	assert.Zero(t, kpi.Efficiency)
}

func TestCompletionRateRoundsHalfUp(t *testing.T) {
	// 1/8 = 12.5% -> 13 with round-half-up (banker's rounding would say 12).
	kpi := Aggregate([]Record{rec(8, 1, 0, 0, 0)}, AggregateOptions{})
	assert.Equal(t, 13, kpi.CompletionRate)

	// 2/3 = 66.67% -> 67
	kpi = Aggregate([]Record{rec(3, 2, 0, 0, 0)}, AggregateOptions{})
	assert.Equal(t, 67, kpi.CompletionRate)

	// Zero total keeps rate at zero rather than dividing by zero.
	kpi = Aggregate([]Record{rec(0, 0, 0, 0, 0)}, AggregateOptions{})
	assert.Zero(t, kpi.CompletionRate)
}

func TestEfficiencyOnlyWhenRequested(t *testing.T) {
	records := []Record{rec(10, 7, 0, 0, 3)}

	without := Aggregate(records, AggregateOptions{})
	assert.Zero(t, without.Efficiency)

	with := Aggregate(records, AggregateOptions{IncludeEfficiency: true})
	assert.InDelta(t, 2.33, with.Efficiency, 0.0001)
}

func TestEfficiencyZeroDenominator(t *testing.T) {
	kpi := Aggregate([]Record{rec(10, 7, 0, 0, 0)}, AggregateOptions{IncludeEfficiency: true})
	assert.Zero(t, kpi.Efficiency)
}

func TestMergeEqualsFlattenedAggregate(t *testing.T) {
	byMember := map[string][]Record{
		"Asha":  {rec(10, 8, 1, 0, 4), rec(7, 3, 0, 2, 1)},
		"Vikram": {rec(5, 5, 0, 1, 2)},
		"Meera": {rec(0, 0, 0, 0, 0), rec(9, 4, 3, 0, 6)},
	}
	opts := AggregateOptions{IncludeEfficiency: true}

	var flattened []Record
	var perMember []KPI
	for _, records := range byMember {
		flattened = append(flattened, records...)
		perMember = append(perMember, Aggregate(records, opts))
	}

	assert.Equal(t, Aggregate(flattened, opts), Merge(perMember, opts))
}

func TestBuildSnapshot(t *testing.T) {
	builtAt := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	userMetrics := map[string][]Record{
		"Asha":   {rec(10, 8, 1, 0, 4)},
		"Vikram": {rec(5, 5, 0, 1, 2), rec(6, 2, 0, 0, 3)},
	}

	snapshot := BuildSnapshot(userMetrics, []string{"Asha", "Vikram"}, builtAt)

	assert.Equal(t, 3, snapshot.TotalMetrics)
	assert.Equal(t, []string{"Asha", "Vikram"}, snapshot.TeamMembers)
	assert.Equal(t, builtAt, snapshot.BuiltAt)
	assert.Equal(t, 80, snapshot.IndividualKPIs["Asha"].CompletionRate)
	assert.Equal(t, 21, snapshot.AggregatedKPIs.TotalTasks)
	assert.Equal(t, 15, snapshot.AggregatedKPIs.CompletedTasks)
	assert.Len(t, snapshot.AllRecords(), 3)
}
