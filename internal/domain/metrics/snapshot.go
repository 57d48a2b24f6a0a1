package metrics

import "time"

// TeamSnapshot is the composed team-wide view built on each cache refresh.
// A snapshot is immutable once built: readers either see the previous
// snapshot or this one in full, never a partial build.
type TeamSnapshot struct {
	TotalMetrics   int                 `json:"totalMetrics"`
	TeamMembers    []string            `json:"teamMembers"`
	UserMetrics    map[string][]Record `json:"userMetrics"`    // sheet name -> rows in sheet order
	IndividualKPIs map[string]KPI      `json:"individualKPIs"` // sheet name -> aggregate
	AggregatedKPIs KPI                 `json:"aggregatedKPIs"`
	BuiltAt        time.Time           `json:"builtAt"`
}

// AllRecords flattens the per-member rows, preserving member grouping.
func (s *TeamSnapshot) AllRecords() []Record {
	all := make([]Record, 0, s.TotalMetrics)
	for _, member := range s.TeamMembers {
		all = append(all, s.UserMetrics[member]...)
	}
	return all
}

// BuildSnapshot assembles a TeamSnapshot from per-sheet rows, aggregating
// each member and the whole team. Member order follows the input order.
func BuildSnapshot(userMetrics map[string][]Record, memberOrder []string, builtAt time.Time) *TeamSnapshot {
	snapshot := &TeamSnapshot{
		TeamMembers:    memberOrder,
		UserMetrics:    userMetrics,
		IndividualKPIs: make(map[string]KPI, len(memberOrder)),
		BuiltAt:        builtAt,
	}

	opts := AggregateOptions{IncludeEfficiency: true}
	perMember := make([]KPI, 0, len(memberOrder))
	for _, member := range memberOrder {
		records := userMetrics[member]
		snapshot.TotalMetrics += len(records)
		kpi := Aggregate(records, opts)
		snapshot.IndividualKPIs[member] = kpi
		perMember = append(perMember, kpi)
	}
	snapshot.AggregatedKPIs = Merge(perMember, opts)

	return snapshot
}
