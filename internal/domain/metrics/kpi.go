package metrics

import "math"

// KPI is the aggregate over a set of Records: plain sums plus derived
// ratios. Ratio fields are always recomputed from the sums, never stored
// independently of their inputs.
type KPI struct {
	TotalTasks              int     `json:"totalTasks"`
	CompletedTasks          int     `json:"completedTasks"`
	PendingTasks            int     `json:"pendingTasks"`
	LateTasks               int     `json:"lateTasks"`
	TotalClientInteractions int     `json:"totalClientInteractions"`
	CompletionRate          int     `json:"completionRate"`
	Efficiency              float64 `json:"efficiency,omitempty"`
}

// AggregateOptions controls optional derived fields.
type AggregateOptions struct {
	// IncludeEfficiency adds completed/clientInteractions, rounded to two
	// decimals, zero when there were no client interactions.
	IncludeEfficiency bool
}

// Aggregate reduces records into a KPI. Sums are order-independent and
// associative, so aggregating a flattened set of records is identical to
// merging per-member aggregates.
func Aggregate(records []Record, opts AggregateOptions) KPI {
	var kpi KPI
	for _, r := range records {
		kpi.TotalTasks += r.TotalTasks
		kpi.CompletedTasks += r.Completed
		kpi.PendingTasks += r.Pending
		kpi.LateTasks += r.Late
		kpi.TotalClientInteractions += r.ClientInteractions
	}
	kpi.derive(opts)
	return kpi
}

// Merge combines per-member KPIs into a rollup by summing the raw counters
// and recomputing the derived fields from the sums.
func Merge(kpis []KPI, opts AggregateOptions) KPI {
	var out KPI
	for _, k := range kpis {
		out.TotalTasks += k.TotalTasks
		out.CompletedTasks += k.CompletedTasks
		out.PendingTasks += k.PendingTasks
		out.LateTasks += k.LateTasks
		out.TotalClientInteractions += k.TotalClientInteractions
	}
	out.derive(opts)
	return out
}

func (k *KPI) derive(opts AggregateOptions) {
	if k.TotalTasks > 0 {
		k.CompletionRate = roundHalfUp(float64(k.CompletedTasks) / float64(k.TotalTasks) * 100)
	}
	if opts.IncludeEfficiency && k.TotalClientInteractions > 0 {
		k.Efficiency = round2(float64(k.CompletedTasks) / float64(k.TotalClientInteractions))
	}
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
