// Package stats contains statistics calculations and reporting.
package stats

import "sort"

// TopFactsByFrequency returns up to n keys of the most answered facts.
// Unattempted facts are skipped; ties go by key.
func TopFactsByFrequency(aggs []FactAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]FactAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Total > 0 {
			items = append(items, agg)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total == items[j].Total {
			return items[i].Key < items[j].Key
		}
		return items[i].Total > items[j].Total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := range n {
		out = append(out, items[i].Key)
	}
	return out
}
