package stats

import (
	"sort"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Leitner weights. A never-attempted fact outweighs every box.
const (
	WeightUnseen = 10
	WeightBox1   = 8
	WeightBox2   = 4
	WeightBox3   = 2
	WeightBox4   = 1
)

// LeitnerBox returns 0 for an unseen fact, otherwise the box 1..4 by success
// rate: below 50%, below 80%, below 95%, and the rest.
func LeitnerBox(fs model.FactStats) int {
	rate, ok := fs.Rate()
	switch {
	case !ok:
		return 0
	case rate < 0.5:
		return 1
	case rate < 0.8:
		return 2
	case rate < 0.95:
		return 3
	default:
		return 4
	}
}

// Weight returns the selection weight for a fact.
func Weight(fs model.FactStats) int {
	switch LeitnerBox(fs) {
	case 0:
		return WeightUnseen
	case 1:
		return WeightBox1
	case 2:
		return WeightBox2
	case 3:
		return WeightBox3
	default:
		return WeightBox4
	}
}

// FactAggregate pairs a fact key with its counters.
type FactAggregate struct {
	Key string
	model.FactStats
}

// Aggregates flattens a snapshot into a slice sorted by key.
func Aggregates(snapshot map[string]model.FactStats) []FactAggregate {
	out := make([]FactAggregate, 0, len(snapshot))
	for key, fs := range snapshot {
		out = append(out, FactAggregate{Key: key, FactStats: fs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// WeakestFacts returns up to top attempted facts with the lowest accuracy.
// Ties go to the fact with more attempts, then by key.
func WeakestFacts(aggs []FactAggregate, top int) []FactAggregate {
	candidates := make([]FactAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Total > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i].FactStats)
		aj := accuracy(candidates[j].FactStats)
		if ai == aj {
			if candidates[i].Total == candidates[j].Total {
				return candidates[i].Key < candidates[j].Key
			}
			return candidates[i].Total > candidates[j].Total
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	return candidates[:top]
}

func accuracy(fs model.FactStats) float64 {
	rate, ok := fs.Rate()
	if !ok {
		return 1.0
	}
	return rate
}
