package generator

import (
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/stats"
)

// StatsLookup returns the recorded counters for a fact key.
type StatsLookup interface {
	Get(key string) model.FactStats
}

// Universe lists every candidate fact for the selected series: twelve
// multiplication facts per series, twelve division facts per series when
// enabled, and the square roots once when enabled.
func Universe(series []int, s model.Settings) []model.Question {
	seen := map[int]struct{}{}
	var out []model.Question
	for _, n := range series {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		for i := 1; i <= MaxOperand; i++ {
			out = append(out, MultiplicationQuestion(n, i))
		}
		if s.EnableDivision {
			for i := 1; i <= MaxOperand; i++ {
				out = append(out, DivisionQuestion(n, i))
			}
		}
	}
	if s.EnableSqrt {
		for _, sq := range validSquares() {
			out = append(out, SqrtQuestion(sq))
		}
	}
	return out
}

// Select draws count distinct facts for a test from the universe of series,
// weighted toward facts lookup reports as unseen or weak.
func (g *Generator) Select(series []int, s model.Settings, lookup StatsLookup, count int) []model.Question {
	weigh := func(q model.Question) int { return stats.Weight(lookup.Get(q.Key)) }
	return g.SelectWeighted(Universe(series, s), weigh, count)
}

// SelectWeighted draws up to count candidates without replacement, with
// probability proportional to weight. The result is in draw order.
// Non-positive weights count as 1. A non-positive count selects nothing.
func (g *Generator) SelectWeighted(candidates []model.Question, weight func(model.Question) int, count int) []model.Question {
	if count <= 0 {
		return nil
	}
	type item struct {
		q model.Question
		w int
	}
	pool := make([]item, len(candidates))
	for i, q := range candidates {
		w := weight(q)
		if w <= 0 {
			w = 1
		}
		pool[i] = item{q: q, w: w}
	}

	if count > len(pool) {
		count = len(pool)
	}
	result := make([]model.Question, 0, count)
	for len(result) < count && len(pool) > 0 {
		total := 0
		for _, it := range pool {
			total += it.w
		}
		remaining := g.rnd.Float64() * float64(total)
		idx := pickIndex(remaining, len(pool), func(i int) float64 { return float64(pool[i].w) })
		result = append(result, pool[idx].q)
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return result
}

// pickIndex walks the weights subtracting from remaining and returns the
// first index where it drops to zero or below. When rounding keeps it
// positive the last index is returned.
func pickIndex(remaining float64, n int, weightAt func(int) float64) int {
	for i := 0; i < n; i++ {
		remaining -= weightAt(i)
		if remaining <= 0 {
			return i
		}
	}
	return n - 1
}
