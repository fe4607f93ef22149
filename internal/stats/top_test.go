package stats

import (
	"testing"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestTopFactsByFrequency(t *testing.T) {
	aggs := []FactAggregate{
		{Key: "3x4", FactStats: model.FactStats{Correct: 3, Total: 4}},
		{Key: "2x2", FactStats: model.FactStats{Correct: 2, Total: 4}},
		{Key: "√9", FactStats: model.FactStats{Correct: 1, Total: 1}},
		{Key: "5x5"},
	}
	top := TopFactsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(top))
	}
	if top[0] != "2x2" || top[1] != "3x4" {
		t.Fatalf("unexpected order: %v", top)
	}
	if all := TopFactsByFrequency(aggs, 10); len(all) != 3 {
		t.Fatalf("expected unattempted fact skipped, got %v", all)
	}
	if TopFactsByFrequency(aggs, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
