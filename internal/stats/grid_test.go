package stats

import (
	"testing"

	"github.com/verte-zerg/mathdrill/internal/model"
)

func TestBandFor(t *testing.T) {
	cases := []struct {
		fs   model.FactStats
		want Band
	}{
		{model.FactStats{}, BandUnknown},
		{model.FactStats{Correct: 4, Total: 10}, BandDanger},
		{model.FactStats{Correct: 6, Total: 10}, BandWeak},
		{model.FactStats{Correct: 7, Total: 10}, BandFair},
		{model.FactStats{Correct: 8, Total: 10}, BandGood},
		{model.FactStats{Correct: 9, Total: 10}, BandMastered},
	}
	for _, tc := range cases {
		if got := BandFor(tc.fs); got != tc.want {
			t.Fatalf("%+v: expected %v, got %v", tc.fs, tc.want, got)
		}
	}
}

func TestSeriesGrid(t *testing.T) {
	lookup := func(key string) model.FactStats {
		if key == "7x8" {
			return model.FactStats{Correct: 1, Total: 3}
		}
		return model.FactStats{}
	}
	grid := SeriesGrid(lookup)
	if len(grid) != 11 {
		t.Fatalf("expected 11 series, got %d", len(grid))
	}
	if grid[0].Series != 2 || grid[10].Series != 12 {
		t.Fatalf("unexpected series bounds %d..%d", grid[0].Series, grid[10].Series)
	}
	row := grid[5]
	if row.Series != 7 || len(row.Cells) != 11 {
		t.Fatalf("unexpected row %+v", row)
	}
	cell := row.Cells[6]
	if cell.Key != "7x8" || cell.Band != BandDanger || cell.Label != "7 × 8" {
		t.Fatalf("unexpected cell %+v", cell)
	}
	if row.Cells[0].Band != BandUnknown {
		t.Fatalf("expected unknown band for unseen fact")
	}
}
