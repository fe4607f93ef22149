package stats

import (
	"fmt"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// Grid bounds for the per-series overview.
const (
	GridFirstSeries  = 2
	GridLastSeries   = 12
	GridFirstOperand = 2
	GridLastOperand  = 12
)

// Band classifies a fact for display.
type Band int

const (
	BandUnknown Band = iota
	BandDanger
	BandWeak
	BandFair
	BandGood
	BandMastered
)

func (b Band) String() string {
	switch b {
	case BandUnknown:
		return "unknown"
	case BandDanger:
		return "danger"
	case BandWeak:
		return "weak"
	case BandFair:
		return "fair"
	case BandGood:
		return "good"
	case BandMastered:
		return "mastered"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// BandFor maps a success rate to its display band. The thresholds are finer
// than the Leitner boxes.
func BandFor(fs model.FactStats) Band {
	rate, ok := fs.Rate()
	switch {
	case !ok:
		return BandUnknown
	case rate < 0.5:
		return BandDanger
	case rate < 0.65:
		return BandWeak
	case rate < 0.8:
		return BandFair
	case rate < 0.9:
		return BandGood
	default:
		return BandMastered
	}
}

// Cell is one multiplication fact in the grid.
type Cell struct {
	Key     string
	Label   string
	Series  int
	Operand int
	Stats   model.FactStats
	Band    Band
}

// GridRow holds the cells of one series.
type GridRow struct {
	Series int
	Cells  []Cell
}

// SeriesGrid builds the multiplication overview for series 2..12 and
// operands 2..12.
func SeriesGrid(lookup func(key string) model.FactStats) []GridRow {
	rows := make([]GridRow, 0, GridLastSeries-GridFirstSeries+1)
	for series := GridFirstSeries; series <= GridLastSeries; series++ {
		row := GridRow{Series: series}
		for op := GridFirstOperand; op <= GridLastOperand; op++ {
			key := fmt.Sprintf("%dx%d", series, op)
			fs := lookup(key)
			row.Cells = append(row.Cells, Cell{
				Key:     key,
				Label:   fmt.Sprintf("%d × %d", series, op),
				Series:  series,
				Operand: op,
				Stats:   fs,
				Band:    BandFor(fs),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// BandSymbol is the plain-text marker for a band.
func BandSymbol(b Band) string {
	switch b {
	case BandUnknown:
		return "?"
	case BandDanger:
		return "!"
	case BandWeak:
		return "-"
	case BandFair:
		return "~"
	case BandGood:
		return "+"
	default:
		return "*"
	}
}
