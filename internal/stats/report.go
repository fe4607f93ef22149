package stats

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// QuizLister lists quiz history.
type QuizLister interface {
	ListQuizzes(ctx context.Context, last int) ([]model.QuizRecord, error)
}

// FactSource exposes current fact counters.
type FactSource interface {
	Get(key string) model.FactStats
	Snapshot() map[string]model.FactStats
}

// MostPracticedTop is how many of the most answered facts a report lists.
const MostPracticedTop = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	Quizzes []model.QuizRecord
	Facts   []FactAggregate
	Weakest []FactAggregate
	// MostPracticed holds the keys of the most answered facts.
	MostPracticed []string
	Grid          []GridRow
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, quizzes QuizLister, facts FactSource, cfg model.StatsConfig) (Report, error) {
	history, err := quizzes.ListQuizzes(ctx, cfg.Last)
	if err != nil {
		return Report{}, err
	}
	aggs := Aggregates(facts.Snapshot())
	return Report{
		Quizzes:       history,
		Facts:         aggs,
		Weakest:       WeakestFacts(aggs, cfg.WeakTop),
		MostPracticed: TopFactsByFrequency(aggs, MostPracticedTop),
		Grid:          SeriesGrid(facts.Get),
	}, nil
}

// RenderPlain writes the full report as plain text.
func RenderPlain(w io.Writer, r Report, window int) error {
	if err := RenderGrid(w, r.Grid); err != nil {
		return err
	}
	if err := RenderFactTable(w, "Weakest Facts", r.Weakest); err != nil {
		return err
	}
	if len(r.MostPracticed) > 0 {
		if _, err := fmt.Fprintf(w, "Most practised: %s\n\n", strings.Join(r.MostPracticed, ", ")); err != nil {
			return err
		}
	}
	return RenderSummary(w, r.Quizzes, window)
}
