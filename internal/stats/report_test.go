package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/facts"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "mathdrill.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	fs, err := facts.Open(ctx, st, nil)
	if err != nil {
		t.Fatalf("open facts: %v", err)
	}
	for _, u := range []struct {
		key string
		ok  bool
	}{
		{"7x8", false}, {"7x8", true}, {"3x3", true}, {"56/7", false},
	} {
		if err := fs.Update(ctx, u.key, u.ok); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	for i, id := range []string{"q1", "q2", "q3"} {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		rec := model.QuizRecord{
			ID:        id,
			StartedAt: start,
			EndedAt:   start.Add(30 * time.Second),
			Mode:      model.Training,
			Series:    []int{7},
			Questions: 10,
			Answered:  10,
			Correct:   5 + i,
			Completed: true,
		}
		if err := st.InsertQuiz(ctx, rec); err != nil {
			t.Fatalf("insert quiz: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, fs, model.StatsConfig{Last: 2, WeakTop: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Quizzes) != 2 || report.Quizzes[0].ID != "q2" {
		t.Fatalf("unexpected quizzes: %+v", report.Quizzes)
	}
	if len(report.Facts) != 3 {
		t.Fatalf("expected 3 facts, got %d", len(report.Facts))
	}
	if len(report.Weakest) != 1 || report.Weakest[0].Key != "56/7" {
		t.Fatalf("unexpected weakest: %+v", report.Weakest)
	}
	if len(report.MostPracticed) != 3 || report.MostPracticed[0] != "7x8" {
		t.Fatalf("unexpected most practised: %v", report.MostPracticed)
	}
	if len(report.Grid) != 11 {
		t.Fatalf("expected grid rows, got %d", len(report.Grid))
	}

	var buf bytes.Buffer
	if err := RenderPlain(&buf, report, 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Multiplication Overview", "Weakest Facts", "56/7", "Most practised: 7x8, 3x3, 56/7", "Quizzes: 2 (2 completed)", "Accuracy: 65.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.QuizRecord{
		{Answered: 10, Correct: 9, Completed: true},
		{Answered: 4, Correct: 4, Completed: false},
		{Answered: 10, Correct: 5, Completed: true},
	})
	if s.Quizzes != 3 || s.Completed != 2 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.Best != 0.9 {
		t.Fatalf("expected best 0.9, got %v", s.Best)
	}
	if s.Accuracy() != 18.0/24.0 {
		t.Fatalf("unexpected accuracy %v", s.Accuracy())
	}
}

func TestSparklineAndMovingAverage(t *testing.T) {
	if got := Sparkline([]float64{0, 100}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{5, 5, 5}); len(got) != 3 {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	avg := MovingAverage([]float64{2, 4, 6}, 2)
	if avg[0] != 2 || avg[1] != 3 || avg[2] != 5 {
		t.Fatalf("unexpected moving average %v", avg)
	}
}
