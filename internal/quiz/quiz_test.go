package quiz

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/model"
)

type memFacts struct {
	stats map[string]model.FactStats
	err   error
}

func newMemFacts() *memFacts {
	return &memFacts{stats: map[string]model.FactStats{}}
}

func (m *memFacts) Get(key string) model.FactStats {
	return m.stats[key]
}

func (m *memFacts) Update(_ context.Context, key string, correct bool) error {
	fs := m.stats[key]
	fs.Total++
	if correct {
		fs.Correct++
	}
	m.stats[key] = fs
	return m.err
}

type memHistory struct {
	records []model.QuizRecord
}

func (m *memHistory) InsertQuiz(_ context.Context, rec model.QuizRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func newTestController(t *testing.T, opts ...Option) (*Controller, *memFacts) {
	t.Helper()
	facts := newMemFacts()
	gen := generator.NewWithSource(rand.NewSource(42))
	clock := time.Unix(1000, 0)
	opts = append([]Option{WithClock(func() time.Time { return clock })}, opts...)
	return NewController(gen, facts, opts...), facts
}

func TestStartWithoutSeries(t *testing.T) {
	c, _ := newTestController(t)
	err := c.Start(context.Background(), model.Test, nil, model.DefaultSettings(), 10)
	if !errors.Is(err, ErrNoSeries) {
		t.Fatalf("expected ErrNoSeries, got %v", err)
	}
	if c.State() != Idle {
		t.Fatalf("expected idle state, got %v", c.State())
	}
	if err := c.Start(context.Background(), model.Test, []int{3}, model.DefaultSettings(), 0); !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestTestModeMultiplicationOnly(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	if err := c.Start(ctx, model.Test, []int{7}, model.Settings{}, 5); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Len() != 5 {
		t.Fatalf("expected 5 questions, got %d", c.Len())
	}
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		q, err := c.CurrentQuestion()
		if err != nil {
			t.Fatalf("current question: %v", err)
		}
		if seen[q.Key] {
			t.Fatalf("duplicate key %q", q.Key)
		}
		seen[q.Key] = true
		if q.Type != model.Multiplication || q.Series != 7 || !strings.HasPrefix(q.Key, "7x") {
			t.Fatalf("unexpected question %+v", q)
		}
		if _, err := c.Submit(ctx, q.Answer); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := c.Advance(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if c.State() != Finished {
		t.Fatalf("expected finished, got %v", c.State())
	}
}

func TestTestModeReturnsWholeUniverseWhenCountTooLarge(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Start(context.Background(), model.Test, []int{2}, model.Settings{EnableDivision: true}, 50); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Len() != 24 {
		t.Fatalf("expected 24 questions, got %d", c.Len())
	}
}

func TestTrainingModeUsesEnabledTypes(t *testing.T) {
	c, _ := newTestController(t)
	if err := c.Start(context.Background(), model.Training, []int{4}, model.Settings{EnableSqrt: true}, 20); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Len() != 20 {
		t.Fatalf("expected 20 questions, got %d", c.Len())
	}
	for _, q := range c.questions {
		if q.Type == model.Division {
			t.Fatalf("division was not enabled: %+v", q)
		}
		if q.Type == model.Multiplication && q.Series != 4 {
			t.Fatalf("unexpected series: %+v", q)
		}
	}
}

func TestSubmitUpdatesStats(t *testing.T) {
	c, facts := newTestController(t)
	ctx := context.Background()
	if err := c.Start(ctx, model.Test, []int{9}, model.Settings{}, 2); err != nil {
		t.Fatalf("start: %v", err)
	}

	q, _ := c.CurrentQuestion()
	res, err := c.Submit(ctx, q.Answer)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Correct || res.Answer != q.Answer {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := facts.stats[q.Key]; got.Correct != 1 || got.Total != 1 {
		t.Fatalf("expected 1/1, got %+v", got)
	}

	if err := c.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	q, _ = c.CurrentQuestion()
	res, err = c.Submit(ctx, q.Answer+1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Correct {
		t.Fatalf("expected wrong answer")
	}
	if got := facts.stats[q.Key]; got.Correct != 0 || got.Total != 1 {
		t.Fatalf("expected 0/1, got %+v", got)
	}
	if correct, answered := c.Score(); correct != 1 || answered != 2 {
		t.Fatalf("unexpected score %d/%d", correct, answered)
	}
}

func TestWrongStateErrors(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	if _, err := c.CurrentQuestion(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState before start, got %v", err)
	}
	if err := c.Start(ctx, model.Test, []int{3}, model.Settings{}, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.Advance(ctx); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState for advance before answer, got %v", err)
	}
	q, _ := c.CurrentQuestion()
	if _, err := c.Submit(ctx, q.Answer); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.Submit(ctx, q.Answer); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState for double submit, got %v", err)
	}
	if _, err := c.CurrentQuestion(); !errors.Is(err, ErrWrongState) {
		t.Fatalf("expected ErrWrongState while answered, got %v", err)
	}
}

func TestProgressCounterAndHistory(t *testing.T) {
	history := &memHistory{}
	c, _ := newTestController(t, WithHistory(history))
	ctx := context.Background()
	if err := c.Start(ctx, model.Test, []int{6}, model.Settings{}, 4); err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Progress() != 0 || c.Counter() != "1 / 4" {
		t.Fatalf("unexpected progress %v counter %q", c.Progress(), c.Counter())
	}
	for i := 0; i < 4; i++ {
		q, _ := c.CurrentQuestion()
		answer := q.Answer
		if i == 0 {
			answer++
		}
		if _, err := c.Submit(ctx, answer); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := c.Advance(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if c.Progress() != 1 || c.Counter() != "4 / 4" {
		t.Fatalf("unexpected progress %v counter %q", c.Progress(), c.Counter())
	}
	if len(history.records) != 1 {
		t.Fatalf("expected one history record, got %d", len(history.records))
	}
	rec := history.records[0]
	if !rec.Completed || rec.Answered != 4 || rec.Correct != 3 || rec.Mode != model.Test || rec.ID == "" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestAbandonKeepsRecordedAnswers(t *testing.T) {
	history := &memHistory{}
	c, facts := newTestController(t, WithHistory(history))
	ctx := context.Background()
	if err := c.Start(ctx, model.Training, []int{8}, model.Settings{}, 10); err != nil {
		t.Fatalf("start: %v", err)
	}
	q, _ := c.CurrentQuestion()
	if _, err := c.Submit(ctx, q.Answer); err != nil {
		t.Fatalf("submit: %v", err)
	}
	c.Abandon(ctx)
	if c.State() != Idle {
		t.Fatalf("expected idle after abandon, got %v", c.State())
	}
	if facts.stats[q.Key].Total != 1 {
		t.Fatalf("expected recorded answer to remain")
	}
	if len(history.records) != 1 || history.records[0].Completed {
		t.Fatalf("expected one abandoned record, got %+v", history.records)
	}
	c.Abandon(ctx)
	if len(history.records) != 1 {
		t.Fatalf("abandon on idle controller must be a no-op")
	}
}

func TestSubmitPersistFailureStillAnswers(t *testing.T) {
	c, facts := newTestController(t)
	ctx := context.Background()
	if err := c.Start(ctx, model.Test, []int{5}, model.Settings{}, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	boom := errors.New("disk full")
	facts.err = boom
	q, _ := c.CurrentQuestion()
	res, err := c.Submit(ctx, q.Answer)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if !res.Correct || c.State() != Answered {
		t.Fatalf("expected answered state, got %v (%+v)", c.State(), res)
	}
}

func TestOptionsStableAndContainAnswer(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	if err := c.Start(ctx, model.Test, []int{11}, model.Settings{}, 3); err != nil {
		t.Fatalf("start: %v", err)
	}
	q, _ := c.CurrentQuestion()
	first := c.CurrentOptions()
	second := c.CurrentOptions()
	if len(first) != len(second) {
		t.Fatalf("options changed between calls")
	}
	found := false
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("options changed between calls")
		}
		if first[i] == q.Answer {
			found = true
		}
	}
	if !found {
		t.Fatalf("answer %d missing from %v", q.Answer, first)
	}
}

func TestListenerReceivesEvents(t *testing.T) {
	var kinds []EventKind
	c, _ := newTestController(t, WithListener(func(ev Event) { kinds = append(kinds, ev.Kind) }))
	ctx := context.Background()
	if err := c.Start(ctx, model.Test, []int{3}, model.Settings{}, 2); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 2; i++ {
		q, _ := c.CurrentQuestion()
		if _, err := c.Submit(ctx, q.Answer); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if err := c.Advance(ctx); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	want := []EventKind{EventStarted, EventAnswered, EventAdvanced, EventAnswered, EventFinished}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, kinds)
		}
	}
}

func TestTestModePrefersUnseenFacts(t *testing.T) {
	c, facts := newTestController(t)
	for i := 1; i <= 12; i++ {
		if i == 5 {
			continue
		}
		facts.stats[generator.MultiplicationQuestion(3, i).Key] = model.FactStats{Correct: 20, Total: 20}
	}
	unseenFirst := 0
	for i := 0; i < 200; i++ {
		if err := c.Start(context.Background(), model.Test, []int{3}, model.Settings{}, 1); err != nil {
			t.Fatalf("start: %v", err)
		}
		q, _ := c.CurrentQuestion()
		if q.Key == "3x5" {
			unseenFirst++
		}
	}
	// Weight 10 against eleven facts of weight 1.
	if unseenFirst < 70 {
		t.Fatalf("expected unseen fact to be favoured, got %d/200", unseenFirst)
	}
}

func TestShownSurvivesSubmit(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	if _, ok := c.Shown(); ok {
		t.Fatalf("idle controller must not show a question")
	}
	if err := c.Start(ctx, model.Training, []int{6}, model.Settings{}, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	q, _ := c.CurrentQuestion()
	if _, err := c.Submit(ctx, q.Answer); err != nil {
		t.Fatalf("submit: %v", err)
	}
	shown, ok := c.Shown()
	if !ok || shown != q {
		t.Fatalf("expected %+v shown during feedback, got %+v (%v)", q, shown, ok)
	}
	if err := c.Advance(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, ok := c.Shown(); ok {
		t.Fatalf("finished quiz must not show a question")
	}
}
