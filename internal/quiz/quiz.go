// Package quiz drives a single drill run: it holds the question list, the
// current position and routes each answer to the stats store.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/logger"
	"github.com/verte-zerg/mathdrill/internal/model"
)

var (
	ErrNoSeries     = errors.New("quiz: no series selected")
	ErrInvalidCount = errors.New("quiz: question count must be positive")
	ErrWrongState   = errors.New("quiz: operation not valid in current state")
)

// State is the controller's position in a quiz.
type State int

const (
	Idle State = iota
	AwaitingQuestion
	Answered
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingQuestion:
		return "awaiting-question"
	case Answered:
		return "answered"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// StatsRecorder is the part of the stats store the controller needs.
type StatsRecorder interface {
	Get(key string) model.FactStats
	Update(ctx context.Context, key string, correct bool) error
}

// HistoryRecorder stores finished or abandoned quizzes.
type HistoryRecorder interface {
	InsertQuiz(ctx context.Context, rec model.QuizRecord) error
}

// Result reports the outcome of one answer.
type Result struct {
	Correct  bool
	Answer   int
	Selected int
}

// Controller is the quiz state machine.
type Controller struct {
	gen     *generator.Generator
	facts   StatsRecorder
	history HistoryRecorder
	log     *zap.Logger
	now     func() time.Time

	listeners []Listener

	state     State
	mode      model.Mode
	series    []int
	questions []model.Question
	options   []int
	index     int
	answered  int
	correct   int
	startedAt time.Time
	quizID    string
}

// Option configures a Controller.
type Option func(*Controller)

// WithHistory records each quiz when it finishes or is abandoned.
func WithHistory(h HistoryRecorder) Option {
	return func(c *Controller) { c.history = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = logger.OrNop(l) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithListener subscribes l to state-change events.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.Subscribe(l) }
}

// NewController returns an idle controller.
func NewController(gen *generator.Generator, facts StatsRecorder, opts ...Option) *Controller {
	c := &Controller{
		gen:   gen,
		facts: facts,
		log:   zap.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start builds a new question list and discards any running quiz without
// recording it. Training draws count independent questions; test draws count
// distinct facts weighted toward weak ones.
func (c *Controller) Start(ctx context.Context, mode model.Mode, series []int, settings model.Settings, count int) error {
	if len(series) == 0 {
		return ErrNoSeries
	}
	if count <= 0 {
		return ErrInvalidCount
	}

	var questions []model.Question
	switch mode {
	case model.Training:
		questions = c.gen.Training(series, settings.Types(), count)
	case model.Test:
		questions = c.gen.Select(series, settings, c.facts, count)
	default:
		return fmt.Errorf("quiz: unknown mode %v", mode)
	}

	c.mode = mode
	c.series = append([]int(nil), series...)
	c.questions = questions
	c.index = 0
	c.answered = 0
	c.correct = 0
	c.startedAt = c.now()
	c.quizID = uuid.NewString()
	c.log.Info("quiz started",
		zap.String("quiz_id", c.quizID),
		zap.Stringer("mode", mode),
		zap.Ints("series", series),
		zap.Int("requested", count),
		zap.Int("questions", len(questions)),
	)

	if len(questions) == 0 {
		c.state = Finished
		c.emit(Event{Kind: EventStarted})
		c.finish(ctx)
		return nil
	}
	c.state = AwaitingQuestion
	c.options = c.gen.Options(questions[0].Answer)
	c.emit(Event{Kind: EventStarted, Question: questions[0]})
	return nil
}

// CurrentQuestion returns the question awaiting an answer.
func (c *Controller) CurrentQuestion() (model.Question, error) {
	if c.state != AwaitingQuestion {
		return model.Question{}, ErrWrongState
	}
	return c.questions[c.index], nil
}

// Shown returns the question on screen: the current one while it awaits an
// answer and while its feedback is displayed.
func (c *Controller) Shown() (model.Question, bool) {
	if c.state != AwaitingQuestion && c.state != Answered {
		return model.Question{}, false
	}
	return c.questions[c.index], true
}

// CurrentOptions returns the answer options for the current question. They
// are drawn once per question and stay stable while it is shown or answered.
func (c *Controller) CurrentOptions() []int {
	if c.state != AwaitingQuestion && c.state != Answered {
		return nil
	}
	return append([]int(nil), c.options...)
}

// Submit checks selected against the current question and records the
// outcome. The state moves to Answered even when persisting fails; the
// returned error then wraps the store failure.
func (c *Controller) Submit(ctx context.Context, selected int) (Result, error) {
	if c.state != AwaitingQuestion {
		return Result{}, ErrWrongState
	}
	q := c.questions[c.index]
	res := Result{
		Correct:  selected == q.Answer,
		Answer:   q.Answer,
		Selected: selected,
	}
	c.answered++
	if res.Correct {
		c.correct++
	}
	c.state = Answered

	var err error
	if uerr := c.facts.Update(ctx, q.Key, res.Correct); uerr != nil {
		c.log.Error("failed to record answer", zap.String("key", q.Key), zap.Error(uerr))
		err = fmt.Errorf("failed to record answer: %w", uerr)
	}
	c.emit(Event{Kind: EventAnswered, Question: q, Result: res})
	return res, err
}

// Advance moves past an answered question. It needs no timer; the caller
// decides how long feedback stays visible.
func (c *Controller) Advance(ctx context.Context) error {
	if c.state != Answered {
		return ErrWrongState
	}
	c.index++
	if c.index >= len(c.questions) {
		c.state = Finished
		c.options = nil
		c.finish(ctx)
		return nil
	}
	c.state = AwaitingQuestion
	c.options = c.gen.Options(c.questions[c.index].Answer)
	c.emit(Event{Kind: EventAdvanced, Question: c.questions[c.index]})
	return nil
}

// Abandon drops the running quiz. Answers already given stay recorded.
func (c *Controller) Abandon(ctx context.Context) {
	if c.state != AwaitingQuestion && c.state != Answered {
		return
	}
	c.record(ctx, false)
	c.log.Info("quiz abandoned", zap.String("quiz_id", c.quizID), zap.Int("answered", c.answered))
	c.reset()
	c.emit(Event{Kind: EventAbandoned})
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the mode of the current quiz.
func (c *Controller) Mode() model.Mode {
	return c.mode
}

// Len returns the number of questions in the current quiz.
func (c *Controller) Len() int {
	return len(c.questions)
}

// Index returns the zero-based position of the current question.
func (c *Controller) Index() int {
	return c.index
}

// Progress returns index/len in [0,1]; an empty quiz counts as complete.
func (c *Controller) Progress() float64 {
	if len(c.questions) == 0 {
		if c.state == Finished {
			return 1
		}
		return 0
	}
	return float64(c.index) / float64(len(c.questions))
}

// Counter renders "current / total" with a one-based current position.
func (c *Controller) Counter() string {
	n := len(c.questions)
	pos := c.index + 1
	if pos > n {
		pos = n
	}
	return fmt.Sprintf("%d / %d", pos, n)
}

// Score returns correct answers and answers given so far.
func (c *Controller) Score() (correct, answered int) {
	return c.correct, c.answered
}

func (c *Controller) finish(ctx context.Context) {
	c.record(ctx, true)
	c.log.Info("quiz finished",
		zap.String("quiz_id", c.quizID),
		zap.Int("correct", c.correct),
		zap.Int("answered", c.answered),
	)
	c.emit(Event{Kind: EventFinished})
}

func (c *Controller) record(ctx context.Context, completed bool) {
	if c.history == nil {
		return
	}
	rec := model.QuizRecord{
		ID:        c.quizID,
		StartedAt: c.startedAt,
		EndedAt:   c.now(),
		Mode:      c.mode,
		Series:    c.series,
		Questions: len(c.questions),
		Answered:  c.answered,
		Correct:   c.correct,
		Completed: completed,
	}
	if err := c.history.InsertQuiz(ctx, rec); err != nil {
		c.log.Warn("failed to save quiz history", zap.String("quiz_id", c.quizID), zap.Error(err))
	}
}

func (c *Controller) reset() {
	c.state = Idle
	c.series = nil
	c.questions = nil
	c.options = nil
	c.index = 0
	c.answered = 0
	c.correct = 0
	c.quizID = ""
}
