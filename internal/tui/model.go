// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/mathdrill/internal/facts"
	"github.com/verte-zerg/mathdrill/internal/logger"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/quiz"
	"github.com/verte-zerg/mathdrill/internal/settings"
	statsPkg "github.com/verte-zerg/mathdrill/internal/stats"
)

// QuestionCounts are the test lengths offered in the menu.
var QuestionCounts = []int{10, 20, 30, 50}

const (
	firstSeries = 2
	lastSeries  = 12
)

type screen int

const (
	screenMenu screen = iota
	screenQuiz
	screenDone
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmAbandon
	confirmReset
)

// feedbackDoneMsg ends the feedback pause after an answer. seq ties it to
// the quiz that scheduled it so a stale tick after leaving is ignored.
type feedbackDoneMsg struct{ seq int }

// finishDoneMsg ends the pause before the completion message.
type finishDoneMsg struct{ seq int }

// Model implements the Bubble Tea drill UI.
type Model struct {
	config   model.Config
	facts    *facts.Store
	settings *settings.Store
	ctrl     *quiz.Controller
	log      *zap.Logger

	width  int
	height int

	screen  screen
	mode    model.Mode
	cursor  int
	chosen  map[int]bool
	count   int
	confirm confirmAction
	notice  string
	errMsg  string

	option   int
	result   *quiz.Result
	finished bool
	seq      int

	progress progress.Model
	help     help.Model
}

// NewModel constructs a drill TUI model.
func NewModel(cfg model.Config, fs *facts.Store, ss *settings.Store, ctrl *quiz.Controller, log *zap.Logger) *Model {
	count := cfg.Count
	if count <= 0 {
		count = QuestionCounts[0]
	}
	return &Model{
		config:   cfg,
		facts:    fs,
		settings: ss,
		ctrl:     ctrl,
		log:      logger.OrNop(log),
		chosen:   map[int]bool{},
		count:    count,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clamp(msg.Width/2, 10, 60)
		m.help.Width = msg.Width
		return m, nil
	case feedbackDoneMsg:
		if msg.seq != m.seq || m.screen != screenQuiz {
			return m, nil
		}
		return m, m.advance()
	case finishDoneMsg:
		if msg.seq != m.seq || m.screen != screenQuiz {
			return m, nil
		}
		m.screen = screenDone
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.ctrl.Abandon(context.Background())
			return m, tea.Quit
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenQuiz:
			return m.updateQuiz(msg)
		case screenDone:
			m.screen = screenMenu
			m.notice = ""
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := defaultMenuKeys
	m.errMsg = ""
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Mode):
		if m.mode == model.Training {
			m.mode = model.Test
		} else {
			m.mode = model.Training
		}
	case key.Matches(msg, k.Left):
		m.cursor = (m.cursor + seriesCount() - 1) % seriesCount()
	case key.Matches(msg, k.Right):
		m.cursor = (m.cursor + 1) % seriesCount()
	case key.Matches(msg, k.Toggle):
		if m.mode == model.Test {
			n := firstSeries + m.cursor
			m.chosen[n] = !m.chosen[n]
		}
	case key.Matches(msg, k.Count):
		m.count = nextCount(m.count)
	case key.Matches(msg, k.Division):
		m.toggleSetting(settings.Division, !m.settings.Get().EnableDivision)
	case key.Matches(msg, k.Sqrt):
		m.toggleSetting(settings.Sqrt, !m.settings.Get().EnableSqrt)
	case key.Matches(msg, k.Reset):
		m.confirm = confirmReset
	case key.Matches(msg, k.Start):
		return m, m.startQuiz()
	}
	return m, nil
}

func (m *Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := defaultQuizKeys
	if key.Matches(msg, k.Back) {
		m.confirm = confirmAbandon
		return m, nil
	}
	if m.ctrl.State() != quiz.AwaitingQuestion {
		return m, nil
	}
	options := m.ctrl.CurrentOptions()
	if len(options) == 0 {
		return m, nil
	}
	switch {
	case key.Matches(msg, k.Left):
		m.option = (m.option + len(options) - 1) % len(options)
	case key.Matches(msg, k.Right):
		m.option = (m.option + 1) % len(options)
	case key.Matches(msg, k.Pick):
		idx := int(msg.Runes[0] - '1')
		if idx < len(options) {
			m.option = idx
			return m, m.submit(options[idx])
		}
	case key.Matches(msg, k.Submit):
		return m, m.submit(options[m.option])
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := defaultConfirmKeys
	switch {
	case key.Matches(msg, k.Yes):
		action := m.confirm
		m.confirm = confirmNone
		switch action {
		case confirmAbandon:
			m.leaveQuiz()
		case confirmReset:
			if err := m.facts.Reset(context.Background()); err != nil {
				m.errMsg = fmt.Sprintf("failed to reset stats: %v", err)
				return m, nil
			}
			m.notice = "Statistics reset."
		}
	case key.Matches(msg, k.No):
		m.confirm = confirmNone
	}
	return m, nil
}

func (m *Model) startQuiz() tea.Cmd {
	series := m.selectedSeries()
	err := m.ctrl.Start(context.Background(), m.mode, series, m.settings.Get(), m.count)
	if errors.Is(err, quiz.ErrNoSeries) {
		m.errMsg = "Select at least one series."
		return nil
	}
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.seq++
	m.screen = screenQuiz
	m.option = 0
	m.result = nil
	m.finished = false
	m.notice = ""
	if m.ctrl.State() == quiz.Finished {
		return m.scheduleFinish()
	}
	return nil
}

func (m *Model) submit(selected int) tea.Cmd {
	res, err := m.ctrl.Submit(context.Background(), selected)
	if errors.Is(err, quiz.ErrWrongState) {
		return nil
	}
	if err != nil {
		m.errMsg = err.Error()
	}
	m.result = &res
	seq := m.seq
	return tea.Tick(m.config.FeedbackDelay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (m *Model) advance() tea.Cmd {
	if err := m.ctrl.Advance(context.Background()); err != nil {
		m.log.Warn("advance rejected", zap.Error(err))
		return nil
	}
	m.result = nil
	m.option = 0
	if m.ctrl.State() == quiz.Finished {
		return m.scheduleFinish()
	}
	return nil
}

func (m *Model) scheduleFinish() tea.Cmd {
	m.finished = true
	seq := m.seq
	return tea.Tick(m.config.FinishDelay, func(time.Time) tea.Msg {
		return finishDoneMsg{seq: seq}
	})
}

func (m *Model) leaveQuiz() {
	m.ctrl.Abandon(context.Background())
	m.seq++
	m.screen = screenMenu
	m.result = nil
	m.finished = false
}

func (m *Model) toggleSetting(flag settings.Flag, value bool) {
	if err := m.settings.Set(context.Background(), flag, value); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) selectedSeries() []int {
	if m.mode == model.Training {
		return []int{firstSeries + m.cursor}
	}
	var out []int
	for n := firstSeries; n <= lastSeries; n++ {
		if m.chosen[n] {
			out = append(out, n)
		}
	}
	return out
}

func seriesCount() int {
	return lastSeries - firstSeries + 1
}

func nextCount(current int) int {
	for i, c := range QuestionCounts {
		if c == current {
			return QuestionCounts[(i+1)%len(QuestionCounts)]
		}
	}
	return QuestionCounts[0]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func factStatsLabel(fs model.FactStats) string {
	if _, ok := fs.Rate(); !ok {
		return "new fact"
	}
	return fmt.Sprintf("%d/%d correct · box %d", fs.Correct, fs.Total, statsPkg.LeitnerBox(fs))
}
