// Package statsui provides the Bubble Tea stats interface: an overview of
// quiz history, the multiplication grid and a per-fact table.
package statsui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/stats"
)

type tab int

const (
	tabOverview tab = iota
	tabGrid
	tabFacts
)

var tabNames = []string{"Overview", "Grid", "Facts"}

// Model implements the Bubble Tea stats UI.
type Model struct {
	quizzes stats.QuizLister
	facts   stats.FactSource
	cfg     model.StatsConfig

	report stats.Report
	errMsg string

	active tab
	pages  map[tab]*viewport.Model
	table  table.Model
	help   help.Model

	width  int
	height int

	editing bool
	form    filterForm
}

// NewModel constructs a stats UI model and loads the first report.
func NewModel(quizzes stats.QuizLister, facts stats.FactSource, cfg model.StatsConfig) *Model {
	if cfg.CurveWindow < 1 {
		cfg.CurveWindow = 1
	}
	overview := viewport.New(0, 0)
	grid := viewport.New(0, 0)
	m := &Model{
		quizzes: quizzes,
		facts:   facts,
		cfg:     cfg,
		pages:   map[tab]*viewport.Model{tabOverview: &overview, tabGrid: &grid},
		table:   newFactTable(),
		help:    help.New(),
		form:    newFilterForm(),
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderPages()
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m, m.updateForm(msg)
		}
		return m, m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Prev):
		m.switchTab(-1)
		return tea.ClearScreen
	case key.Matches(msg, keys.Next):
		m.switchTab(1)
		return tea.ClearScreen
	case key.Matches(msg, keys.Wider):
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.renderPages()
	case key.Matches(msg, keys.Narrower):
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.renderPages()
	case key.Matches(msg, keys.Refresh):
		m.reload()
	case key.Matches(msg, keys.Settings):
		m.editing = true
		m.form.load(m.cfg)
		return m.form.focusField(fieldLast)
	case key.Matches(msg, keys.Top):
		if m.active == tabFacts {
			m.table.GotoTop()
		} else {
			m.pages[m.active].GotoTop()
		}
	case key.Matches(msg, keys.Bottom):
		if m.active == tabFacts {
			m.table.GotoBottom()
		} else {
			m.pages[m.active].GotoBottom()
		}
	default:
		var cmd tea.Cmd
		if m.active == tabFacts {
			m.table, cmd = m.table.Update(msg)
		} else {
			*m.pages[m.active], cmd = m.pages[m.active].Update(msg)
		}
		return cmd
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	case key.Matches(msg, formKeys.Cancel):
		m.editing = false
		return nil
	case key.Matches(msg, formKeys.Apply):
		cfg, err := m.form.parse()
		if err != nil {
			m.form.err = err.Error()
			return nil
		}
		m.cfg = cfg
		m.editing = false
		m.reload()
		return nil
	case key.Matches(msg, formKeys.Next):
		return m.form.focusField(m.form.focus + 1)
	case key.Matches(msg, formKeys.Prev):
		return m.form.focusField(m.form.focus - 1)
	}
	return m.form.update(msg)
}

func (m *Model) switchTab(delta int) {
	n := len(tabNames)
	m.active = tab((int(m.active) + delta + n) % n)
	if m.active == tabFacts {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// reload rebuilds the report from the stores.
func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.quizzes, m.facts, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for _, p := range m.pages {
			p.SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.table.SetRows(factRows(report.Facts))
	m.renderPages()
}

func (m *Model) renderPages() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.pages[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.pages[tabGrid].SetContent(renderGrid(m.report.Grid))
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	body := m.bodyHeight()
	for _, p := range m.pages {
		p.Width = m.width
		p.Height = body
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(1, body-1))
	m.help.Width = m.width
	m.form.setWidth(m.width)
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	switch {
	case n <= 5:
		return 1
	case n%5 == 0:
		return n - 5
	default:
		return n / 5 * 5
	}
}
