package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/stats"
)

const recentQuizzes = 10

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0B0B0")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	activeTabStyle = tabStyle.Copy().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	gridCellStyle  = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
)

var bandColors = map[stats.Band]lipgloss.Color{
	stats.BandUnknown:  lipgloss.Color("#6E6E6E"),
	stats.BandDanger:   lipgloss.Color("#FF4D4F"),
	stats.BandWeak:     lipgloss.Color("#FA8C16"),
	stats.BandFair:     lipgloss.Color("#C89A3A"),
	stats.BandGood:     lipgloss.Color("#95DE64"),
	stats.BandMastered: lipgloss.Color("#52C41A"),
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	body := fit(m.renderBody(), m.width, m.bodyHeight())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) headerHeight() int {
	return lipgloss.Height(activeTabStyle.Render("X")) + 1
}

func (m *Model) footerHeight() int {
	if !m.editing && m.errMsg != "" {
		return 2
	}
	return 1
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-m.headerHeight()-m.footerHeight())
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.active {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	line := fmt.Sprintf("Options: last=%s  window=%d  weakest=%d", last, m.cfg.CurveWindow, m.cfg.WeakTop)
	line = runewidth.Truncate(line, m.width, "...")
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + mutedStyle.Render(line)
}

func (m *Model) renderFooter() string {
	if m.editing {
		return m.help.View(formKeys)
	}
	help := m.help.View(keys)
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	switch {
	case m.editing:
		return m.form.view()
	case m.active == tabFacts && len(m.report.Facts) == 0:
		return "No fact stats found."
	case m.active == tabFacts:
		return tableTextStyle.Render(m.table.View())
	default:
		return m.pages[m.active].View()
	}
}

// fit pads or cuts s to exactly width x height cells.
func fit(s string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(s)
}

func renderOverview(r stats.Report, window, width int) string {
	if len(r.Quizzes) == 0 {
		return "No quizzes found."
	}
	s := stats.Summarize(r.Quizzes)
	cards := []string{
		card("Quizzes", strconv.Itoa(s.Quizzes)),
		card("Completed", strconv.Itoa(s.Completed)),
		card("Answered", strconv.Itoa(s.Answered)),
		card("Accuracy", percent(s.Accuracy())),
		card("Best", percent(s.Best)),
	}
	sections := []string{}
	if width < 80 {
		sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, cards...))
	} else {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	if curve := stats.AccuracyCurve(r.Quizzes, window); len(curve) > 1 {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("Accuracy trend (window %d)", window))+"\n"+stats.Sparkline(curve))
	}

	recent := []string{mutedStyle.Render("Recent quizzes")}
	for i := len(r.Quizzes) - 1; i >= 0 && i >= len(r.Quizzes)-recentQuizzes; i-- {
		recent = append(recent, quizLine(r.Quizzes[i]))
	}
	sections = append(sections, strings.Join(recent, "\n"))

	if len(r.Weakest) > 0 {
		names := make([]string, len(r.Weakest))
		for i, agg := range r.Weakest {
			names[i] = agg.Key
		}
		sections = append(sections, mutedStyle.Render("Weakest: ")+strings.Join(names, ", "))
	}
	if len(r.MostPracticed) > 0 {
		sections = append(sections, mutedStyle.Render("Most practised: ")+strings.Join(r.MostPracticed, ", "))
	}
	return strings.Join(sections, "\n\n")
}

func quizLine(q model.QuizRecord) string {
	status := "done"
	if !q.Completed {
		status = "left"
	}
	series := make([]string, len(q.Series))
	for i, s := range q.Series {
		series[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("%s  %-8s %2d/%-2d  %6s  %s  [%s]",
		q.EndedAt.Local().Format("2006-01-02 15:04"),
		q.Mode,
		q.Correct,
		q.Questions,
		percent(q.Accuracy()),
		status,
		strings.Join(series, " "),
	)
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func renderGrid(grid []stats.GridRow) string {
	header := []string{gridCellStyle.Render("")}
	for op := stats.GridFirstOperand; op <= stats.GridLastOperand; op++ {
		header = append(header, gridCellStyle.Render("×"+strconv.Itoa(op)))
	}
	lines := []string{mutedStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...))}
	for _, row := range grid {
		cells := []string{mutedStyle.Render(gridCellStyle.Render(strconv.Itoa(row.Series)))}
		for _, c := range row.Cells {
			cells = append(cells, gridCellStyle.Foreground(bandColors[c.Band]).Render(cellLabel(c)))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	legend := make([]string, 0, len(bandColors))
	for b := stats.BandUnknown; b <= stats.BandMastered; b++ {
		legend = append(legend, lipgloss.NewStyle().Foreground(bandColors[b]).Render(b.String()))
	}
	return strings.Join(lines, "\n") + "\n\n" + strings.Join(legend, "  ")
}

// cellLabel shows the rounded success rate, or the band symbol when unseen.
func cellLabel(c stats.Cell) string {
	rate, ok := c.Stats.Rate()
	if !ok {
		return stats.BandSymbol(c.Band)
	}
	return strconv.Itoa(int(rate*100 + 0.5))
}

func newFactTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Fact", Width: 8},
			{Title: "Accuracy", Width: 9},
			{Title: "Correct", Width: 7},
			{Title: "Total", Width: 6},
			{Title: "Box", Width: 4},
			{Title: "Weight", Width: 6},
		}),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1, 0, 0)
	styles.Cell = styles.Cell.Padding(0, 1, 0, 0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

// factRows lists attempted facts, weakest first.
func factRows(aggs []stats.FactAggregate) []table.Row {
	sorted := stats.WeakestFacts(aggs, 0)
	rows := make([]table.Row, len(sorted))
	for i, agg := range sorted {
		rows[i] = table.Row(stats.FactRow(agg))
	}
	return rows
}
