package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/mathdrill/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true).Padding(1, 0)
	optionStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B0B0B0")).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	selectedOptionStyle = optionStyle.Copy().
				Foreground(lipgloss.Color("#F0F0F0")).
				BorderForeground(lipgloss.Color("#C89A3A"))
	correctOptionStyle = optionStyle.Copy().
				Foreground(lipgloss.Color("#52C41A")).
				BorderForeground(lipgloss.Color("#52C41A"))
	incorrectOptionStyle = optionStyle.Copy().
				Foreground(lipgloss.Color("#FF4D4F")).
				BorderForeground(lipgloss.Color("#FF4D4F"))
	seriesStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	seriesCursorStyle = seriesStyle.Copy().Foreground(lipgloss.Color("#F0F0F0")).Underline(true)
	seriesChosenStyle = seriesStyle.Copy().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	modalStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	var body, helpView string
	switch {
	case m.confirm != confirmNone:
		body = modalStyle.Render(m.confirmText())
		helpView = m.help.View(defaultConfirmKeys)
	case m.screen == screenQuiz:
		body = m.renderQuiz()
		helpView = m.help.View(defaultQuizKeys)
	case m.screen == screenDone:
		body = m.renderDone()
	default:
		body = m.renderMenu()
		helpView = m.help.View(defaultMenuKeys)
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return strings.Join(nonEmpty(body, footer, helpView), "\n\n")
	}
	bottom := strings.Join(nonEmpty(footer, helpView), "\n")
	bodyHeight := m.height - lipgloss.Height(bottom)
	if bodyHeight < 1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	return placed + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, bottom)
}

func (m *Model) renderMenu() string {
	lines := []string{titleStyle.Render(modeTitle(m.mode)), ""}
	if m.mode == model.Training {
		lines = append(lines, "Pick a series and press enter:")
	} else {
		lines = append(lines, "Select series with space, then press enter:")
	}
	lines = append(lines, m.renderSeriesRow(), "")

	s := m.settings.Get()
	lines = append(lines,
		fmt.Sprintf("Questions: %d", m.count),
		fmt.Sprintf("%s Division   %s Square roots", checkbox(s.EnableDivision), checkbox(s.EnableSqrt)),
	)
	if m.errMsg != "" {
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderSeriesRow() string {
	cells := make([]string, 0, seriesCount())
	for i := 0; i < seriesCount(); i++ {
		n := firstSeries + i
		style := seriesStyle
		if m.mode == model.Test && m.chosen[n] {
			style = seriesChosenStyle
		}
		if i == m.cursor {
			style = style.Copy().Underline(true)
			if !(m.mode == model.Test && m.chosen[n]) {
				style = seriesCursorStyle
			}
		}
		cells = append(cells, style.Render(strconv.Itoa(n)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *Model) renderQuiz() string {
	title := titleStyle.Render(modeTitle(m.ctrl.Mode()))
	counter := footerStyle.Render(m.ctrl.Counter())
	bar := m.progress.ViewAs(m.ctrl.Progress())
	if m.finished {
		return lipgloss.JoinVertical(lipgloss.Center, title, bar, "", correctStyle.Render("Done!"))
	}

	q, ok := m.ctrl.Shown()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Center, title, bar)
	}
	lines := []string{
		title,
		counter,
		bar,
		questionStyle.Render(q.Text),
		m.renderOptions(q),
	}
	if m.result != nil {
		if m.result.Correct {
			lines = append(lines, correctStyle.Render("Correct!"))
		} else {
			lines = append(lines, incorrectStyle.Render(fmt.Sprintf("Not quite. %s %d", strings.TrimSuffix(q.Text, "?"), m.result.Answer)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderOptions(q model.Question) string {
	options := m.ctrl.CurrentOptions()
	labels := make([]string, len(options))
	width := 0
	for i, o := range options {
		labels[i] = strconv.Itoa(o)
		if w := runewidth.StringWidth(labels[i]); w > width {
			width = w
		}
	}
	cells := make([]string, len(options))
	for i, o := range options {
		style := optionStyle
		switch {
		case m.result != nil && o == q.Answer:
			style = correctOptionStyle
		case m.result != nil && o == m.result.Selected:
			style = incorrectOptionStyle
		case m.result == nil && i == m.option:
			style = selectedOptionStyle
		}
		cells[i] = style.Render(" " + runewidth.FillLeft(labels[i], width) + " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *Model) renderDone() string {
	correct, answered := m.ctrl.Score()
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Quiz complete! Well done."),
		"",
		fmt.Sprintf("%d of %d correct", correct, answered),
		"",
		footerStyle.Render("Press any key to continue."),
	)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.screen == screenQuiz {
		correct, answered := m.ctrl.Score()
		segments = append(segments, fmt.Sprintf("Progress %d%%", int(m.ctrl.Progress()*100)))
		segments = append(segments, fmt.Sprintf("Score %d/%d", correct, answered))
		if q, ok := m.ctrl.Shown(); ok {
			segments = append(segments, factStatsLabel(m.facts.Get(q.Key)))
		}
	} else {
		segments = append(segments, fmt.Sprintf("%d facts practised", m.facts.Len()))
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.errMsg != "" && m.screen != screenMenu {
		footer += "  " + errorStyle.Render(m.errMsg)
	}
	return footer
}

func (m *Model) confirmText() string {
	switch m.confirm {
	case confirmAbandon:
		return "Leave the quiz? Answers given so far are kept. (y/n)"
	case confirmReset:
		return "Reset all statistics? (y/n)"
	default:
		return ""
	}
}

func modeTitle(mode model.Mode) string {
	if mode == model.Test {
		return "Test"
	}
	return "Training"
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
