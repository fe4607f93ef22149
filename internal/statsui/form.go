package statsui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/mathdrill/internal/model"
)

const (
	fieldLast = iota
	fieldWindow
	fieldWeakTop
)

var errNegative = errors.New("negative value")

// filterForm edits the report options in place.
type filterForm struct {
	fields []textinput.Model
	focus  int
	err    string
}

func newFilterForm() filterForm {
	prompts := []string{"Last quizzes: ", "Curve window: ", "Weakest shown: "}
	f := filterForm{fields: make([]textinput.Model, len(prompts))}
	for i, p := range prompts {
		in := textinput.New()
		in.Prompt = p
		in.CharLimit = 6
		in.Cursor.SetMode(cursor.CursorBlink)
		f.fields[i] = in
	}
	return f
}

// load copies cfg into the inputs; zero Last shows as empty.
func (f *filterForm) load(cfg model.StatsConfig) {
	last := ""
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.fields[fieldLast].SetValue(last)
	f.fields[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	f.fields[fieldWeakTop].SetValue(strconv.Itoa(cfg.WeakTop))
	f.err = ""
}

func (f *filterForm) setWidth(width int) {
	for i := range f.fields {
		w := width - len(f.fields[i].Prompt) - 2
		if w < 10 {
			w = 10
		}
		f.fields[i].Width = w
	}
}

func (f *filterForm) focusField(idx int) tea.Cmd {
	n := len(f.fields)
	f.focus = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range f.fields {
		if i == f.focus {
			cmd = f.fields[i].Focus()
			continue
		}
		f.fields[i].Blur()
	}
	return cmd
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

// parse validates the inputs. An empty window falls back to 1.
func (f *filterForm) parse() (model.StatsConfig, error) {
	last, err := fieldInt(f.fields[fieldLast].Value(), 0)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("invalid last value (use 0 or positive integer)")
	}
	window, err := fieldInt(f.fields[fieldWindow].Value(), 1)
	if err != nil || window < 1 {
		return model.StatsConfig{}, fmt.Errorf("invalid curve window (use integer >= 1)")
	}
	weak, err := fieldInt(f.fields[fieldWeakTop].Value(), 0)
	if err != nil {
		return model.StatsConfig{}, fmt.Errorf("invalid weakest count (use 0 or positive integer)")
	}
	return model.StatsConfig{Last: last, CurveWindow: window, WeakTop: weak}, nil
}

func (f *filterForm) view() string {
	lines := make([]string, 0, len(f.fields)+2)
	lines = append(lines, "Report options")
	for _, in := range f.fields {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

func fieldInt(input string, fallback int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}
