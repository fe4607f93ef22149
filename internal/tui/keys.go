package tui

import "github.com/charmbracelet/bubbles/key"

type menuKeys struct {
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	Start    key.Binding
	Mode     key.Binding
	Count    key.Binding
	Division key.Binding
	Sqrt     key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Left, k.Toggle, k.Start, k.Count, k.Division, k.Sqrt, k.Reset, k.Quit}
}

func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type quizKeys struct {
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Pick   key.Binding
	Back   key.Binding
}

func (k quizKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Submit, k.Pick, k.Back}
}

func (k quizKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type confirmKeys struct {
	Yes key.Binding
	No  key.Binding
}

func (k confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var (
	leftKey  = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "move"))
	rightKey = key.NewBinding(key.WithKeys("right", "l"))

	defaultMenuKeys = menuKeys{
		Left:     leftKey,
		Right:    rightKey,
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "select series")),
		Start:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Mode:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "training/test")),
		Count:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "question count")),
		Division: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "division")),
		Sqrt:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "square roots")),
		Reset:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset stats")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}

	defaultQuizKeys = quizKeys{
		Left:   leftKey,
		Right:  rightKey,
		Submit: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "answer")),
		Pick:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "pick option")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave quiz")),
	}

	defaultConfirmKeys = confirmKeys{
		Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
)
