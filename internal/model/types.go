// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// QuestionType is the arithmetic operation a question drills.
type QuestionType int

const (
	Multiplication QuestionType = iota
	Division
	Sqrt
)

var questionTypeNames = [...]string{
	Multiplication: "multiplication",
	Division:       "division",
	Sqrt:           "sqrt",
}

func (t QuestionType) String() string {
	if t < 0 || int(t) >= len(questionTypeNames) {
		return fmt.Sprintf("QuestionType(%d)", int(t))
	}
	return questionTypeNames[t]
}

// Question is one multiple-choice arithmetic fact. Series is 0 for square roots.
type Question struct {
	Key    string
	Text   string
	Answer int
	Type   QuestionType
	Series int
}

// FactStats counts answers for one fact key.
type FactStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Rate returns the success rate and false when the fact was never attempted.
func (fs FactStats) Rate() (float64, bool) {
	if fs.Total <= 0 {
		return 0, false
	}
	return float64(fs.Correct) / float64(fs.Total), true
}

// Settings toggles optional question types. Multiplication is always on.
type Settings struct {
	EnableDivision bool `json:"enableDivision"`
	EnableSqrt     bool `json:"enableSqrt"`
}

// DefaultSettings returns the settings used before anything was saved.
func DefaultSettings() Settings {
	return Settings{EnableDivision: true, EnableSqrt: true}
}

// Types lists the enabled question types, multiplication first.
func (s Settings) Types() []QuestionType {
	types := []QuestionType{Multiplication}
	if s.EnableDivision {
		types = append(types, Division)
	}
	if s.EnableSqrt {
		types = append(types, Sqrt)
	}
	return types
}

// Mode selects how a quiz draws its questions.
type Mode int

const (
	Training Mode = iota
	Test
)

func (m Mode) String() string {
	switch m {
	case Training:
		return "training"
	case Test:
		return "test"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "training":
		return Training, nil
	case "test":
		return Test, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", name)
	}
}

// Config defines drill settings resolved from flags and the config file.
type Config struct {
	Count         int
	FeedbackDelay time.Duration
	FinishDelay   time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Last        int
	CurveWindow int
	WeakTop     int
}

// QuizRecord summarizes a finished or abandoned quiz.
type QuizRecord struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Mode      Mode
	Series    []int
	Questions int
	Answered  int
	Correct   int
	Completed bool
}

// Accuracy returns correct/answered, or 0 when nothing was answered.
func (r QuizRecord) Accuracy() float64 {
	if r.Answered <= 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Answered)
}
