// Package generator builds arithmetic questions and answer options.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// MaxOperand is the largest operand, divisor and square root drilled.
const MaxOperand = 12

var perfectSquares = []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100, 121, 144}

// Generator produces randomized questions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate draws one question of type t for series. It reports false when no
// question can be built.
func (g *Generator) Generate(series int, t model.QuestionType) (model.Question, bool) {
	switch t {
	case model.Multiplication:
		return MultiplicationQuestion(series, g.rnd.Intn(MaxOperand)+1), true
	case model.Division:
		return DivisionQuestion(series, g.rnd.Intn(MaxOperand)+1), true
	case model.Sqrt:
		squares := validSquares()
		if len(squares) == 0 {
			return model.Question{}, false
		}
		return SqrtQuestion(squares[g.rnd.Intn(len(squares))]), true
	default:
		return model.Question{}, false
	}
}

// Training draws count questions with replacement, picking a random series
// and a random enabled type for each.
func (g *Generator) Training(series []int, types []model.QuestionType, count int) []model.Question {
	if len(series) == 0 || len(types) == 0 || count <= 0 {
		return nil
	}
	result := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		s := series[g.rnd.Intn(len(series))]
		t := types[g.rnd.Intn(len(types))]
		if q, ok := g.Generate(s, t); ok {
			result = append(result, q)
		}
	}
	return result
}

// MultiplicationQuestion builds "series × operand".
func MultiplicationQuestion(series, operand int) model.Question {
	return model.Question{
		Key:    fmt.Sprintf("%dx%d", series, operand),
		Text:   fmt.Sprintf("%d × %d = ?", series, operand),
		Answer: series * operand,
		Type:   model.Multiplication,
		Series: series,
	}
}

// DivisionQuestion builds "series*divisor ÷ series". The key names the
// dividend and series only; the divisor follows from them.
func DivisionQuestion(series, divisor int) model.Question {
	dividend := series * divisor
	return model.Question{
		Key:    fmt.Sprintf("%d/%d", dividend, series),
		Text:   fmt.Sprintf("%d ÷ %d = ?", dividend, series),
		Answer: divisor,
		Type:   model.Division,
		Series: series,
	}
}

// SqrtQuestion builds "√square" for a perfect square.
func SqrtQuestion(square int) model.Question {
	return model.Question{
		Key:    fmt.Sprintf("√%d", square),
		Text:   fmt.Sprintf("√%d = ?", square),
		Answer: intSqrt(square),
		Type:   model.Sqrt,
	}
}

func validSquares() []int {
	out := make([]int, 0, len(perfectSquares))
	for _, sq := range perfectSquares {
		root := intSqrt(sq)
		if root >= 1 && root <= MaxOperand && root*root == sq {
			out = append(out, sq)
		}
	}
	return out
}

func intSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
