package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/mathdrill/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Summary aggregates quiz history.
type Summary struct {
	Quizzes   int
	Completed int
	Answered  int
	Correct   int
	Best      float64
}

// Accuracy returns overall correct/answered.
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// Summarize folds quiz records into a Summary. Best only counts completed
// quizzes.
func Summarize(quizzes []model.QuizRecord) Summary {
	var s Summary
	for _, q := range quizzes {
		s.Quizzes++
		s.Answered += q.Answered
		s.Correct += q.Correct
		if q.Completed {
			s.Completed++
			if acc := q.Accuracy(); acc > s.Best {
				s.Best = acc
			}
		}
	}
	return s
}

// AccuracyCurve returns per-quiz accuracy in percent, smoothed over window.
func AccuracyCurve(quizzes []model.QuizRecord, window int) []float64 {
	values := make([]float64, 0, len(quizzes))
	for _, q := range quizzes {
		if q.Answered == 0 {
			continue
		}
		values = append(values, q.Accuracy()*100)
	}
	return MovingAverage(values, window)
}

// RenderSummary prints a summary of quiz history.
func RenderSummary(w io.Writer, quizzes []model.QuizRecord, window int) error {
	if len(quizzes) == 0 {
		_, err := fmt.Fprintln(w, "No quizzes found.")
		return err
	}
	s := Summarize(quizzes)
	lines := []string{
		"Summary",
		fmt.Sprintf("Quizzes: %d (%d completed)", s.Quizzes, s.Completed),
		fmt.Sprintf("Answered: %d", s.Answered),
		fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy()*100),
		fmt.Sprintf("Best quiz: %.1f%%", s.Best*100),
	}
	if curve := AccuracyCurve(quizzes, window); len(curve) > 1 {
		lines = append(lines, fmt.Sprintf("Trend: [%s]", Sparkline(curve)))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGrid prints the series overview with one band symbol per fact.
func RenderGrid(w io.Writer, grid []GridRow) error {
	headers := []string{"Series"}
	for op := GridFirstOperand; op <= GridLastOperand; op++ {
		headers = append(headers, fmt.Sprintf("×%d", op))
	}
	rows := make([][]string, 0, len(grid))
	for _, gr := range grid {
		row := []string{fmt.Sprintf("%d", gr.Series)}
		for _, c := range gr.Cells {
			row = append(row, BandSymbol(c.Band))
		}
		rows = append(rows, row)
	}
	rightAlign := map[int]bool{}
	for i := 1; i < len(headers); i++ {
		rightAlign[i] = true
	}
	if _, err := fmt.Fprintln(w, "Multiplication Overview"); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "? unseen  ! <50%  - <65%  ~ <80%  + <90%  * >=90%")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "")
	return err
}

// RenderFactTable prints per-fact counters with their Leitner box.
func RenderFactTable(w io.Writer, title string, aggs []FactAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No fact stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Fact", "Accuracy", "Correct", "Total", "Box", "Weight"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, FactRow(agg))
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// FactRow formats one fact for tabular output.
func FactRow(agg FactAggregate) []string {
	acc := "-"
	if rate, ok := agg.Rate(); ok {
		acc = fmt.Sprintf("%.1f%%", rate*100)
	}
	return []string{
		agg.Key,
		acc,
		fmt.Sprintf("%d", agg.Correct),
		fmt.Sprintf("%d", agg.Total),
		fmt.Sprintf("%d", LeitnerBox(agg.FactStats)),
		fmt.Sprintf("%d", Weight(agg.FactStats)),
	}
}
