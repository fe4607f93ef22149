package generator

const (
	distractorSpan     = 5
	maxRejectsPerWiden = 20
	minOptions         = 4
	maxOptions         = 5
)

// Options returns the correct answer plus 3 or 4 distinct positive
// distractors, shuffled.
func (g *Generator) Options(correct int) []int {
	target := minOptions
	if g.rnd.Intn(2) == 1 {
		target = maxOptions
	}

	seen := map[int]struct{}{correct: {}}
	options := []int{correct}
	span := distractorSpan
	rejects := 0
	for len(options) < target {
		offset := g.rnd.Intn(2*span+1) - span
		candidate := correct + offset
		if _, dup := seen[candidate]; offset == 0 || candidate <= 0 || dup {
			rejects++
			// Small answers run out of positive neighbours; widen upward.
			if rejects >= maxRejectsPerWiden {
				span += distractorSpan
				rejects = 0
			}
			continue
		}
		rejects = 0
		seen[candidate] = struct{}{}
		options = append(options, candidate)
	}

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
