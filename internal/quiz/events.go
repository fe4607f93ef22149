package quiz

import "github.com/verte-zerg/mathdrill/internal/model"

// EventKind names a state change.
type EventKind int

const (
	EventStarted EventKind = iota + 1
	EventAnswered
	EventAdvanced
	EventFinished
	EventAbandoned
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventAnswered:
		return "answered"
	case EventAdvanced:
		return "advanced"
	case EventFinished:
		return "finished"
	case EventAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Event is emitted after every state change. Question is set for started,
// answered and advanced events; Result only for answered.
type Event struct {
	Kind     EventKind
	Question model.Question
	Result   Result
}

// Listener receives events synchronously on the caller's goroutine.
type Listener func(Event)

// Subscribe adds a listener.
func (c *Controller) Subscribe(l Listener) {
	if l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

func (c *Controller) emit(ev Event) {
	for _, l := range c.listeners {
		l(ev)
	}
}
