package sorting

import (
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// emitter owns the working array of one run and forwards events to the
// consumer. Once the consumer stops, every later emit reports false so
// recursive variants can unwind without touching the array further.
type emitter struct {
	array   []int
	yield   func(step.Event) bool
	next    int
	stopped bool
}

func (e *emitter) emit(roles map[int]step.Role) bool {
	if e.stopped {
		return false
	}

	ev := step.New(e.next, e.array, roles)
	e.next++

	if !e.yield(ev) {
		e.stopped = true

		return false
	}

	return true
}

// sequence wraps a variant body into a restartable iter.Seq. Inputs shorter
// than two elements are already sorted and yield nothing.
func sequence(values []int, body func(em *emitter)) iter.Seq[step.Event] {
	input := slices.Clone(values)

	return func(yield func(step.Event) bool) {
		if len(input) < 2 {
			return
		}

		body(&emitter{array: slices.Clone(input), yield: yield})
	}
}
