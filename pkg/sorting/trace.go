package sorting

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Trace verification errors.
var (
	ErrEventOrder      = errors.New("event indices are not sequential")
	ErrSnapshotLength  = errors.New("snapshot length differs from input")
	ErrSnapshotValues  = errors.New("snapshot is not a permutation of the input")
	ErrFinalMismatch   = errors.New("final array differs from last snapshot")
	ErrNotSorted       = errors.New("final array is not sorted")
	ErrNotPermutation  = errors.New("final array is not a permutation of the input")
	ErrUnknownTraceAlg = errors.New("trace names an unknown algorithm")
)

// Trace is a fully drained run: the input, every event, and the result.
type Trace struct {
	Algorithm Algorithm    `json:"algorithm" yaml:"algorithm"`
	Input     []int        `json:"input"     yaml:"input"`
	Events    []step.Event `json:"events"    yaml:"events"`
	Final     []int        `json:"final"     yaml:"final"`
}

// Collect drains a sequence into a slice.
func Collect(seq iter.Seq[step.Event]) []step.Event {
	var events []step.Event

	for ev := range seq {
		events = append(events, ev)
	}

	return events
}

// Record runs sorter over input and keeps the whole trace.
func Record(sorter Sorter, input []int) *Trace {
	events := Collect(sorter.Run(input))

	final := slices.Clone(input)
	if len(events) > 0 {
		final = slices.Clone(events[len(events)-1].Snapshot)
	}

	if final == nil {
		final = []int{}
	}

	return &Trace{
		Algorithm: sorter.Name(),
		Input:     slices.Clone(input),
		Events:    events,
		Final:     final,
	}
}

// Verify checks the structural invariants of a trace, typically one loaded
// from disk. All violations are joined into the returned error.
func (t *Trace) Verify() error {
	var errs []error

	if _, err := ParseAlgorithm(string(t.Algorithm)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownTraceAlg, t.Algorithm))
	}

	for i, ev := range t.Events {
		if ev.Index != i {
			errs = append(errs, fmt.Errorf("%w: position %d holds index %d", ErrEventOrder, i, ev.Index))
		}

		if ev.Len() != len(t.Input) {
			errs = append(errs, fmt.Errorf("%w: event %d has %d values, input has %d", ErrSnapshotLength, i, ev.Len(), len(t.Input)))
		} else if !IsPermutation(t.Input, ev.Snapshot) {
			errs = append(errs, fmt.Errorf("%w: event %d", ErrSnapshotValues, i))
		}

		if err := ev.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(t.Events) > 0 && !slices.Equal(t.Events[len(t.Events)-1].Snapshot, t.Final) {
		errs = append(errs, ErrFinalMismatch)
	}

	if !slices.IsSorted(t.Final) {
		errs = append(errs, ErrNotSorted)
	}

	if !IsPermutation(t.Input, t.Final) {
		errs = append(errs, ErrNotPermutation)
	}

	return errors.Join(errs...)
}

// IsPermutation reports whether a and b hold the same multiset of values.
func IsPermutation(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)

	return slices.Equal(sa, sb)
}

// Stats summarizes a trace for reports.
type Stats struct {
	Algorithm Algorithm         `json:"algorithm"`
	InputSize int               `json:"input_size"`
	Events    int               `json:"events"`
	ByRole    map[step.Role]int `json:"by_role"`
	Sorted    bool              `json:"sorted"`
}

// Summarize counts events per role. An event counts once for every role
// present in its role map.
func Summarize(t *Trace) Stats {
	byRole := make(map[step.Role]int)

	for _, ev := range t.Events {
		seen := make(map[step.Role]bool, 1)

		for _, r := range ev.Roles {
			if !seen[r] {
				seen[r] = true
				byRole[r]++
			}
		}
	}

	return Stats{
		Algorithm: t.Algorithm,
		InputSize: len(t.Input),
		Events:    len(t.Events),
		ByRole:    byRole,
		Sorted:    slices.IsSorted(t.Final) && IsPermutation(t.Input, t.Final),
	}
}
