package playback

import (
	"errors"
	"slices"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Recorder is a Renderer that keeps everything it is shown as a trace.
type Recorder struct {
	trace *sorting.Trace
}

// Begin starts a fresh trace.
func (r *Recorder) Begin(initial []int, algo sorting.Algorithm) error {
	r.trace = &sorting.Trace{Algorithm: algo, Input: slices.Clone(initial), Final: slices.Clone(initial)}

	return nil
}

// Frame appends the event.
func (r *Recorder) Frame(ev step.Event) error {
	r.trace.Events = append(r.trace.Events, ev)

	return nil
}

// End stores the final array.
func (r *Recorder) End(final []int) error {
	r.trace.Final = slices.Clone(final)

	return nil
}

// Trace returns the recorded trace, nil before the first Begin.
func (r *Recorder) Trace() *sorting.Trace {
	return r.trace
}

// Tee fans every call out to several renderers in order.
type Tee []Renderer

// Begin forwards to every renderer.
func (t Tee) Begin(initial []int, algo sorting.Algorithm) error {
	var errs []error
	for _, r := range t {
		errs = append(errs, r.Begin(initial, algo))
	}

	return errors.Join(errs...)
}

// Frame forwards to every renderer.
func (t Tee) Frame(ev step.Event) error {
	var errs []error
	for _, r := range t {
		errs = append(errs, r.Frame(ev))
	}

	return errors.Join(errs...)
}

// End forwards to every renderer.
func (t Tee) End(final []int) error {
	var errs []error
	for _, r := range t {
		errs = append(errs, r.End(final))
	}

	return errors.Join(errs...)
}
