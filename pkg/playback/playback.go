// Package playback drives a sorter's event sequence into a renderer at a
// fixed pace. It is the pull side of the engine: events are requested one at
// a time and the wait between them is the only place a run can be suspended.
package playback

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Speed bounds in seconds per step.
const (
	MinSpeed     = 0.1
	MaxSpeed     = 2.0
	DefaultSpeed = MinSpeed
)

const (
	outcomeCompleted = "completed"
	outcomeCanceled  = "canceled"
	outcomeFailed    = "failed"
)

var (
	// ErrBusy is returned when Play is called while another run is active on the same driver.
	ErrBusy = errors.New("playback already in progress")
	// ErrInvalidSpeed is returned for a step delay outside [MinSpeed, MaxSpeed].
	ErrInvalidSpeed = errors.New("invalid speed")
	// ErrNoRenderer is returned when the driver has no renderer configured.
	ErrNoRenderer = errors.New("no renderer configured")
)

// Renderer receives one run: the initial array, every event, then the final array.
// An error from any method aborts playback.
type Renderer interface {
	Begin(initial []int, algo sorting.Algorithm) error
	Frame(ev step.Event) error
	End(final []int) error
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Result describes a finished or abandoned run.
type Result struct {
	Algorithm sorting.Algorithm
	Input     []int
	Final     []int
	Events    int
	ByRole    map[step.Role]int
	Completed bool
	Duration  time.Duration
}

// Stats converts the result into the report form used by the summary table.
func (r Result) Stats() sorting.Stats {
	byRole := make(map[step.Role]int, len(r.ByRole))
	for role, n := range r.ByRole {
		byRole[role] = n
	}

	return sorting.Stats{
		Algorithm: r.Algorithm,
		InputSize: len(r.Input),
		Events:    r.Events,
		ByRole:    byRole,
		Sorted:    r.Completed && slices.IsSorted(r.Final) && sorting.IsPermutation(r.Input, r.Final),
	}
}

// Driver plays sorter runs through a Renderer. The zero value is not usable;
// at least Renderer must be set. A Driver must not be copied after first use.
type Driver struct {
	Renderer Renderer
	Delay    time.Duration
	Sleep    SleepFunc
	Metrics  *observability.SortMetrics
	Logger   *slog.Logger

	busy atomic.Bool
}

// Play runs sorter over values, rendering each event and waiting Delay
// between consecutive events. Cancelling ctx stops the run at the next wait
// and returns ctx.Err() together with the partial result.
func (d *Driver) Play(ctx context.Context, sorter sorting.Sorter, values []int) (Result, error) {
	if d.Renderer == nil {
		return Result{}, ErrNoRenderer
	}

	if !d.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer d.busy.Store(false)

	algo := sorter.Name()
	logger := d.logger()
	ctx = observability.WithRun(ctx, string(algo), len(values))
	started := time.Now()

	res := Result{
		Algorithm: algo,
		Input:     slices.Clone(values),
		Final:     slices.Clone(values),
		ByRole:    make(map[step.Role]int),
	}

	err := d.run(ctx, sorter, &res, logger)
	res.Duration = time.Since(started)

	outcome := outcomeCompleted

	switch {
	case err == nil:
		res.Completed = true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = outcomeCanceled
	default:
		outcome = outcomeFailed
	}

	if d.Metrics != nil {
		d.Metrics.RecordRun(ctx, string(algo), outcome, res.Duration)
	}

	logger.InfoContext(ctx, "playback finished",
		"outcome", outcome, "events", res.Events, "duration", res.Duration)

	return res, err
}

func (d *Driver) run(ctx context.Context, sorter sorting.Sorter, res *Result, logger *slog.Logger) error {
	err := d.Renderer.Begin(slices.Clone(res.Input), res.Algorithm)
	if err != nil {
		return fmt.Errorf("begin render: %w", err)
	}

	next, stop := iter.Pull(sorter.Run(res.Input))
	defer stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, ok := next()
		if !ok {
			break
		}

		if res.Events > 0 && d.Delay > 0 {
			if err := d.sleep(ctx); err != nil {
				return err
			}
		}

		err = d.Renderer.Frame(ev)
		if err != nil {
			return fmt.Errorf("render frame %d: %w", ev.Index, err)
		}

		res.Events++
		res.Final = ev.Snapshot
		d.count(ctx, res, ev)

		logger.DebugContext(ctx, "frame rendered", "index", ev.Index)
	}

	err = d.Renderer.End(slices.Clone(res.Final))
	if err != nil {
		return fmt.Errorf("end render: %w", err)
	}

	return nil
}

func (d *Driver) count(ctx context.Context, res *Result, ev step.Event) {
	var names []string

	for _, role := range step.Roles() {
		if len(ev.Indices(role)) == 0 {
			continue
		}

		res.ByRole[role]++
		names = append(names, string(role))
	}

	if d.Metrics != nil {
		d.Metrics.RecordStep(ctx, string(res.Algorithm), names)
	}
}

func (d *Driver) sleep(ctx context.Context) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, d.Delay)
	}

	return Sleep(ctx, d.Delay)
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}

	return slog.Default()
}

// Sleep waits for dur or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, dur time.Duration) error {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ValidateSpeed checks a per-step delay in seconds.
func ValidateSpeed(seconds float64) error {
	if seconds < MinSpeed || seconds > MaxSpeed {
		return fmt.Errorf("%w: %g (must be between %g and %g seconds)", ErrInvalidSpeed, seconds, MinSpeed, MaxSpeed)
	}

	return nil
}

// SpeedToDelay converts a validated speed in seconds to a delay.
func SpeedToDelay(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
