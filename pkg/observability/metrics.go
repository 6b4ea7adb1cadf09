package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "sortviz.requests.total"
	metricRequestDuration  = "sortviz.request.duration.seconds"
	metricErrorsTotal      = "sortviz.errors.total"
	metricInflightRequests = "sortviz.inflight.requests"

	metricRunsTotal   = "sortviz.runs.total"
	metricStepsTotal  = "sortviz.steps.total"
	metricRunDuration = "sortviz.run.duration.seconds"

	attrOp        = "op"
	attrStatus    = "status"
	attrAlgorithm = "algorithm"
	attrRole      = "role"
	attrOutcome   = "outcome"

	statusError = "error"
)

// durationBucketBoundaries covers sub-millisecond headless traces up to
// multi-minute paced playback of large arrays.
var durationBucketBoundaries = []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900}

// REDMetrics tracks rate, errors and duration of request-style
// operations such as MCP tool calls.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics registers the RED instruments on mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	var (
		rm   REDMetrics
		err  error
		errs []error
	)

	rm.requestsTotal, err = mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Requests handled"), metric.WithUnit("{request}"))
	errs = append(errs, instrumentErr(metricRequestsTotal, err))

	rm.requestDuration, err = mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request latency"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
	errs = append(errs, instrumentErr(metricRequestDuration, err))

	rm.errorsTotal, err = mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Requests that failed"), metric.WithUnit("{error}"))
	errs = append(errs, instrumentErr(metricErrorsTotal, err))

	rm.inflightRequests, err = mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Requests in progress"), metric.WithUnit("{request}"))
	errs = append(errs, instrumentErr(metricInflightRequests, err))

	if joined := errors.Join(errs...); joined != nil {
		return nil, joined
	}

	return &rm, nil
}

func instrumentErr(name string, err error) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("create %s: %w", name, err)
}

// RecordRequest counts one finished request. A status of "error" also
// bumps the error counter.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrOp, op),
		))
	}
}

// TrackInflight marks op as in progress until the returned func runs.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// SortMetrics counts sort runs and the events they emit.
type SortMetrics struct {
	runsTotal   metric.Int64Counter
	stepsTotal  metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewSortMetrics registers the sort run instruments on mt.
func NewSortMetrics(mt metric.Meter) (*SortMetrics, error) {
	var (
		sm   SortMetrics
		err  error
		errs []error
	)

	sm.runsTotal, err = mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Sort runs by algorithm and outcome"), metric.WithUnit("{run}"))
	errs = append(errs, instrumentErr(metricRunsTotal, err))

	sm.stepsTotal, err = mt.Int64Counter(metricStepsTotal,
		metric.WithDescription("Step events emitted, by algorithm and role"), metric.WithUnit("{event}"))
	errs = append(errs, instrumentErr(metricStepsTotal, err))

	sm.runDuration, err = mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Wall time of a sort run including playback pacing"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...))
	errs = append(errs, instrumentErr(metricRunDuration, err))

	if joined := errors.Join(errs...); joined != nil {
		return nil, joined
	}

	return &sm, nil
}

// RecordStep counts one emitted event for each role it carries.
func (sm *SortMetrics) RecordStep(ctx context.Context, algorithm string, roles []string) {
	for _, role := range roles {
		sm.stepsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String(attrAlgorithm, algorithm),
			attribute.String(attrRole, role),
		))
	}
}

// RecordRun records a finished or abandoned run.
func (sm *SortMetrics) RecordRun(ctx context.Context, algorithm, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrAlgorithm, algorithm),
		attribute.String(attrOutcome, outcome),
	)

	sm.runsTotal.Add(ctx, 1, attrs)
	sm.runDuration.Record(ctx, duration.Seconds(), attrs)
}
