package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"

	groupRun = "run"
)

type runKey struct{}

type runInfo struct {
	algorithm string
	size      int
}

// WithRun tags ctx with the sort run it belongs to. Records logged with
// the returned context through a TracingHandler carry the algorithm and
// array size under the "run" group.
func WithRun(ctx context.Context, algorithm string, size int) context.Context {
	return context.WithValue(ctx, runKey{}, runInfo{algorithm: algorithm, size: size})
}

// RunFromContext returns the run recorded by WithRun.
func RunFromContext(ctx context.Context) (algorithm string, size int, ok bool) {
	info, ok := ctx.Value(runKey{}).(runInfo)

	return info.algorithm, info.size, ok
}

// TracingHandler decorates every record with the active span ids, the
// current run, and the service identity. Service attributes are bound
// at construction so later groups never nest them.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner for the given service, environment and mode.
// An empty env is omitted.
func NewTracingHandler(inner slog.Handler, service, env string, appMode AppMode) *TracingHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	return &TracingHandler{inner: inner.WithAttrs(attrs)}
}

func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if algorithm, size, ok := RunFromContext(ctx); ok {
		record.AddAttrs(slog.Group(groupRun,
			slog.String("algorithm", algorithm),
			slog.Int("size", size),
		))
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
