package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "sortviz"

// Providers is what a command needs to emit telemetry.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger

	// MetricsHandler serves the Prometheus scrape endpoint.
	// Nil unless Config.Prometheus is set and OTLP is off.
	MetricsHandler http.Handler

	// Shutdown flushes pending telemetry. Safe to call more than once.
	Shutdown func(ctx context.Context) error
}

// Init is InitWithWriter logging to stderr, which keeps logs out of the
// terminal playback on stdout.
func Init(cfg Config) (Providers, error) {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter wires tracing, metrics and logging and installs the
// providers as OTel globals. Without an OTLP endpoint tracing is a no-op
// and metrics are either no-op or Prometheus-only.
func InitWithWriter(cfg Config, logOut io.Writer) (Providers, error) {
	ctx := context.Background()

	res, err := buildResource(cfg)
	if err != nil {
		return Providers{}, err
	}

	var closers []func(context.Context) error

	tp, err := buildTracerProvider(ctx, cfg, res, &closers)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer provider: %w", err)
	}

	mp, metricsHandler, err := buildMeterProvider(ctx, cfg, res, &closers)
	if err != nil {
		return Providers{}, errors.Join(fmt.Errorf("build meter provider: %w", err), closeAll(ctx, closers))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	var (
		once     sync.Once
		flushErr error
	)

	shutdown := func(shutdownCtx context.Context) error {
		once.Do(func() {
			timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
			if timeout <= 0 {
				timeout = defaultShutdownTimeoutSec * time.Second
			}

			deadlineCtx, cancel := context.WithTimeout(shutdownCtx, timeout)
			defer cancel()

			flushErr = closeAll(deadlineCtx, closers)
		})

		return flushErr
	}

	return Providers{
		Tracer:         tp.Tracer(instrumentationName),
		Meter:          mp.Meter(instrumentationName),
		Logger:         buildLogger(cfg, logOut),
		MetricsHandler: metricsHandler,
		Shutdown:       shutdown,
	}, nil
}

func closeAll(ctx context.Context, closers []func(context.Context) error) error {
	errs := make([]error, 0, len(closers))
	for _, closeFn := range closers {
		errs = append(errs, closeFn(ctx))
	}

	return errors.Join(errs...)
}

func buildResource(cfg Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}

	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}

	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}

	if cfg.Mode != "" {
		attrs = append(attrs, attribute.String("app.mode", string(cfg.Mode)))
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

func buildTracerProvider(
	ctx context.Context, cfg Config, res *resource.Resource, closers *[]func(context.Context) error,
) (trace.TracerProvider, error) {
	if cfg.OTLPEndpoint == "" {
		return nooptrace.NewTracerProvider(), nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	}, samplerOptions(cfg)...)...)
	*closers = append(*closers, tp.Shutdown)

	return tp, nil
}

// samplerOptions forces a sampler only when the config asks for one. Otherwise
// the SDK default applies, which honors OTEL_TRACES_SAMPLER and
// OTEL_TRACES_SAMPLER_ARG.
func samplerOptions(cfg Config) []sdktrace.TracerProviderOption {
	switch {
	case cfg.DebugTrace:
		return []sdktrace.TracerProviderOption{sdktrace.WithSampler(sdktrace.AlwaysSample())}
	case cfg.SampleRatio > 0:
		return []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		}
	default:
		return nil
	}
}

// buildMeterProvider prefers OTLP, then Prometheus, then a no-op meter.
func buildMeterProvider(
	ctx context.Context, cfg Config, res *resource.Resource, closers *[]func(context.Context) error,
) (metric.MeterProvider, http.Handler, error) {
	switch {
	case cfg.OTLPEndpoint != "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}

		if len(cfg.OTLPHeaders) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
		}

		exporter, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("create metric exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
			sdkmetric.WithResource(res),
		)
		*closers = append(*closers, mp.Shutdown)

		return mp, nil, nil

	case cfg.Prometheus:
		mp, handler, err := PrometheusProvider(res)
		if err != nil {
			return nil, nil, err
		}

		*closers = append(*closers, mp.Shutdown)

		return mp, handler, nil

	default:
		return noopmetric.NewMeterProvider(), nil, nil
	}
}

func buildLogger(cfg Config, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler = slog.NewTextHandler(out, opts)
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, opts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}

// ParseOTLPHeaders parses "key=value,key=value" as used by
// OTEL_EXPORTER_OTLP_HEADERS. Pairs without "=" are skipped; nil means none.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for pair := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return headers
}

// ParseLogLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", s, err)
	}

	return level, nil
}
