package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
)

const (
	metricsPath          = "/metrics"
	metricsReadTimeout   = 5 * time.Second
	metricsShutdownGrace = 2 * time.Second
)

// PrometheusProvider creates a MeterProvider whose instruments are collected
// by a dedicated Prometheus registry, and the handler serving that registry.
// Each call creates an independent registry to avoid collector conflicts.
func PrometheusProvider(res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(exporter)}
	if res != nil {
		opts = append(opts, sdkmetric.WithResource(res))
	}

	mp := sdkmetric.NewMeterProvider(opts...)

	return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

// MetricsServer exposes a metrics handler over HTTP for the lifetime of a run.
type MetricsServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// StartMetricsServer listens on addr and serves handler at /metrics.
// Scrapes are traced and logged by HTTPMiddleware when tracer is non-nil.
func StartMetricsServer(addr string, handler http.Handler, tracer trace.Tracer, logger *slog.Logger) (*MetricsServer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	if tracer != nil {
		handler = HTTPMiddleware(tracer, logger, handler)
	}

	mux.Handle(metricsPath, handler)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	ms := &MetricsServer{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadTimeout},
		ln:     ln,
		logger: logger,
	}

	go func() {
		serveErr := ms.srv.Serve(ln)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", serveErr)
		}
	}()

	logger.Info("metrics endpoint ready", "addr", ln.Addr().String(), "path", metricsPath)

	return ms, nil
}

// Addr returns the bound listener address.
func (ms *MetricsServer) Addr() string {
	return ms.ln.Addr().String()
}

// Close stops the server, waiting briefly for in-flight scrapes.
func (ms *MetricsServer) Close(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, metricsShutdownGrace)
	defer cancel()

	err := ms.srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}

	return nil
}
