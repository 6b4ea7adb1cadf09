package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// scrapeRecorder captures the status and body size of a metrics response.
type scrapeRecorder struct {
	http.ResponseWriter

	status int
	size   int
}

func (sr *scrapeRecorder) WriteHeader(code int) {
	if sr.status == 0 {
		sr.status = code
	}

	sr.ResponseWriter.WriteHeader(code)
}

func (sr *scrapeRecorder) Write(buf []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}

	n, err := sr.ResponseWriter.Write(buf)
	sr.size += n

	if err != nil {
		return n, fmt.Errorf("write scrape response: %w", err)
	}

	return n, nil
}

// HTTPMiddleware wraps the metrics endpoint. Every scrape becomes a server
// span named "METHOD /path" that continues the scraper's W3C trace context,
// and is logged at debug level when logger is non-nil.
func HTTPMiddleware(tracer trace.Tracer, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, hr *http.Request) {
		started := time.Now()
		parentCtx := otel.GetTextMapPropagator().Extract(hr.Context(), propagation.HeaderCarrier(hr.Header))

		ctx, span := tracer.Start(parentCtx, hr.Method+" "+hr.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(hr.Method),
				semconv.HTTPRoute(hr.URL.Path),
			),
		)
		defer span.End()

		rec := &scrapeRecorder{ResponseWriter: rw}
		next.ServeHTTP(rec, hr.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		span.SetAttributes(
			semconv.HTTPResponseStatusCode(rec.status),
			semconv.HTTPResponseBodySize(rec.size),
		)

		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}

		if logger != nil {
			logger.DebugContext(ctx, "metrics scraped",
				"status", rec.status, "bytes", rec.size, "duration", time.Since(started))
		}
	})
}
