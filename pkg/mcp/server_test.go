package mcp_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/sortviz/pkg/mcp"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
)

func TestNewServer_ToolsRegistered(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})
	require.NotNil(t, srv)

	assert.Equal(t, []string{"sortviz_algorithms", "sortviz_trace"}, srv.ListToolNames())
}

func TestServer_Run_CancelledContext(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.Run(ctx)
	require.Error(t, err)
}

func TestServer_InstrumentsToolCalls(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	red, err := observability.NewREDMetrics(meter)
	require.NoError(t, err)

	sortMetrics, err := observability.NewSortMetrics(meter)
	require.NoError(t, err)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	srv := mcp.NewServer(mcp.ServerDeps{
		Metrics:     red,
		SortMetrics: sortMetrics,
		Tracer:      tp.Tracer("test"),
	})

	session := connect(t, srv)

	result := callTool(t, session, mcp.ToolNameTrace, map[string]any{"algorithm": "bubble", "values": []int{2, 1}})
	require.False(t, result.IsError)

	last, ok := result.Content[len(result.Content)-1].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, last.Text, "trace_id=")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "mcp.sortviz_trace", spans[0].Name)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			names[m.Name] = true
		}
	}

	assert.True(t, names["sortviz.requests.total"])
	assert.True(t, names["sortviz.runs.total"])
	assert.True(t, names["sortviz.steps.total"])
}

func TestServer_FailedCallMarksSpanAndLogs(t *testing.T) {
	t.Parallel()

	var logs lockedBuffer

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	srv := mcp.NewServer(mcp.ServerDeps{
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		Tracer: tp.Tracer("test"),
	})

	session := connect(t, srv)

	result := callTool(t, session, mcp.ToolNameTrace, map[string]any{"algorithm": "bogo"})
	require.True(t, result.IsError)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Status.Description, "unknown algorithm")

	assert.Contains(t, logs.String(), "tool call failed")
	assert.Contains(t, logs.String(), "tool=sortviz_trace")
}

// lockedBuffer lets the test read what the server goroutine logs.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (lb *lockedBuffer) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	return lb.buf.Write(p)
}

func (lb *lockedBuffer) String() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	return lb.buf.String()
}
