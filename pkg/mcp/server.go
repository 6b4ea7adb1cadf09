// Package mcp implements a Model Context Protocol server exposing sort trace
// generation as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/version"
)

const (
	serverName = "sortviz"

	// opPrefix namespaces tool calls in span names and RED metric ops.
	opPrefix = "mcp."

	traceIDKey = "trace_id"

	statusOK    = "ok"
	statusError = "error"
)

const (
	traceToolDescription = "Run one of the supported sorting algorithms over an integer array " +
		"and return the step trace statistics and final array. " +
		"Provide explicit values or a size and optional seed for a random array of ints in [1, 100]. " +
		"Set include_events to receive every snapshot with its index roles."

	algorithmsToolDescription = "List the supported sorting algorithms with their display names, " +
		"observable step granularity and event count bound."
)

// ServerDeps holds injectable dependencies for the MCP server.
// Nil fields disable the matching concern.
type ServerDeps struct {
	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Metrics records rate, errors and latency per tool call.
	Metrics *observability.REDMetrics

	// Tracer opens one server span per tool call.
	Tracer trace.Tracer

	// SortMetrics counts the runs and events produced by sortviz_trace.
	SortMetrics *observability.SortMetrics
}

// Server wraps the MCP SDK server with the sortviz tools.
type Server struct {
	inner       *mcpsdk.Server
	tools       []string
	metrics     *observability.REDMetrics
	sortMetrics *observability.SortMetrics
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewServer creates a server with every sortviz tool registered.
func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	srv := &Server{
		inner: mcpsdk.NewServer(
			&mcpsdk.Implementation{Name: serverName, Version: version.Version},
			&mcpsdk.ServerOptions{Logger: logger},
		),
		metrics:     deps.Metrics,
		sortMetrics: deps.SortMetrics,
		tracer:      deps.Tracer,
		logger:      logger,
	}

	addTool(srv, ToolNameTrace, traceToolDescription, srv.handleTrace)
	addTool(srv, ToolNameAlgorithms, algorithmsToolDescription, handleAlgorithms)

	return srv
}

// ListToolNames returns the registered tool names in sorted order.
func (s *Server) ListToolNames() []string {
	return slices.Sorted(slices.Values(s.tools))
}

// Run serves on stdio until ctx is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.RunWithTransport(ctx, &mcpsdk.StdioTransport{})
}

// RunWithTransport serves on transport until ctx is canceled or the
// connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	if err := s.inner.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

type toolHandler[In any] func(context.Context, *mcpsdk.CallToolRequest, In) (*mcpsdk.CallToolResult, ToolOutput, error)

func addTool[In any](s *Server, name, description string, handler toolHandler[In]) {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{Name: name, Description: description}, mcpsdk.ToolHandlerFor[In, ToolOutput](instrument(s, name, handler)))
	s.tools = append(s.tools, name)
}

// instrument wraps a tool handler with a server span, RED metrics and a
// warning log for failed calls. A sampled span appends "trace_id=<id>" as
// the last content item so clients can look the call up.
func instrument[In any](s *Server, name string, handler toolHandler[In]) toolHandler[In] {
	op := opPrefix + name

	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, ToolOutput, error) {
		start := time.Now()

		var span trace.Span
		if s.tracer != nil {
			ctx, span = s.tracer.Start(ctx, op,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attribute.String("mcp.tool", name)),
			)
			defer span.End()
		}

		if s.metrics != nil {
			defer s.metrics.TrackInflight(ctx, op)()
		}

		result, output, err := handler(ctx, req, input)

		failed := err != nil || (result != nil && result.IsError)

		if s.metrics != nil {
			status := statusOK
			if failed {
				status = statusError
			}

			s.metrics.RecordRequest(ctx, op, status, time.Since(start))
		}

		if failed {
			s.logger.WarnContext(ctx, "tool call failed", "tool", name, "error", callError(result, err))
		}

		if span != nil {
			if failed {
				span.SetStatus(codes.Error, callError(result, err))
			}

			if sc := span.SpanContext(); sc.IsSampled() && result != nil {
				result.Content = append(result.Content,
					&mcpsdk.TextContent{Text: traceIDKey + "=" + sc.TraceID().String()})
			}
		}

		return result, output, err
	}
}

// callError extracts a message from a failed call, preferring the protocol
// error over the tool's own error text.
func callError(result *mcpsdk.CallToolResult, err error) string {
	if err != nil {
		return err.Error()
	}

	if result != nil && len(result.Content) > 0 {
		if text, ok := result.Content[0].(*mcpsdk.TextContent); ok {
			return text.Text
		}
	}

	return statusError
}
