package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sortviz/pkg/arraygen"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// Tool name constants.
const (
	ToolNameTrace      = "sortviz_trace"
	ToolNameAlgorithms = "sortviz_algorithms"
)

// Input limits.
const (
	// DefaultArraySize is used when neither size nor values are given.
	DefaultArraySize = 20
	// MaxArraySize bounds the array a single call may sort.
	MaxArraySize = 200
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyAlgorithm indicates the algorithm parameter is empty.
	ErrEmptyAlgorithm = errors.New("algorithm parameter is required and must not be empty")
	// ErrArrayTooLarge indicates the requested array exceeds MaxArraySize.
	ErrArrayTooLarge = errors.New("array exceeds maximum size")
	// ErrSizeAndValues indicates both size and values were given with different lengths.
	ErrSizeAndValues = errors.New("size does not match the number of values")
)

// Input types (auto-generate JSON schemas via struct tags).

// TraceInput is the input schema for the sortviz_trace tool.
type TraceInput struct {
	Algorithm     string `json:"algorithm"                jsonschema:"algorithm id or name (bubble selection insertion merge quick)"`
	IncludeEvents bool   `json:"include_events,omitempty" jsonschema:"return every step event with its snapshot and roles"`
	Seed          uint64 `json:"seed,omitempty"           jsonschema:"seed for the random array; 0 picks a fresh one"`
	Size          int    `json:"size,omitempty"           jsonschema:"length of the random array (default 20, max 200)"`
	Values        []int  `json:"values,omitempty"         jsonschema:"explicit array to sort instead of a random one"`
}

// AlgorithmsInput is the input schema for the sortviz_algorithms tool.
type AlgorithmsInput struct{}

// TraceOutput is the payload of a sortviz_trace result.
type TraceOutput struct {
	Algorithm string        `json:"algorithm"`
	Input     []int         `json:"input"`
	Final     []int         `json:"final"`
	Stats     sorting.Stats `json:"stats"`
	Events    []step.Event  `json:"events,omitempty"`
}

// AlgorithmInfo describes one supported algorithm.
type AlgorithmInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Granularity string `json:"granularity"`
	EventBound  string `json:"event_bound"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func (s *Server) handleTrace(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input TraceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if input.Algorithm == "" {
		return errorResult(ErrEmptyAlgorithm)
	}

	sorter, err := sorting.Lookup(input.Algorithm)
	if err != nil {
		return errorResult(err)
	}

	values, err := traceValues(input)
	if err != nil {
		return errorResult(err)
	}

	started := time.Now()
	trace := sorting.Record(sorter, values)
	stats := sorting.Summarize(trace)

	s.recordRun(ctx, trace, time.Since(started))
	s.logger.DebugContext(observability.WithRun(ctx, string(trace.Algorithm), len(values)),
		"trace recorded", "events", stats.Events)

	out := TraceOutput{
		Algorithm: string(trace.Algorithm),
		Input:     trace.Input,
		Final:     trace.Final,
		Stats:     stats,
	}

	if input.IncludeEvents {
		out.Events = trace.Events
	}

	return jsonResult(out)
}

func handleAlgorithms(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ AlgorithmsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	algos := sorting.Algorithms()
	infos := make([]AlgorithmInfo, 0, len(algos))

	for _, algo := range algos {
		infos = append(infos, AlgorithmInfo{
			ID:          string(algo),
			Name:        algo.DisplayName(),
			Granularity: algo.Granularity(),
			EventBound:  algo.EventBound(),
		})
	}

	return jsonResult(infos)
}

// traceValues resolves the array for a trace call.
func traceValues(input TraceInput) ([]int, error) {
	if len(input.Values) > 0 {
		if len(input.Values) > MaxArraySize {
			return nil, fmt.Errorf("%w: %d values (max %d)", ErrArrayTooLarge, len(input.Values), MaxArraySize)
		}

		if input.Size != 0 && input.Size != len(input.Values) {
			return nil, fmt.Errorf("%w: size %d, %d values", ErrSizeAndValues, input.Size, len(input.Values))
		}

		return input.Values, nil
	}

	size := input.Size
	if size == 0 {
		size = DefaultArraySize
	}

	if size > MaxArraySize {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrArrayTooLarge, size, MaxArraySize)
	}

	values, err := arraygen.NewGenerator(input.Seed).Generate(size)
	if err != nil {
		return nil, fmt.Errorf("generate array: %w", err)
	}

	return values, nil
}

func (s *Server) recordRun(ctx context.Context, trace *sorting.Trace, elapsed time.Duration) {
	if s.sortMetrics == nil {
		return
	}

	algo := string(trace.Algorithm)

	for _, ev := range trace.Events {
		var roles []string

		for _, role := range step.Roles() {
			if len(ev.Indices(role)) > 0 {
				roles = append(roles, string(role))
			}
		}

		s.sortMetrics.RecordStep(ctx, algo, roles)
	}

	s.sortMetrics.RecordRun(ctx, algo, "completed", elapsed)
}
