// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for every sortviz mode (terminal playback, file export,
// MCP server).
package observability

import "log/slog"

// AppMode names how the binary was launched; it is attached to every log
// record and to the OTel resource.
type AppMode string

const (
	// ModeCLI covers play, trace, plot and the other one-shot commands.
	ModeCLI AppMode = "cli"
	// ModeMCP is the long-running MCP stdio server.
	ModeMCP AppMode = "mcp"
)

const (
	defaultServiceName        = "sortviz"
	defaultShutdownTimeoutSec = 5
)

// Config selects exporters and logging for one process.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Environment is free-form, e.g. "dev" or "classroom".
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is a gRPC collector address such as "localhost:4317".
	// Leave empty to run with no-op providers.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// Prometheus backs the meter with a private Prometheus registry served
	// through Providers.MetricsHandler. OTLP wins when both are set.
	Prometheus bool

	// DebugTrace samples every span regardless of SampleRatio.
	DebugTrace  bool
	SampleRatio float64

	LogLevel slog.Level
	LogJSON  bool

	// ShutdownTimeoutSec bounds the final flush.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup: CLI mode, info
// logs as text, nothing exported.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
