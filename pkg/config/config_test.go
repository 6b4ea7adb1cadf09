package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test-config-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(content)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, 50, cfg.Sort.ArraySize)
	assert.Equal(t, "bubble", cfg.Sort.Algorithm)
	assert.InDelta(t, 0.1, cfg.Sort.Speed, 1e-9)
	assert.Equal(t, 1, cfg.Sort.MinValue)
	assert.Equal(t, 100, cfg.Sort.MaxValue)
	assert.Equal(t, "terminal", cfg.Output.Format)
	assert.Equal(t, 200, cfg.Output.MaxFrames)
	assert.Equal(t, "64MB", cfg.Output.MaxTraceSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Observability.OTLPEndpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
sort:
  array_size: 12
  algorithm: "Merge Sort"
  speed: 0.5
  seed: 7
  min_value: 10
  max_value: 20

output:
  format: html
  theme: light
  max_frames: 40

logging:
  level: debug
  format: json

observability:
  metrics_addr: "127.0.0.1:9464"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Sort.ArraySize)
	assert.Equal(t, "merge", cfg.Sort.Algorithm)
	assert.Equal(t, sorting.Merge, cfg.Algorithm())
	assert.Equal(t, 500*time.Millisecond, cfg.Delay())
	assert.Equal(t, uint64(7), cfg.Sort.Seed)
	assert.Equal(t, "html", cfg.Output.Format)
	assert.Equal(t, plotpage.ThemeLight, cfg.Theme())
	assert.Equal(t, 40, cfg.Output.MaxFrames)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "127.0.0.1:9464", cfg.Observability.MetricsAddr)

	gen := cfg.Generator()
	assert.Equal(t, 10, gen.Min)
	assert.Equal(t, 20, gen.Max)
	assert.Equal(t, uint64(7), gen.Seed)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SORTVIZ_SORT_ARRAY_SIZE", "9")
	t.Setenv("SORTVIZ_SORT_ALGORITHM", "quick")
	t.Setenv("SORTVIZ_SORT_SEED", "42")
	t.Setenv("SORTVIZ_OUTPUT_NO_COLOR", "true")
	t.Setenv("SORTVIZ_OBSERVABILITY_OTLP_ENDPOINT", "collector:4317")

	cfg, err := config.LoadConfig(writeConfig(t, "sort:\n  array_size: 30\n"))
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Sort.ArraySize)
	assert.Equal(t, sorting.Quick, cfg.Algorithm())
	assert.Equal(t, uint64(42), cfg.Sort.Seed)
	assert.True(t, cfg.Output.NoColor)
	assert.Equal(t, "collector:4317", cfg.Observability.OTLPEndpoint)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(t.TempDir() + "/absent.yaml")
	require.Error(t, err)
}

func TestMaxTraceBytes(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	n, err := cfg.MaxTraceBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(64_000_000), n)

	cfg.Output.MaxTraceSize = "huge"

	_, err = cfg.MaxTraceBytes()
	require.ErrorIs(t, err, config.ErrInvalidTraceSize)
}

func TestObservabilityConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Logging.Format = config.LogFormatJSON
	cfg.Logging.Level = "warn"
	cfg.Observability.MetricsAddr = ":9464"
	cfg.Observability.OTLPEndpoint = "otel:4317"
	cfg.Observability.OTLPInsecure = true
	cfg.Observability.OTLPHeaders = "api-key=secret, tenant=class"

	obs := cfg.ObservabilityConfig("1.2.3", observability.ModeMCP)

	assert.Equal(t, "sortviz", obs.ServiceName)
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, observability.ModeMCP, obs.Mode)
	assert.True(t, obs.LogJSON)
	assert.Equal(t, slog.LevelWarn, obs.LogLevel)
	assert.True(t, obs.Prometheus)
	assert.True(t, obs.OTLPInsecure)
	assert.Equal(t, "otel:4317", obs.OTLPEndpoint)
	assert.Equal(t, map[string]string{"api-key": "secret", "tenant": "class"}, obs.OTLPHeaders)
}

func TestLoadConfigFullIntRangeGenerates(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, `sort:
  min_value: -9223372036854775808
  max_value: 9223372036854775807
  seed: 3
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	var values []int

	require.NotPanics(t, func() {
		values, err = cfg.Generator().Generate(8)
	})
	require.NoError(t, err)
	assert.Len(t, values, 8)
}
