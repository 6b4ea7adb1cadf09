// Package config loads sortviz settings from defaults, an optional YAML file
// and SORTVIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/sortviz/pkg/arraygen"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/playback"
	"github.com/Sumatoshi-tech/sortviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
)

// Sentinel validation errors.
var (
	ErrInvalidArraySize = errors.New("array size must be positive")
	ErrInvalidSpeed     = errors.New("invalid speed")
	ErrInvalidRange     = errors.New("min value exceeds max value")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidFormat    = errors.New("invalid output format")
	ErrInvalidTheme     = errors.New("invalid theme")
	ErrInvalidMaxFrames = errors.New("max frames must be at least 2")
	ErrInvalidTraceSize = errors.New("invalid max trace size")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
	ErrInvalidSampling  = errors.New("sample ratio must be between 0 and 1")
)

const (
	envPrefix      = "SORTVIZ"
	configName     = "sortviz"
	configType     = "yaml"
	homeConfigPath = "$HOME/.sortviz"
)

// Config holds all configuration for sortviz.
type Config struct {
	Sort          SortConfig      `mapstructure:"sort"`
	Output        OutputConfig    `mapstructure:"output"`
	Logging       LoggingConfig   `mapstructure:"logging"`
	Observability TelemetryConfig `mapstructure:"observability"`
}

// SortConfig describes the array and algorithm of a run.
type SortConfig struct {
	Algorithm string  `mapstructure:"algorithm"`
	ArraySize int     `mapstructure:"array_size"`
	Speed     float64 `mapstructure:"speed"`
	Seed      uint64  `mapstructure:"seed"`
	MinValue  int     `mapstructure:"min_value"`
	MaxValue  int     `mapstructure:"max_value"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format       string `mapstructure:"format"`
	Theme        string `mapstructure:"theme"`
	MaxTraceSize string `mapstructure:"max_trace_size"`
	MaxFrames    int    `mapstructure:"max_frames"`
	NoColor      bool   `mapstructure:"no_color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds export settings for traces and metrics.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// OTLPHeaders is a "key=value,key=value" list sent with every export.
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`

	Environment string  `mapstructure:"environment"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches ".", "./config" and "$HOME/.sortviz" for
// sortviz.yaml; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType(configType)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath(homeConfigPath)
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the built-in configuration without reading any file or environment.
func Default() *Config {
	return &Config{
		Sort: SortConfig{
			Algorithm: DefaultAlgorithm,
			ArraySize: DefaultArraySize,
			Speed:     DefaultSpeed,
			Seed:      DefaultSeed,
			MinValue:  DefaultMinValue,
			MaxValue:  DefaultMaxValue,
		},
		Output: OutputConfig{
			Format:       DefaultOutputFormat,
			Theme:        DefaultTheme,
			MaxTraceSize: DefaultMaxTraceSize,
			MaxFrames:    DefaultMaxFrames,
			NoColor:      DefaultNoColor,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Observability: TelemetryConfig{
			OTLPEndpoint: DefaultOTLPEndpoint,
			OTLPHeaders:  DefaultOTLPHeaders,
			MetricsAddr:  DefaultMetricsAddr,
			Environment:  DefaultEnvironment,
			SampleRatio:  DefaultSampleRatio,
			OTLPInsecure: DefaultOTLPInsecure,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Sort defaults.
	viperCfg.SetDefault("sort.array_size", DefaultArraySize)
	viperCfg.SetDefault("sort.algorithm", DefaultAlgorithm)
	viperCfg.SetDefault("sort.speed", DefaultSpeed)
	viperCfg.SetDefault("sort.seed", DefaultSeed)
	viperCfg.SetDefault("sort.min_value", DefaultMinValue)
	viperCfg.SetDefault("sort.max_value", DefaultMaxValue)

	// Output defaults.
	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.no_color", DefaultNoColor)
	viperCfg.SetDefault("output.theme", DefaultTheme)
	viperCfg.SetDefault("output.max_frames", DefaultMaxFrames)
	viperCfg.SetDefault("output.max_trace_size", DefaultMaxTraceSize)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	// Observability defaults.
	viperCfg.SetDefault("observability.otlp_endpoint", DefaultOTLPEndpoint)
	viperCfg.SetDefault("observability.otlp_headers", DefaultOTLPHeaders)
	viperCfg.SetDefault("observability.otlp_insecure", DefaultOTLPInsecure)
	viperCfg.SetDefault("observability.metrics_addr", DefaultMetricsAddr)
	viperCfg.SetDefault("observability.environment", DefaultEnvironment)
	viperCfg.SetDefault("observability.sample_ratio", DefaultSampleRatio)
}

// Validate checks every setting and canonicalizes the algorithm name.
func (c *Config) Validate() error {
	if c.Sort.ArraySize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidArraySize, c.Sort.ArraySize)
	}

	if err := playback.ValidateSpeed(c.Sort.Speed); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpeed, err)
	}

	if c.Sort.MinValue > c.Sort.MaxValue {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, c.Sort.MinValue, c.Sort.MaxValue)
	}

	algo, err := sorting.ParseAlgorithm(c.Sort.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownAlgorithm, err)
	}

	c.Sort.Algorithm = string(algo)

	if !slices.Contains(Formats(), c.Output.Format) {
		return fmt.Errorf("%w: %q (available: %s)", ErrInvalidFormat, c.Output.Format, strings.Join(Formats(), ", "))
	}

	if _, err := plotpage.ParseTheme(c.Output.Theme); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTheme, err)
	}

	if c.Output.MaxFrames < minMaxFrames {
		return fmt.Errorf("%w: %d", ErrInvalidMaxFrames, c.Output.MaxFrames)
	}

	if _, err := traceio.ParseMaxSize(c.Output.MaxTraceSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTraceSize, err)
	}

	if _, err := observability.ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	if c.Logging.Format != LogFormatText && c.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampling, c.Observability.SampleRatio)
	}

	return nil
}

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatTerminal, FormatHTML, FormatJSON, FormatYAML, FormatLZ4}
}

// Algorithm returns the configured algorithm. Valid after Validate.
func (c *Config) Algorithm() sorting.Algorithm {
	return sorting.Algorithm(c.Sort.Algorithm)
}

// Delay returns the pause between frames.
func (c *Config) Delay() time.Duration {
	return playback.SpeedToDelay(c.Sort.Speed)
}

// Generator returns an array generator honoring the configured range and seed.
func (c *Config) Generator() arraygen.Generator {
	gen := arraygen.NewGenerator(c.Sort.Seed)
	gen.Min = c.Sort.MinValue
	gen.Max = c.Sort.MaxValue

	return gen
}

// Theme returns the configured HTML theme. Valid after Validate.
func (c *Config) Theme() plotpage.Theme {
	return plotpage.Theme(c.Output.Theme)
}

// MaxTraceBytes returns the parsed trace size limit.
func (c *Config) MaxTraceBytes() (int64, error) {
	n, err := traceio.ParseMaxSize(c.Output.MaxTraceSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTraceSize, err)
	}

	return n, nil
}

// ObservabilityConfig builds the telemetry settings for a run of the binary.
func (c *Config) ObservabilityConfig(version string, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = c.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = c.Observability.OTLPInsecure
	obsCfg.Prometheus = c.Observability.MetricsAddr != ""
	obsCfg.Environment = c.Observability.Environment
	obsCfg.SampleRatio = c.Observability.SampleRatio
	obsCfg.LogJSON = c.Logging.Format == LogFormatJSON
	obsCfg.LogLevel = c.LogLevel()

	return obsCfg
}

// LogLevel returns the parsed log level, info when unparsable.
func (c *Config) LogLevel() slog.Level {
	level, err := observability.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelInfo
	}

	return level
}
