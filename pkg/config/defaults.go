package config

// Sort defaults.
const (
	DefaultArraySize = 50
	DefaultAlgorithm = "bubble"
	DefaultSpeed     = 0.1
	DefaultSeed      = 0
	DefaultMinValue  = 1
	DefaultMaxValue  = 100
)

// Output defaults.
const (
	DefaultOutputFormat = FormatTerminal
	DefaultNoColor      = false
	DefaultTheme        = "dark"
	DefaultMaxFrames    = 200
	DefaultMaxTraceSize = "64MB"
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Observability defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPHeaders  = ""
	DefaultOTLPInsecure = false
	DefaultMetricsAddr  = ""
	DefaultEnvironment  = ""
	DefaultSampleRatio  = 0.0
)

// Output formats.
const (
	FormatTerminal = "terminal"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatLZ4      = "lz4"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// minMaxFrames keeps room for the first and last frame.
const minMaxFrames = 2
