package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
)

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"zero size", func(c *config.Config) { c.Sort.ArraySize = 0 }, config.ErrInvalidArraySize},
		{"negative size", func(c *config.Config) { c.Sort.ArraySize = -3 }, config.ErrInvalidArraySize},
		{"too fast", func(c *config.Config) { c.Sort.Speed = 0.01 }, config.ErrInvalidSpeed},
		{"too slow", func(c *config.Config) { c.Sort.Speed = 3 }, config.ErrInvalidSpeed},
		{"range", func(c *config.Config) { c.Sort.MinValue = 50; c.Sort.MaxValue = 10 }, config.ErrInvalidRange},
		{"algorithm", func(c *config.Config) { c.Sort.Algorithm = "bogo" }, config.ErrUnknownAlgorithm},
		{"format", func(c *config.Config) { c.Output.Format = "pdf" }, config.ErrInvalidFormat},
		{"theme", func(c *config.Config) { c.Output.Theme = "neon" }, config.ErrInvalidTheme},
		{"frames", func(c *config.Config) { c.Output.MaxFrames = 1 }, config.ErrInvalidMaxFrames},
		{"trace size", func(c *config.Config) { c.Output.MaxTraceSize = "lots" }, config.ErrInvalidTraceSize},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
		{"sample ratio", func(c *config.Config) { c.Observability.SampleRatio = 1.5 }, config.ErrInvalidSampling},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tc.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestValidate_UnknownAlgorithmKeepsSortingSentinel(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Sort.Algorithm = "bogo"

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrUnknownAlgorithm)
	require.ErrorIs(t, err, sorting.ErrUnknownAlgorithm)
}

func TestValidate_CanonicalizesAlgorithm(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Sort.Algorithm = "Insertion-Sort"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "insertion", cfg.Sort.Algorithm)
}

func TestLoadConfig_InvalidFileValue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sortviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sort:\n  speed: 5\n"), 0o600))

	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, config.ErrInvalidSpeed)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sortviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sort: [unclosed\n"), 0o600))

	_, err := config.LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "sortviz.yaml"), []byte("sort:\n  array_size: 77\n"), 0o600))

	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Sort.ArraySize)
}

func TestLoadConfig_NoFileFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
