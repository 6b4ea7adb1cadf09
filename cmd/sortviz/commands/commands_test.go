package commands_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sortviz/cmd/sortviz/commands"
	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
)

// execute runs the root command with a private config file so the test
// never picks up a sortviz.yaml from the working or home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "sortviz.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o600))

	return executeWithConfig(t, cfgPath, args...)
}

func executeWithConfig(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.Execute()

	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sortviz "))
	assert.Contains(t, out, "commit:")
}

func TestAlgorithmsCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "algorithms")
	require.NoError(t, err)

	for _, algo := range sorting.Algorithms() {
		assert.Contains(t, out, algo.DisplayName())
	}

	assert.Contains(t, out, "5 ALGORITHMS")
}

func TestTraceCommand_StdoutJSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "trace", "-a", "insertion", "--values", "5,3,1,4,2")
	require.NoError(t, err)

	trace, err := traceio.NewJSONCodec().Decode(strings.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, sorting.Insertion, trace.Algorithm)
	assert.Equal(t, []int{5, 3, 1, 4, 2}, trace.Input)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, trace.Final)
	assert.Len(t, trace.Events, 4)
	require.NoError(t, traceio.Validate([]byte(out)))
}

func TestTraceCommand_FormatFromExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "merge.json.lz4")

	_, err := execute(t, "trace", "-a", "merge", "-n", "12", "--seed", "3", "-o", path)
	require.NoError(t, err)

	trace, err := traceio.Load(path, 0)
	require.NoError(t, err)

	assert.Equal(t, sorting.Merge, trace.Algorithm)
	assert.Len(t, trace.Input, 12)
	require.NoError(t, trace.Verify())
}

func TestTraceCommand_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "trace", "--values", "2,1", "--format", "xml")
	require.ErrorIs(t, err, traceio.ErrUnknownFormat)
}

func TestTraceCommand_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "trace", "-a", "bogo", "--values", "2,1")
	require.ErrorIs(t, err, config.ErrUnknownAlgorithm)
	require.ErrorIs(t, err, sorting.ErrUnknownAlgorithm)
}

func TestTraceCommand_ConfigFileAndFlagPrecedence(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "custom.yaml")
	content := "sort:\n  algorithm: selection\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	out, err := executeWithConfig(t, cfgPath, "trace", "--values", "3,1,2")
	require.NoError(t, err)

	trace, err := traceio.NewJSONCodec().Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, sorting.Selection, trace.Algorithm)

	out, err = executeWithConfig(t, cfgPath, "trace", "--values", "3,1,2", "-a", "quick")
	require.NoError(t, err)

	trace, err = traceio.NewJSONCodec().Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, sorting.Quick, trace.Algorithm)
}

func TestTraceThenValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"run.json", "run.yaml", "run.json.lz4"} {
		path := filepath.Join(dir, name)

		_, err := execute(t, "trace", "-a", "quick", "-n", "15", "--seed", "11", "-o", path)
		require.NoError(t, err)

		out, err := execute(t, "validate", "--no-color", path)
		require.NoError(t, err, name)
		assert.Contains(t, out, "valid trace")
	}
}

func TestValidateCommand_RejectsTamperedTrace(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	doc := `{"algorithm":"bubble","input":[2,1],"final":[2,1],"events":[]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	out, err := execute(t, "validate", "--no-color", path)
	require.ErrorIs(t, err, traceio.ErrInvalidTrace)
	assert.Contains(t, out, "violation")
}

func TestDiffCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.yaml")
	other := filepath.Join(dir, "c.json")

	for path, algo := range map[string]string{first: "bubble", second: "bubble", other: "selection"} {
		_, err := execute(t, "trace", "-a", algo, "-n", "8", "--seed", "5", "-o", path)
		require.NoError(t, err)
	}

	out, err := execute(t, "diff", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, "identical")

	out, err = execute(t, "diff", "--no-color", first, other)
	require.ErrorIs(t, err, commands.ErrTracesDiffer)
	assert.Contains(t, out, "-algorithm bubble")
	assert.Contains(t, out, "+algorithm selection")
}

func TestPlotCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")

	_, err := execute(t, "plot", "-a", "merge", "--values", "4,3,2,1", "--theme", "light", "-o", page)
	require.NoError(t, err)

	html, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Sorting Algorithm Visualization")
	assert.Contains(t, string(html), "Merge Sort")

	tracePath := filepath.Join(dir, "quick.json")
	_, err = execute(t, "trace", "-a", "quick", "-n", "40", "-o", tracePath)
	require.NoError(t, err)

	fromTrace := filepath.Join(dir, "from-trace.html")
	_, err = execute(t, "plot", "--trace", tracePath, "--max-frames", "5", "-o", fromTrace)
	require.NoError(t, err)

	html, err = os.ReadFile(fromTrace)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Quick Sort on 40 values")
}

func TestPlotCommand_InvalidMaxFrames(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "plot", "--values", "2,1", "--max-frames", "1", "-o", filepath.Join(t.TempDir(), "x.html"))
	require.ErrorIs(t, err, config.ErrInvalidMaxFrames)
}

func TestPlayCommand_PrintsSummary(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "play", "--no-color", "-a", "bubble", "--values", "2,1")
	require.NoError(t, err)

	assert.Contains(t, out, "step 1")
	assert.Contains(t, out, "Run summary")
	assert.Contains(t, out, "YES")
}

func TestPlayCommand_QuietSkipsSummary(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "play", "-q", "--no-color", "--values", "1,2,3")
	require.NoError(t, err)
	assert.NotContains(t, out, "Run summary")
}

func TestPlayCommand_RejectsSpeedOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "play", "--values", "2,1", "--speed", "5")
	require.ErrorIs(t, err, config.ErrInvalidSpeed)
}

func TestPlayCommand_RejectsEmptyValues(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "play", "--values", " , ")
	require.ErrorIs(t, err, commands.ErrEmptyValues)
}
