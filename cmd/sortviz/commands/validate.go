package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/safeconv"
	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
)

const stdinPath = "-"

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check a saved trace against the trace schema",
		Long: `Validate a trace file against the embedded JSON schema, then check that the
recorded run is coherent: role indices in range, the last snapshot equal to
the final array, and the final array a sorted permutation of the input.
YAML and LZ4 traces are decoded and checked as JSON.

Examples:
  sortviz validate merge.json
  sortviz validate - < merge.json
  sortviz validate quick.json.lz4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args[0], noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, flagNoColor, false, "disable colored output")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *globalOptions, path string, noColor bool) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	maxSize, err := cfg.MaxTraceBytes()
	if err != nil {
		return err
	}

	data, err := readTraceJSON(cmd.InOrStdin(), path, maxSize)
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)

	if noColor || cfg.Output.NoColor {
		ok.DisableColor()
		bad.DisableColor()
	}

	out := cmd.OutOrStdout()

	err = traceio.Validate(data)
	if err == nil {
		if !opts.quiet {
			ok.Fprintf(out, "✓ %s: valid trace (%s)\n", path, humanize.Bytes(safeconv.ByteCount(len(data))))
		}

		return nil
	}

	var verr *traceio.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	if !opts.quiet {
		bad.Fprintf(out, "✗ %s: %d violation(s)\n", path, len(verr.Violations))

		for _, v := range verr.Violations {
			fmt.Fprintf(out, "  - %s\n", v)
		}
	}

	return fmt.Errorf("%s: %w", path, traceio.ErrInvalidTrace)
}

// readTraceJSON returns the trace at path as JSON. JSON files and stdin are
// passed through untouched so schema errors point at the original document;
// other formats are decoded and re-encoded.
func readTraceJSON(stdin io.Reader, path string, maxSize int64) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(io.LimitReader(stdin, maxSize+1))
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		if int64(len(data)) > maxSize {
			return nil, fmt.Errorf("%w: stdin exceeds %s", traceio.ErrTraceTooLarge, humanize.Bytes(safeconv.ByteCount(maxSize)))
		}

		return data, nil
	}

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat trace file: %w", err)
		}

		if info.Size() > maxSize {
			return nil, fmt.Errorf("%w: %s is %s, limit %s", traceio.ErrTraceTooLarge, path,
				humanize.Bytes(safeconv.ByteCount(info.Size())), humanize.Bytes(safeconv.ByteCount(maxSize)))
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read trace file: %w", err)
		}

		return data, nil
	}

	trace, err := traceio.Load(path, maxSize)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	err = (&traceio.JSONCodec{}).Encode(&buf, trace)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
