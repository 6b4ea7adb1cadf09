package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
	"github.com/Sumatoshi-tech/sortviz/pkg/tracediff"
)

// ErrTracesDiffer is returned by diff when the two traces are not identical.
var ErrTracesDiffer = errors.New("traces differ")

func newDiffCommand(opts *globalOptions) *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two saved traces",
		Long: `Compare two trace files event by event and print a line diff.
Exits non-zero when the traces differ.

Examples:
  sortviz diff run1.json run2.json
  sortviz diff baseline.json.lz4 rerun.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, opts, args[0], args[1], noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, flagNoColor, false, "disable colored output")

	return cmd
}

func runDiff(cmd *cobra.Command, opts *globalOptions, pathA, pathB string, noColor bool) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	maxSize, err := cfg.MaxTraceBytes()
	if err != nil {
		return err
	}

	a, err := traceio.Load(pathA, maxSize)
	if err != nil {
		return err
	}

	b, err := traceio.Load(pathB, maxSize)
	if err != nil {
		return err
	}

	res := tracediff.Diff(a, b)
	out := cmd.OutOrStdout()

	if res.Identical() {
		if !opts.quiet {
			fmt.Fprintf(out, "traces are identical (%d events)\n", len(a.Events))
		}

		return nil
	}

	if !opts.quiet {
		writeColoredDiff(out, res.Text, noColor || cfg.Output.NoColor)
		fmt.Fprintf(out, "\n%d lines added, %d removed, first divergence at event %d\n",
			res.Inserted, res.Deleted, res.FirstDivergence)
	}

	return fmt.Errorf("%w: %s and %s", ErrTracesDiffer, pathA, pathB)
}

func writeColoredDiff(w io.Writer, text string, noColor bool) {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	if noColor {
		added.DisableColor()
		removed.DisableColor()
	}

	for line := range strings.Lines(text) {
		switch {
		case strings.HasPrefix(line, "+"):
			added.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			removed.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
