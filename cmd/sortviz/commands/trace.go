package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/playback"
	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
)

type traceOptions struct {
	sortFlags

	format string
	output string
}

func newTraceCommand(opts *globalOptions) *cobra.Command {
	to := &traceOptions{}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Record a step trace to JSON, YAML or LZ4",
		Long: `Run an algorithm headless and write every step event to a trace file.
Without --format the format follows the --output extension, or JSON on stdout.

Examples:
  sortviz trace -a merge -n 10 --seed 7 > merge.json
  sortviz trace -a quick -n 500 -o quick.json.lz4
  sortviz trace -a bubble --values 5,3,1,4,2 --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrace(cmd, opts, to)
		},
	}

	to.register(cmd)
	cmd.Flags().StringVar(&to.format, flagFormat, "", "trace format (json, yaml, lz4)")
	cmd.Flags().StringVarP(&to.output, flagOutput, "o", "", "output file (default: stdout)")

	return cmd
}

func runTrace(cmd *cobra.Command, opts *globalOptions, to *traceOptions) error {
	cfg, sorter, values, err := prepare(cmd, opts, &to.sortFlags, nil)
	if err != nil {
		return err
	}

	codec, err := traceCodec(cmd, cfg, to)
	if err != nil {
		return err
	}

	providers, err := initObservability(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer shutdownObservability(providers)

	ctx, span := providers.Tracer.Start(cmd.Context(), "sortviz.trace")
	defer span.End()

	sortMetrics, err := observability.NewSortMetrics(providers.Meter)
	if err != nil {
		return err
	}

	recorder := &playback.Recorder{}
	driver := &playback.Driver{
		Renderer: recorder,
		Metrics:  sortMetrics,
		Logger:   commandLogger(providers, cmd),
	}

	_, err = driver.Play(ctx, sorter, values)
	if err != nil {
		return fmt.Errorf("record %s: %w", sorter.Name(), err)
	}

	trace := recorder.Trace()

	if to.output == "" {
		return traceio.Write(cmd.OutOrStdout(), codec, trace)
	}

	err = traceio.Save(to.output, codec, trace)
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d events to %s\n", len(trace.Events), to.output)
	}

	return nil
}

// traceCodec picks the codec from --format, the output extension, the
// configured output format, or JSON, in that order.
func traceCodec(cmd *cobra.Command, cfg *config.Config, to *traceOptions) (traceio.Codec, error) {
	if cmd.Flags().Changed(flagFormat) {
		return traceio.CodecFor(to.format)
	}

	if to.output != "" {
		return traceio.CodecForPath(to.output)
	}

	if slices.Contains(traceio.Formats(), cfg.Output.Format) {
		return traceio.CodecFor(cfg.Output.Format)
	}

	return traceio.NewJSONCodec(), nil
}
