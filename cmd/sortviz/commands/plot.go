package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/playback"
	"github.com/Sumatoshi-tech/sortviz/pkg/render/plotpage"
	"github.com/Sumatoshi-tech/sortviz/pkg/traceio"
)

const (
	flagTrace         = "trace"
	defaultPlotOutput = "sortviz.html"
)

type plotOptions struct {
	sortFlags

	output    string
	theme     string
	maxFrames int
	trace     string
}

func newPlotCommand(opts *globalOptions) *cobra.Command {
	po := &plotOptions{}

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Write an HTML flipbook of a sort",
		Long: `Render a run as an HTML page with one bar chart per step, colored by role.
Long runs are sampled down to --max-frames charts, keeping the first and last.
With --trace the page is built from a saved trace instead of a fresh run.

Examples:
  sortviz plot -a merge -n 20
  sortviz plot --trace quick.json.lz4 --theme light -o quick.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlot(cmd, opts, po)
		},
	}

	po.register(cmd)
	cmd.Flags().StringVarP(&po.output, flagOutput, "o", defaultPlotOutput, "output HTML file")
	cmd.Flags().StringVar(&po.theme, flagTheme, config.DefaultTheme, "page theme (dark, light)")
	cmd.Flags().IntVar(&po.maxFrames, flagMaxFrames, config.DefaultMaxFrames, "maximum number of charts on the page")
	cmd.Flags().StringVar(&po.trace, flagTrace, "", "build the page from a saved trace file")

	return cmd
}

func runPlot(cmd *cobra.Command, opts *globalOptions, po *plotOptions) error {
	applyOutput := func(cfg *config.Config) {
		if cmd.Flags().Changed(flagTheme) {
			cfg.Output.Theme = po.theme
		}

		if cmd.Flags().Changed(flagMaxFrames) {
			cfg.Output.MaxFrames = po.maxFrames
		}
	}

	if po.trace != "" {
		return plotTrace(cmd, opts, po, applyOutput)
	}

	cfg, sorter, values, err := prepare(cmd, opts, &po.sortFlags, applyOutput)
	if err != nil {
		return err
	}

	providers, err := initObservability(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer shutdownObservability(providers)

	ctx, span := providers.Tracer.Start(cmd.Context(), "sortviz.plot")
	defer span.End()

	sortMetrics, err := observability.NewSortMetrics(providers.Meter)
	if err != nil {
		return err
	}

	file, err := os.Create(po.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", po.output, err)
	}

	page := plotpage.NewPage(plotpage.DefaultTitle, "").
		WithTheme(cfg.Theme()).
		WithMaxFrames(cfg.Output.MaxFrames)

	driver := &playback.Driver{
		Renderer: plotpage.NewRenderer(file, page),
		Metrics:  sortMetrics,
		Logger:   commandLogger(providers, cmd),
	}

	_, err = driver.Play(ctx, sorter, values)

	closeErr := file.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return fmt.Errorf("plot %s: %w", sorter.Name(), err)
	}

	reportWritten(cmd, opts, page)

	return nil
}

func plotTrace(cmd *cobra.Command, opts *globalOptions, po *plotOptions, applyOutput func(*config.Config)) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	applyOutput(cfg)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	maxSize, err := cfg.MaxTraceBytes()
	if err != nil {
		return err
	}

	trace, err := traceio.Load(po.trace, maxSize)
	if err != nil {
		return err
	}

	err = trace.Verify()
	if err != nil {
		return fmt.Errorf("trace %s: %w", po.trace, err)
	}

	page := plotpage.NewPage(plotpage.DefaultTitle,
		plotpage.Describe(trace.Algorithm, len(trace.Input), len(trace.Events))).
		WithTheme(cfg.Theme()).
		WithMaxFrames(cfg.Output.MaxFrames)
	page.Add(plotpage.FramesFromTrace(trace)...)

	file, err := os.Create(po.output)
	if err != nil {
		return fmt.Errorf("create %s: %w", po.output, err)
	}

	err = errors.Join(page.Render(file), file.Close())
	if err != nil {
		return err
	}

	reportWritten(cmd, opts, page)

	return nil
}

func reportWritten(cmd *cobra.Command, opts *globalOptions, page *plotpage.Page) {
	if opts.quiet {
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d frames)\n", cmd.Flag(flagOutput).Value.String(), page.Len())
}
