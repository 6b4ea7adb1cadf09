package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/playback"
	"github.com/Sumatoshi-tech/sortviz/pkg/render/summary"
	"github.com/Sumatoshi-tech/sortviz/pkg/render/terminal"
)

const flagMetricsAddr = "metrics-addr"

type playOptions struct {
	sortFlags

	speed       float64
	noColor     bool
	metricsAddr string
}

func newPlayCommand(opts *globalOptions) *cobra.Command {
	po := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Animate a sort in the terminal",
		Long: `Generate a random array (or use --values) and animate the chosen algorithm
in the terminal, one step every --speed seconds. A summary table is printed
when the run ends. Press Ctrl+C to stop early.

Examples:
  sortviz play
  sortviz play -a quick -n 30 -s 0.2
  sortviz play -a insertion --values 5,3,1,4,2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, opts, po)
		},
	}

	po.register(cmd)
	cmd.Flags().Float64VarP(&po.speed, flagSpeed, "s", config.DefaultSpeed, "seconds between steps (0.1 to 2)")
	cmd.Flags().BoolVar(&po.noColor, flagNoColor, false, "disable colored output")
	cmd.Flags().StringVar(&po.metricsAddr, flagMetricsAddr, "", "serve Prometheus metrics on this address while playing (e.g. :9090)")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *globalOptions, po *playOptions) error {
	cfg, sorter, values, err := prepare(cmd, opts, &po.sortFlags, func(cfg *config.Config) {
		flags := cmd.Flags()

		if flags.Changed(flagSpeed) {
			cfg.Sort.Speed = po.speed
		}

		if flags.Changed(flagNoColor) {
			cfg.Output.NoColor = po.noColor
		}

		if flags.Changed(flagMetricsAddr) {
			cfg.Observability.MetricsAddr = po.metricsAddr
		}
	})
	if err != nil {
		return err
	}

	providers, err := initObservability(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer shutdownObservability(providers)

	logger := commandLogger(providers, cmd)

	if providers.MetricsHandler != nil {
		metricsSrv, srvErr := observability.StartMetricsServer(
			cfg.Observability.MetricsAddr, providers.MetricsHandler, providers.Tracer, logger)
		if srvErr != nil {
			return srvErr
		}

		defer func() {
			closeErr := metricsSrv.Close(context.Background())
			if closeErr != nil {
				logger.Warn("metrics server close failed", "error", closeErr)
			}
		}()
	}

	sortMetrics, err := observability.NewSortMetrics(providers.Meter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	termCfg := terminal.NewConfig()
	termCfg.NoColor = termCfg.NoColor || cfg.Output.NoColor
	termCfg.Clear = out == os.Stdout && !termCfg.NoColor

	driver := &playback.Driver{
		Renderer: terminal.NewRenderer(out, termCfg),
		Delay:    cfg.Delay(),
		Metrics:  sortMetrics,
		Logger:   logger,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, span := providers.Tracer.Start(ctx, "sortviz.play")
	defer span.End()

	res, err := driver.Play(ctx, sorter, values)

	switch {
	case errors.Is(err, context.Canceled):
		logger.InfoContext(ctx, "playback interrupted", "events", res.Events)
	case err != nil:
		return fmt.Errorf("play %s: %w", sorter.Name(), err)
	}

	if opts.quiet {
		return nil
	}

	return summary.WriteStats(out, res.Stats(), res.Duration)
}
