// Package commands implements the sortviz CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
	"github.com/Sumatoshi-tech/sortviz/pkg/version"
)

// globalOptions holds the persistent root flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	quiet      bool
}

// NewRootCommand builds the sortviz command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "sortviz",
		Short: "Sortviz - step-by-step sorting algorithm visualizer",
		Long: `Sortviz runs classic sorting algorithms over a random array and shows
every step: compared, swapped and pivot indices, and merged ranges.

Commands:
  play        Animate a sort in the terminal
  trace       Record a step trace to JSON, YAML or LZ4
  plot        Write an HTML flipbook of a sort
  diff        Compare two saved traces
  validate    Check a saved trace against the trace schema
  algorithms  List the supported algorithms
  mcp         Start the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default: search for sortviz.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(newPlayCommand(opts))
	rootCmd.AddCommand(newTraceCommand(opts))
	rootCmd.AddCommand(newPlotCommand(opts))
	rootCmd.AddCommand(newDiffCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newAlgorithmsCommand())
	rootCmd.AddCommand(newMCPCommand(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// load reads the configuration file and applies the verbosity flags.
func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	switch {
	case o.verbose:
		cfg.Logging.Level = "debug"
	case o.quiet:
		cfg.Logging.Level = "error"
	}

	return cfg, nil
}

// initObservability starts telemetry for one command run. Logs go to the
// command's error stream.
func initObservability(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) (observability.Providers, error) {
	providers, err := observability.InitWithWriter(cfg.ObservabilityConfig(version.Version, mode), cmd.ErrOrStderr())
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}

func shutdownObservability(providers observability.Providers) {
	shutdownErr := providers.Shutdown(context.Background())
	if shutdownErr != nil {
		providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
	}
}

// commandLogger tags the logger with the running subcommand.
func commandLogger(providers observability.Providers, cmd *cobra.Command) *slog.Logger {
	return providers.Logger.With("command", cmd.Name())
}
