package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/config"
	"github.com/Sumatoshi-tech/sortviz/pkg/mcp"
	"github.com/Sumatoshi-tech/sortviz/pkg/observability"
)

// newMCPCommand creates the MCP server command.
func newMCPCommand(opts *globalOptions) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes sortviz as tools that AI agents can discover and invoke:
  - sortviz_trace: Run an algorithm and return its step trace
  - sortviz_algorithms: List the supported algorithms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			// Stdout carries the protocol, so logs are always JSON on stderr.
			cfg.Logging.Format = config.LogFormatJSON
			if debug {
				cfg.Logging.Level = "debug"
			}

			providers, err := initObservability(cmd, cfg, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer shutdownObservability(providers)

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			sortMetrics, err := observability.NewSortMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:      providers.Logger,
				Metrics:     red,
				Tracer:      providers.Tracer,
				SortMetrics: sortMetrics,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
