package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sortviz/pkg/render/summary"
)

func newAlgorithmsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the supported algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return summary.WriteCatalog(cmd.OutOrStdout())
		},
	}
}
