package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/blocksmith"
	"github.com/aretw0/blocksmith/internal/cli"
	"github.com/aretw0/blocksmith/internal/presentation/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status [graph]",
	Short: "Show which nodes are ready for export",
	Long:  `Builds the graph against the scene and reports the readiness of every exporter. With --watch the report is refreshed whenever the graphs or the scene manifest change.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		sockets, _ := cmd.Flags().GetBool("sockets")

		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		out := cmd.OutOrStdout()
		if !watch {
			return p.PrintStatus(cmd.Context(), out, graphArg(args), sockets)
		}

		tui.PrintBanner(out, blocksmith.Version)
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()
		return p.WatchStatus(sigCtx, out, graphArg(args), sockets)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolP("watch", "w", false, "Refresh the report on changes")
	statusCmd.Flags().Bool("sockets", false, "List every socket instead of the summary")
}
