package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/blocksmith/internal/cli"
)

var exportCmd = &cobra.Command{
	Use:   "export [graph]",
	Short: "Export every root exporter of the graph",
	Long:  `Runs the external tools for every exporter of the graph, in dependency order, and writes the block definition. The run is recorded in the export history.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args, false)
	},
}

var definitionsCmd = &cobra.Command{
	Use:   "definitions [graph]",
	Short: "Rewrite the block definitions without running any tool",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args, true)
	},
}

func runExport(cmd *cobra.Command, args []string, definitionsOnly bool) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer p.Close()

	sigCtx := cli.NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	_, err = p.Export(sigCtx, cmd.OutOrStdout(), graphArg(args), definitionsOnly)
	return err
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(definitionsCmd)
}
