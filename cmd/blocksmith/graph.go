package main

import (
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [graph]",
	Short: "Print the graph as a Mermaid diagram",
	Long:  `Builds the graph against the scene and outputs a Mermaid diagram (graph LR). Incompatible links are drawn red and links selecting no objects are dashed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		return p.PrintGraph(cmd.Context(), cmd.OutOrStdout(), graphArg(args))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
