package main

import (
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [graph]",
	Short: "List recorded export runs, newest first",
	Long:  `Lists the export runs kept by the configured ledger. Without a graph name every graph is listed. The memory ledger only holds the runs of the current process; configure the redis ledger to keep history across invocations.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		return p.PrintHistory(cmd.Context(), cmd.OutOrStdout(), graphArg(args), limit)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs (0 for all)")
}
