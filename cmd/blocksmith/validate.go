package main

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph]",
	Short: "Check the graph and the tool setup for problems",
	Long:  `Reports unknown kinds, broken or incompatible links, gaps in variable pins, unresolved placeholders and exporters that are not ready, then checks the configured tool paths.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		p, err := openProject(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		return p.Validate(cmd.Context(), cmd.OutOrStdout(), graphArg(args), strict)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail on warnings too")
}
