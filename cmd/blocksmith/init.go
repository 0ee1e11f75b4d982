package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/blocksmith/internal/cli"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project with the default export graph",
	Long:  `Writes blocksmith.yaml, an empty scene manifest and the default export graph into --dir. Existing files are kept unless --force is given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		written, err := cli.Init(cmd.Context(), projectOptions(cmd), force)
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		if err == nil && len(written) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "project already initialized")
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}
