package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/blocksmith/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "blocksmith",
	Short: "Blocksmith exports block node graphs into game-ready files",
	Long: `Blocksmith evaluates the export node graph of a block scene and runs the
external tools (FBX export, Havok filtering, MwmBuilder) that turn it into
models and block definitions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := cli.ExitCode(err)
		if code != cli.ExitOK {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the Blocksmith project")
	rootCmd.PersistentFlags().String("config", "", "Config file (default <dir>/blocksmith.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level")
}

func projectOptions(cmd *cobra.Command) cli.Options {
	dir, _ := cmd.Flags().GetString("dir")
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{Dir: dir, ConfigPath: configPath, Debug: debug}
}

// openProject opens the project the flags point at. The caller closes it.
func openProject(cmd *cobra.Command) (*cli.Project, error) {
	return cli.Open(projectOptions(cmd))
}

// graphArg is the optional graph name argument. Empty selects the scene's export graph.
func graphArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
