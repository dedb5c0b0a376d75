package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "motionctl",
	Short: "Adaptive animation performance controller tools",
	Long: `motionctl operates the adaptive animation performance controller:
simulate frame-rate scenarios, inspect the persisted preference state,
replay recorded fixtures, and serve the diagnostics API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults apply when absent)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
