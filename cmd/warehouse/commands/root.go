package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Warehouse robotics dashboard backend",
	Long: `Warehouse Unified CLI

Robots report shelf scans; the backend keeps a per-product stock
projection and asks forecast providers when to reorder.

Usage:
  go run ./cmd/warehouse [command]

Examples:
  go run ./cmd/warehouse migrate
  go run ./cmd/warehouse seed
  go run ./cmd/warehouse api
  go run ./cmd/warehouse reconcile
  go run ./cmd/warehouse forecast run`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
