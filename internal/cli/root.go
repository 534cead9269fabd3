// Package cli holds the mapbot command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/osse101/MapBot_Go/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "mapbot",
	Short: "Discord map collection bot",
	Long: `mapbot runs the map collection economy for a Discord guild.
Members earn points, buy randomly drawn map segments and race to complete
the map. Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the command tree against os.Args
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig is swapped in tests
var loadConfig = config.Load
