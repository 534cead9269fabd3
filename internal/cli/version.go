package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/MapBot_Go/internal/handler"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := handler.CurrentVersion()
		_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFmt, v.Version, v.GoVersion, v.GitCommit, v.BuildTime)
		return err
	},
}
