package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/MapBot_Go/internal/bootstrap"
)

func init() {
	rootCmd.AddCommand(waitForDBCmd)
	waitForDBCmd.Flags().Int("retries", DefaultWaitRetries, "Number of connection attempts")
	waitForDBCmd.Flags().Duration("interval", DefaultWaitInterval, "Delay between attempts")
}

var waitForDBCmd = &cobra.Command{
	Use:   "wait-for-db",
	Short: "Wait for the configured store to accept connections",
	Args:  cobra.NoArgs,
	RunE:  runWaitForDB,
}

func runWaitForDB(cmd *cobra.Command, args []string) error {
	retries, _ := cmd.Flags().GetInt("retries")
	interval, _ := cmd.Flags().GetDuration("interval")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := 0; i < retries; i++ {
		db, err := bootstrap.OpenDatabase(cfg)
		if err == nil {
			err = db.Store.Ping(cmd.Context())
			db.Close()
			if err == nil {
				fmt.Fprintln(out, MsgDatabaseReady)
				return nil
			}
		}

		fmt.Fprintf(out, MsgDatabaseNotReadyFmt, i+1, retries, err)
		if i < retries-1 {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(interval):
			}
		}
	}

	return fmt.Errorf(ErrMsgDatabaseNeverReadyFmt, retries)
}
