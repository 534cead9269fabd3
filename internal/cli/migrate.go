package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osse101/MapBot_Go/internal/bootstrap"
	"github.com/osse101/MapBot_Go/internal/database/migrations"
	"github.com/osse101/MapBot_Go/internal/handler"
	"github.com/osse101/MapBot_Go/internal/logger"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the store schema",
	Long:  `Apply, roll back or inspect the embedded schema migrations of the configured store (DB_DRIVER).`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(cmd *cobra.Command, db *bootstrap.Database) error {
		if err := migrations.Up(cmd.Context(), db.Dialect, db.SQL); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), MsgMigrationsDone)
		return err
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(cmd *cobra.Command, db *bootstrap.Database) error {
		if err := migrations.Down(cmd.Context(), db.Dialect, db.SQL); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), MsgMigrationUndone)
		return err
	}),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: withDatabase(func(cmd *cobra.Command, db *bootstrap.Database) error {
		statuses, err := migrations.Status(cmd.Context(), db.Dialect, db.SQL)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, MsgStatusHeader)
		for _, s := range statuses {
			applied := MsgNotApplied
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format(StatusTimeFormat)
			}
			fmt.Fprintf(w, MsgStatusRowFmt, s.Source.Version, s.State, applied, s.Source.Path)
		}
		return w.Flush()
	}),
}

// withDatabase loads the config, opens the store without migrating and
// closes it when fn returns
func withDatabase(fn func(cmd *cobra.Command, db *bootstrap.Database) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, bootstrap.ServiceName, handler.CurrentVersion().Version, cfg.Environment, false))

		db, err := bootstrap.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		return fn(cmd, db)
	}
}
