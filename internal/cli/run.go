package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osse101/MapBot_Go/internal/bootstrap"
	"github.com/osse101/MapBot_Go/internal/config"
	"github.com/osse101/MapBot_Go/internal/logger"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("force-sync", false, "Overwrite the registered slash commands even when unchanged")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Discord bot and the HTTP API",
	Long: `Start the Discord gateway and the read-only HTTP API over the configured store.
Pending migrations are applied first. SIGINT or SIGTERM shuts everything down.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireBotToken(); err != nil {
		return err
	}
	if force, _ := cmd.Flags().GetBool("force-sync"); force {
		cfg.ForceCommandUpdate = true
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	for _, w := range warnings {
		slog.Warn(LogMsgConfigWarning, "warning", w)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithNewRequestID(ctx)

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	if err := app.Run(ctx); err != nil {
		return err
	}

	slog.Info(LogMsgBotStopped)
	return nil
}
