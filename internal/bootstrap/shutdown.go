package bootstrap

import (
	"context"
	"log/slog"
)

type stoppable interface {
	Stop(context.Context) error
}

type closable interface {
	Stop() error
}

type releasable interface {
	Close()
}

// ShutdownComponents holds all components that need graceful shutdown.
// Nil members are skipped.
type ShutdownComponents struct {
	Server stoppable
	Bot    closable
	Store  releasable
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Discord gateway (stop receiving interactions)
// 3. Store (after in-flight operations have drained)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedStop, "error", err)
		}
	}

	if components.Bot != nil {
		slog.Info(LogMsgShuttingDownBot)
		if err := components.Bot.Stop(); err != nil {
			slog.Error(LogMsgBotStopFailed, "error", err)
		}
	}

	if components.Store != nil {
		slog.Info(LogMsgClosingStore)
		components.Store.Close()
	}

	slog.Info(LogMsgShutdownComplete)
}
