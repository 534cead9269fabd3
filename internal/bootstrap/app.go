package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/osse101/MapBot_Go/internal/concurrency"
	"github.com/osse101/MapBot_Go/internal/config"
	"github.com/osse101/MapBot_Go/internal/discord"
	"github.com/osse101/MapBot_Go/internal/ledger"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/mapimage"
	"github.com/osse101/MapBot_Go/internal/pool"
	"github.com/osse101/MapBot_Go/internal/purchase"
	"github.com/osse101/MapBot_Go/internal/ranking"
	"github.com/osse101/MapBot_Go/internal/repository"
	"github.com/osse101/MapBot_Go/internal/server"
)

// Services are the core components built over one store
type Services struct {
	Ledger   ledger.Service
	Purchase purchase.Service
	Ranking  ranking.Service
	Renderer *mapimage.Renderer
}

// NewServices wires the core components. Ledger and purchase share one lock
// manager so a profile's points and segments are serialised together.
func NewServices(store repository.Store, cfg *config.Config) (*Services, error) {
	segmentPool, err := pool.New(cfg.Economy.SegmentCount())
	if err != nil {
		return nil, err
	}

	renderer, err := mapimage.New(mapimage.Options{
		Dir:     cfg.SegmentsDir,
		Columns: cfg.Economy.Columns,
		Rows:    cfg.Economy.Rows,
	})
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreateRendererFmt, err)
	}

	locks := concurrency.NewLockManager[int64]()
	return &Services{
		Ledger:   ledger.NewService(store, locks),
		Purchase: purchase.NewService(store, segmentPool, locks),
		Ranking:  ranking.NewService(store),
		Renderer: renderer,
	}, nil
}

// App is the running bot: store, HTTP surface and Discord gateway
type App struct {
	cfg    *config.Config
	DB     *Database
	Server *server.Server
	Bot    *discord.Bot
}

// NewApp opens the store and builds every component. Nothing is started yet.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := NewServices(db.Store, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	bot, err := discord.New(discord.Config{
		Token:       cfg.BotToken,
		ForceUpdate: cfg.ForceCommandUpdate,
	}, &discord.Deps{
		Ledger:      svc.Ledger,
		Purchase:    svc.Purchase,
		Ranking:     svc.Ranking,
		Segments:    db.Store,
		Renderer:    svc.Renderer,
		Economy:     cfg.Economy,
		ViewTimeout: cfg.ViewTimeout,
		GuildID:     cfg.GuildID,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(ErrMsgCreateBotFmt, err)
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		CORSOrigins:    cfg.CORSOrigins,
	}, db.Store, svc.Ranking, svc.Renderer)

	logger.FromContext(ctx).Info(LogMsgServicesWired,
		"segments", cfg.Economy.SegmentCount(),
		"segment_cost", cfg.Economy.SegmentCost)

	return &App{cfg: cfg, DB: db, Server: srv, Bot: bot}, nil
}

// Run starts the HTTP server and the gateway, then blocks until ctx is
// cancelled or the server fails. Everything is shut down before it returns.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := a.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	components := ShutdownComponents{Server: a.Server, Store: a.DB}
	if err := a.Bot.Start(); err != nil {
		a.shutdown(components)
		return fmt.Errorf(ErrMsgStartBotFmt, err)
	}
	components.Bot = a.Bot

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info(LogMsgShutdownSignal)
	case err := <-serverErr:
		runErr = fmt.Errorf(ErrMsgServerFmt, err)
	}

	a.shutdown(components)
	return runErr
}

func (a *App) shutdown(components ShutdownComponents) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownPeriod)
	defer cancel()
	GracefulShutdown(ctx, components)
}
