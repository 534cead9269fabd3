// Package discord is the Polish slash-command gateway over the map economy.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MapBot_Go/internal/config"
	"github.com/osse101/MapBot_Go/internal/ledger"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/purchase"
	"github.com/osse101/MapBot_Go/internal/ranking"
)

// SegmentReader reads a profile's owned segments
type SegmentReader interface {
	GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error)
}

// MapRenderer composes the JPEG shown by /mapa
type MapRenderer interface {
	RenderJPEG(ctx context.Context, owned []int) ([]byte, error)
}

// Deps is everything a command handler can reach
type Deps struct {
	Ledger   ledger.Service
	Purchase purchase.Service
	Ranking  ranking.Service
	Segments SegmentReader
	Renderer MapRenderer

	Economy     config.Economy
	ViewTimeout time.Duration
	GuildID     string // commands are registered in this guild only when set
	Registry    *CommandRegistry

	// Now is overridden in tests to expire buttons
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Config holds the bot configuration
type Config struct {
	Token       string
	ForceUpdate bool
}

// Bot represents the Discord bot
type Bot struct {
	Session *discordgo.Session
	Deps    *Deps
	cfg     Config
}

// New creates a new Discord bot with every map command registered
func New(cfg Config, deps *Deps) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCreateSessionFmt, err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	if deps.Registry == nil {
		deps.Registry = DefaultRegistry()
	}

	return &Bot{
		Session: s,
		Deps:    deps,
		cfg:     cfg,
	}, nil
}

// Start opens the gateway connection and syncs the command set
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf(ErrMsgOpenConnectionFmt, err)
	}

	// The bot can still serve commands registered by a previous run
	if _, err := RegisterCommands(b.Session, b.Deps.Registry, b.Deps.GuildID, b.cfg.ForceUpdate); err != nil {
		logger.Error("Failed to register commands", "error", err)
	}

	logger.Info(LogMsgBotRunning)
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.Session.Close()
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	logger.Info(LogMsgBotReady, "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := logger.WithNewRequestID(context.Background())
	Dispatch(ctx, s, i, b.Deps)
}

// Dispatch routes an interaction to its command or component handler
func Dispatch(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		deps.Registry.Handle(ctx, s, i, deps)
	case discordgo.InteractionMessageComponent:
		deps.Registry.HandleComponent(ctx, s, i, deps)
	}
}
