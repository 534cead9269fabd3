package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// PingCommand returns the ping command definition and handler
func PingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Ping Pong 🏓",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		respond(ctx, s, i, fmt.Sprintf(MsgPongFmt, s.HeartbeatLatency().Milliseconds()), false)
		return nil
	}

	return cmd, handler
}
