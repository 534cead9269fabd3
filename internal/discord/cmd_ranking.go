package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// MapTopCommand returns the /mapa-top command definition and handler
func MapTopCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "mapa-top",
		Description: "Członkowie z największą liczbą części mapy",
	}
	return cmd, guildList(listSegmentTop, MsgSegmentTopTitle)
}

// CompletionsCommand returns the /mapa-ukonczenia command definition and handler
func CompletionsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "mapa-ukonczenia",
		Description: "Kolejność ukończenia map",
	}
	return cmd, guildList(listCompletions, MsgCompletionsTitle)
}

func guildList(kind, title string) CommandHandler {
	return func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		inv, err := guildInvocation(ctx, s, i)
		if err != nil {
			return err
		}
		if !deferResponse(ctx, s, i) {
			return errDeferFailed
		}
		return sendFirstPage(ctx, s, i, deps, kind, inv.GuildID, title)
	}
}
