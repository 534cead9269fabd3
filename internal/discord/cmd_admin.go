package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// GrantSegmentCommand returns the admin /mapa-daj command definition and handler
func GrantSegmentCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minSegment := 1.0
	cmd := &discordgo.ApplicationCommand{
		Name:                     "mapa-daj",
		Description:              "Daj członkowi część mapy",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Komu dać część mapy",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "segment",
				Description: "Numer części, domyślnie losowa",
				Required:    false,
				MinValue:    &minSegment,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		inv, targetID, err := adminTarget(ctx, s, i)
		if err != nil {
			return err
		}

		var number *int
		if opt, ok := getOption(i, "segment"); ok {
			n := int(opt.IntValue())
			number = &n
		}

		profile, err := deps.Ledger.GetOrCreateProfile(ctx, targetID, inv.GuildID)
		if err != nil {
			respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
			return err
		}

		res, err := deps.Purchase.GrantSegment(ctx, profile, number)
		if err != nil {
			respond(ctx, s, i, deps.adminErrorMessage(err), true)
			return err
		}

		respond(ctx, s, i, fmt.Sprintf(MsgSegmentGrantedFmt, targetID, res.Segment), false)
		if res.Completion != nil {
			followup(ctx, s, i, &discordgo.WebhookParams{
				Embeds: []*discordgo.MessageEmbed{
					createEmbed(MsgCompletedTitle, fmt.Sprintf(MsgMemberCompletedFmt, targetID, res.Completion.Position)),
				},
			})
		}
		return nil
	}

	return cmd, handler
}

// RevokeSegmentCommand returns the admin /mapa-zabierz command definition and handler
func RevokeSegmentCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minSegment := 1.0
	cmd := &discordgo.ApplicationCommand{
		Name:                     "mapa-zabierz",
		Description:              "Zabierz członkowi część mapy",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Komu zabrać część mapy",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "segment",
				Description: "Numer części",
				Required:    true,
				MinValue:    &minSegment,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		inv, targetID, err := adminTarget(ctx, s, i)
		if err != nil {
			return err
		}

		opt, ok := getOption(i, "segment")
		if !ok {
			respond(ctx, s, i, fmt.Sprintf(MsgInvalidSegmentFmt, deps.Economy.SegmentCount()), true)
			return domain.ErrInvalidSegment
		}
		number := int(opt.IntValue())
		if number < 1 || number > deps.Economy.SegmentCount() {
			respond(ctx, s, i, fmt.Sprintf(MsgInvalidSegmentFmt, deps.Economy.SegmentCount()), true)
			return domain.ErrInvalidSegment
		}

		profile, err := deps.Ledger.GetOrCreateProfile(ctx, targetID, inv.GuildID)
		if err != nil {
			respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
			return err
		}

		removed, err := deps.Purchase.RevokeSegment(ctx, profile, number)
		if err != nil {
			respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
			return err
		}
		if !removed {
			respond(ctx, s, i, MsgSegmentNotOwned, true)
			return nil
		}

		respond(ctx, s, i, fmt.Sprintf(MsgSegmentRevokedFmt, targetID, number), false)
		return nil
	}

	return cmd, handler
}

// adminTarget checks the caller is an administrator and reads the member option
func adminTarget(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (invocation, int64, error) {
	inv, err := guildInvocation(ctx, s, i)
	if err != nil {
		return invocation{}, 0, err
	}
	if !isAdmin(i) {
		respond(ctx, s, i, MsgAdminOnly, true)
		return invocation{}, 0, errForbidden
	}
	targetID, err := memberOption(i, "member", inv.MemberID)
	if err != nil {
		respond(ctx, s, i, MsgGenericError, true)
		return invocation{}, 0, err
	}
	return inv, targetID, nil
}

func (d *Deps) adminErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyOwned):
		return MsgSegmentOwned
	case errors.Is(err, domain.ErrPoolExhausted):
		return MsgMemberMapComplete
	case errors.Is(err, domain.ErrInvalidSegment):
		return fmt.Sprintf(MsgInvalidSegmentFmt, d.Economy.SegmentCount())
	default:
		return errorMessage(err, d.Economy.SegmentCost)
	}
}

// SyncCommand returns the owner-only /sync command, which force-registers
// every command with Discord
func SyncCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     "sync",
		Description:              "Zsynchronizuj komendy bota",
		DefaultMemberPermissions: &adminPermission,
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		user := getInteractionUser(i)
		app, err := s.Application("@me")
		if err != nil {
			respond(ctx, s, i, MsgGenericError, true)
			return fmt.Errorf(ErrMsgFetchAppFmt, err)
		}
		if user == nil || app.Owner == nil || app.Owner.ID != user.ID {
			respond(ctx, s, i, MsgOwnerOnly, true)
			return errForbidden
		}

		if !deferResponse(ctx, s, i) {
			return errDeferFailed
		}
		count, err := RegisterCommands(s, deps.Registry, deps.GuildID, true)
		if err != nil {
			respondError(ctx, s, i, MsgGenericError)
			return err
		}
		editResponse(ctx, s, i, fmt.Sprintf(MsgSyncedFmt, count))
		return nil
	}

	return cmd, handler
}
