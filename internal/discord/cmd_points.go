package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MapBot_Go/internal/domain"
)

var adminPermission int64 = discordgo.PermissionAdministrator

var minPointsDelta float64 = -domain.MaxPointsDelta

// PointsCommand returns the /punkty command definition and handler
func PointsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "punkty",
		Description: "Sprawdź ile ktoś ma punktów",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Czyje punkty sprawdzić",
				Required:    false,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		inv, err := guildInvocation(ctx, s, i)
		if err != nil {
			return err
		}
		targetID, err := memberOption(i, "member", inv.MemberID)
		if err != nil {
			respond(ctx, s, i, MsgGenericError, true)
			return err
		}

		profile, err := deps.Ledger.GetOrCreateProfile(ctx, targetID, inv.GuildID)
		if err != nil {
			respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
			return err
		}

		if targetID == inv.MemberID {
			respond(ctx, s, i, fmt.Sprintf(MsgPointsSelfFmt, formatNumber(profile.Points)), false)
		} else {
			respond(ctx, s, i, fmt.Sprintf(MsgPointsOtherFmt, targetID, formatNumber(profile.Points)), false)
		}
		return nil
	}

	return cmd, handler
}

// PointsTopCommand returns the /punkty-top command definition and handler
func PointsTopCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "punkty-top",
		Description: "Sprawdź osoby z największą ilością punktów",
	}

	return cmd, guildList(listPointsTop, MsgPointsTopTitle)
}

// PointsAddCommand returns the admin /punkty-dodaj command definition and handler
func PointsAddCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:                     "punkty-dodaj",
		Description:              "Dodaj lub odejmij komuś punkty",
		DefaultMemberPermissions: &adminPermission,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Liczba punktów, ujemna odejmuje",
				Required:    true,
				MinValue:    &minPointsDelta,
				MaxValue:    domain.MaxPointsDelta,
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Komu zmienić punkty",
				Required:    true,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		inv, err := guildInvocation(ctx, s, i)
		if err != nil {
			return err
		}
		if !isAdmin(i) {
			respond(ctx, s, i, MsgAdminOnly, true)
			return errForbidden
		}

		opt, ok := getOption(i, "amount")
		if !ok {
			respond(ctx, s, i, MsgGenericError, true)
			return domain.ErrInvalidAmount
		}
		amount := int(opt.IntValue())
		if amount == 0 {
			respond(ctx, s, i, MsgPointsZero, true)
			return domain.ErrInvalidAmount
		}
		targetID, err := memberOption(i, "member", inv.MemberID)
		if err != nil {
			respond(ctx, s, i, MsgGenericError, true)
			return err
		}

		profile, err := deps.Ledger.GetOrCreateProfile(ctx, targetID, inv.GuildID)
		if err != nil {
			respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
			return err
		}
		profile, err = deps.Ledger.AdjustPoints(ctx, profile.ID, amount, domain.ReasonAdminAdjustment)
		if errors.Is(err, domain.ErrInsufficientFunds) {
			respond(ctx, s, i, MsgPointsOverdraft, true)
			return err
		}
		if err != nil {
			respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
			return err
		}

		respond(ctx, s, i, fmt.Sprintf(MsgPointsAddedFmt, formatNumber(amount), targetID, formatNumber(profile.Points)), false)
		return nil
	}

	return cmd, handler
}

// TransactionsCommand returns the /transakcje command definition and handler.
// Only administrators may read another member's history.
func TransactionsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "transakcje",
		Description: "Historia zmian punktów",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Czyją historię pokazać",
				Required:    false,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) error {
		inv, err := guildInvocation(ctx, s, i)
		if err != nil {
			return err
		}
		targetID, err := memberOption(i, "member", inv.MemberID)
		if err != nil {
			respond(ctx, s, i, MsgGenericError, true)
			return err
		}
		if targetID != inv.MemberID && !isAdmin(i) {
			respond(ctx, s, i, MsgAdminOnly, true)
			return errForbidden
		}

		if !deferResponse(ctx, s, i) {
			return errDeferFailed
		}
		profile, err := deps.Ledger.GetOrCreateProfile(ctx, targetID, inv.GuildID)
		if err != nil {
			respondError(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost))
			return err
		}

		title := fmt.Sprintf(MsgTransactionsTitle, displayName(i, strconv.FormatInt(targetID, 10)))
		return sendFirstPage(ctx, s, i, deps, listTransactions, profile.ID, title)
	}

	return cmd, handler
}
