package discord

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/mapimage"
	"github.com/osse101/MapBot_Go/internal/purchase"
)

// Button custom id prefixes. Both carry the map owner's member id and an expiry.
const (
	customIDBuyOne = "map-buy"
	customIDBuyAll = "map-buyall"
)

// MapCommand returns the /mapa command definition and handler
func MapCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "mapa",
		Description: "Pokaż swoją mapę lub mapę innego członka",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "member",
				Description: "Czyją mapę pokazać",
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

		if !deferResponse(ctx, s, i) {
			return errDeferFailed
		}

		profile, err := deps.Ledger.GetOrCreateProfile(ctx, targetID, inv.GuildID)
		if err != nil {
			respondError(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost))
			return err
		}

		title := fmt.Sprintf(MsgMapTitleFmt, displayName(i, strconv.FormatInt(targetID, 10)))
		view, err := deps.mapView(ctx, profile, title, targetID == inv.MemberID)
		if err != nil {
			respondError(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost))
			return err
		}

		editWithMap(ctx, s, i, view)
		return nil
	}

	return cmd, handler
}

// mapMessage is a rendered /mapa message
type mapMessage struct {
	Embed      *discordgo.MessageEmbed
	Image      []byte
	Components []discordgo.MessageComponent
	Owned      int
}

// mapView renders a profile's map. Buy buttons are attached only for the
// owner's own view while segments remain.
func (d *Deps) mapView(ctx context.Context, profile *domain.Profile, title string, self bool) (*mapMessage, error) {
	owned, err := d.Segments.GetOwnedSegments(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	img, err := d.Renderer.RenderJPEG(ctx, owned)
	if err != nil {
		return nil, err
	}

	total := d.Economy.SegmentCount()
	embed := createEmbed(title, mapProgress(len(owned), total, self, profile.MemberID))
	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + mapimage.DefaultFileName}

	msg := &mapMessage{Embed: embed, Image: img, Components: []discordgo.MessageComponent{}, Owned: len(owned)}
	if self && len(owned) < total {
		msg.Components = d.buyButtons(profile)
	}
	return msg, nil
}

func (d *Deps) buyButtons(profile *domain.Profile) []discordgo.MessageComponent {
	owner := strconv.FormatInt(profile.MemberID, 10)
	expires := encodeExpiry(d.now().Add(d.ViewTimeout))
	cantAfford := !profile.CanAfford(d.Economy.SegmentCost)

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    MsgBuyOneLabel,
					Style:    discordgo.SuccessButton,
					CustomID: joinCustomID(customIDBuyOne, owner, expires),
					Disabled: cantAfford,
				},
				discordgo.Button{
					Label:    MsgBuyAllLabel,
					Style:    discordgo.PrimaryButton,
					CustomID: joinCustomID(customIDBuyAll, owner, expires),
					Disabled: cantAfford,
				},
			},
		},
	}
}

// editWithMap replaces the acknowledged message with the map and its buttons
func editWithMap(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, view *mapMessage) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:      &[]*discordgo.MessageEmbed{view.Embed},
		Components:  &view.Components,
		Attachments: &[]*discordgo.MessageAttachment{},
		Files: []*discordgo.File{{
			Name:        mapimage.DefaultFileName,
			ContentType: mapimage.ContentType,
			Reader:      bytes.NewReader(view.Image),
		}},
	}); err != nil {
		logError(ctx, LogMsgEditFailed, err)
	}
}

// handleBuyButton serves "Kup element" and, with all set, "Kup wszystko"
func handleBuyButton(all bool) ComponentHandler {
	return func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, args []string) error {
		if len(args) != 2 {
			respond(ctx, s, i, MsgGenericError, true)
			return fmt.Errorf(ErrMsgCustomIDFmt, i.MessageComponentData().CustomID)
		}
		inv, err := guildInvocation(ctx, s, i)
		if err != nil {
			return err
		}

		ownerID, err := parseSnowflake(args[0])
		if err != nil {
			respond(ctx, s, i, MsgGenericError, true)
			return err
		}
		expires, err := decodeExpiry(args[1])
		if err != nil {
			respond(ctx, s, i, MsgGenericError, true)
			return err
		}
		if deps.now().After(expires) {
			respond(ctx, s, i, MsgViewExpired, true)
			return errExpired
		}
		if inv.MemberID != ownerID {
			respond(ctx, s, i, MsgNotMapOwner, true)
			return errForbidden
		}

		if !deferUpdate(ctx, s, i) {
			return errDeferFailed
		}

		cost := deps.Economy.SegmentCost
		profile, err := deps.Ledger.GetOrCreateProfile(ctx, inv.MemberID, inv.GuildID)
		if err != nil {
			followupEphemeral(ctx, s, i, errorMessage(err, cost))
			return err
		}

		var res *purchase.BuyResult
		if all {
			res, err = deps.Purchase.BuyAllAffordable(ctx, profile, cost)
		} else {
			res, err = deps.Purchase.BuyOne(ctx, profile, cost)
		}
		if err != nil {
			followupEphemeral(ctx, s, i, errorMessage(err, cost))
			return err
		}

		title := fmt.Sprintf(MsgMapTitleFmt, displayName(i, args[0]))
		if i.Message != nil && len(i.Message.Embeds) > 0 {
			title = i.Message.Embeds[0].Title
		}
		view, err := deps.mapView(ctx, res.Profile, title, true)
		if err != nil {
			followupEphemeral(ctx, s, i, errorMessage(err, cost))
			return err
		}
		editWithMap(ctx, s, i, view)

		followup(ctx, s, i, &discordgo.WebhookParams{
			Embeds: []*discordgo.MessageEmbed{purchaseEmbed(res, view.Owned, deps.Economy.SegmentCount())},
			Flags:  discordgo.MessageFlagsEphemeral,
		})
		if res.Completed() {
			followup(ctx, s, i, &discordgo.WebhookParams{
				Embeds: []*discordgo.MessageEmbed{
					createEmbed(MsgCompletedTitle, fmt.Sprintf(MsgCompletedFmt, res.Completion.Position)),
				},
			})
		}
		return nil
	}
}

func purchaseEmbed(res *purchase.BuyResult, owned, total int) *discordgo.MessageEmbed {
	if res.Count > 1 {
		return createEmbed(MsgPurchasedManyTitle,
			fmt.Sprintf(MsgPurchasedManyFmt, res.Count, formatNumber(res.Cost), owned, total))
	}
	return createEmbed(MsgPurchasedTitle, fmt.Sprintf(MsgPurchasedFmt, owned, total))
}
