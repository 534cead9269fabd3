package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/ranking"
)

// customIDPage buttons carry kind, subject, target offset, expiry and direction
const customIDPage = "page"

// List kinds served by the paginator. The subject is a guild id for the
// leaderboards and a profile id for transactions.
const (
	listPointsTop    = "points"
	listSegmentTop   = "segments"
	listCompletions  = "completions"
	listTransactions = "tx"
)

const (
	pagePrev = "p"
	pageNext = "n"
)

// pageView is one rendered page of a list
type pageView struct {
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// sendFirstPage answers a deferred command with the first page of a list
func sendFirstPage(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, kind string, subject int64, title string) error {
	view, err := deps.renderPage(ctx, kind, subject, title, domain.FirstPage(deps.Economy.PageSize))
	if err != nil {
		respondError(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost))
		return err
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{view.Embed},
		Components: &view.Components,
	}); err != nil {
		logError(ctx, LogMsgEditFailed, err)
	}
	return nil
}

// renderPage fetches one page of the list and lays it out with arrow buttons
func (d *Deps) renderPage(ctx context.Context, kind string, subject int64, title string, page domain.Page) (*pageView, error) {
	var (
		lines   []string
		hasNext bool
		err     error
	)

	switch kind {
	case listPointsTop:
		res, qerr := d.Ranking.TopByPoints(ctx, subject, page)
		lines, hasNext, err = pageLines(res, qerr, func(n int, p domain.Profile) string {
			return fmt.Sprintf("%d. %s pkt - <@%d>", page.Offset+n+1, formatNumber(p.Points), p.MemberID)
		})
	case listSegmentTop:
		total := d.Economy.SegmentCount()
		res, qerr := d.Ranking.SegmentLeaderboard(ctx, subject, page)
		lines, hasNext, err = pageLines(res, qerr, func(n int, c domain.SegmentCount) string {
			return fmt.Sprintf("%d. <@%d> - **%d/%d**", page.Offset+n+1, c.MemberID, c.Owned, total)
		})
	case listCompletions:
		res, qerr := d.Ranking.CompletionOrder(ctx, subject, page)
		lines, hasNext, err = pageLines(res, qerr, func(_ int, c domain.CompletionRecord) string {
			return fmt.Sprintf("%d. <@%d> - %s", c.Position, c.MemberID, timestamp(c.CompletedAt, "f"))
		})
	case listTransactions:
		res, qerr := d.Ranking.TransactionHistory(ctx, subject, page)
		lines, hasNext, err = pageLines(res, qerr, func(_ int, t domain.Transaction) string {
			return fmt.Sprintf("`%s` %s - %s", formatSigned(t.Amount), reasonLabel(t.Reason), timestamp(t.Timestamp, "R"))
		})
	default:
		return nil, fmt.Errorf(ErrMsgCustomIDFmt, kind)
	}
	if err != nil {
		return nil, err
	}

	description := MsgEmptyList
	if len(lines) > 0 {
		description = strings.Join(lines, "\n")
	}
	embed := createEmbed(title, description)
	embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf(MsgPageFooterFmt, page.Offset/page.Limit+1)}

	return &pageView{Embed: embed, Components: d.pageButtons(kind, subject, page, hasNext)}, nil
}

func pageLines[T any](res *ranking.Result[T], err error, line func(n int, item T) string) ([]string, bool, error) {
	if err != nil {
		return nil, false, err
	}
	lines := make([]string, len(res.Items))
	for n, item := range res.Items {
		lines[n] = line(n, item)
	}
	return lines, res.HasNext, nil
}

func (d *Deps) pageButtons(kind string, subject int64, page domain.Page, hasNext bool) []discordgo.MessageComponent {
	subjectID := strconv.FormatInt(subject, 10)
	expires := encodeExpiry(d.now().Add(d.ViewTimeout))
	button := func(emoji, dir string, target domain.Page, disabled bool) discordgo.Button {
		return discordgo.Button{
			Emoji:    &discordgo.ComponentEmoji{Name: emoji},
			Style:    discordgo.SecondaryButton,
			CustomID: joinCustomID(customIDPage, kind, subjectID, strconv.Itoa(target.Offset), expires, dir),
			Disabled: disabled,
		}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				button(MsgPrevPageEmoji, pagePrev, page.Prev(), page.Offset == 0),
				button(MsgNextPageEmoji, pageNext, page.Next(), !hasNext),
			},
		},
	}
}

// handlePageButton flips a paginated message. Anyone may flip.
func handlePageButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps, args []string) error {
	if len(args) != 5 {
		respond(ctx, s, i, MsgGenericError, true)
		return fmt.Errorf(ErrMsgCustomIDFmt, i.MessageComponentData().CustomID)
	}

	kind := args[0]
	subject, err := parseSnowflake(args[1])
	if err != nil {
		respond(ctx, s, i, MsgGenericError, true)
		return err
	}
	offset, err := strconv.Atoi(args[2])
	if err != nil {
		respond(ctx, s, i, MsgGenericError, true)
		return err
	}
	expires, err := decodeExpiry(args[3])
	if err != nil {
		respond(ctx, s, i, MsgGenericError, true)
		return err
	}
	if deps.now().After(expires) {
		respond(ctx, s, i, MsgViewExpired, true)
		return errExpired
	}

	title := ""
	if i.Message != nil && len(i.Message.Embeds) > 0 {
		title = i.Message.Embeds[0].Title
	}

	view, err := deps.renderPage(ctx, kind, subject, title, domain.Page{Offset: offset, Limit: deps.Economy.PageSize})
	if err != nil {
		respond(ctx, s, i, errorMessage(err, deps.Economy.SegmentCost), true)
		return err
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{view.Embed},
			Components: view.Components,
		},
	}); err != nil {
		logError(ctx, LogMsgRespondFailed, err)
	}
	return nil
}
