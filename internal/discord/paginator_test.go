package discord

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageButtonIDs splits the arrow buttons of a captured page
func pageButtonIDs(t *testing.T, req capturedRequest) (prev, next map[string]any, nextID string) {
	t.Helper()
	for id, b := range req.Buttons() {
		switch {
		case strings.HasSuffix(id, customIDSep+pagePrev):
			prev = b
		case strings.HasSuffix(id, customIDSep+pageNext):
			next, nextID = b, id
		}
	}
	require.NotNil(t, prev)
	require.NotNil(t, next)
	return prev, next, nextID
}

func TestPointsTop_Paginates(t *testing.T) {
	tc := SetupTestContext(t)
	for n := 0; n < 12; n++ {
		tc.Profile(t, fmt.Sprintf("%d", 1000+n), 10*(n+1))
	}

	tc.Run(newCommand("punkty-top", newMember(testMemberID, false)))

	first := tc.Last(t, "edit")
	assert.Equal(t, MsgPointsTopTitle, first.Embed("title"))
	lines := strings.Split(first.Embed("description"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "1. 120 pkt - <@1011>", lines[0])

	prev, next, nextID := pageButtonIDs(t, first)
	assert.Equal(t, true, prev["disabled"])
	assert.NotEqual(t, true, next["disabled"])

	tc.Run(newButton(nextID, newMember(testOtherID, false), &discordgo.Message{
		Embeds: []*discordgo.MessageEmbed{{Title: MsgPointsTopTitle}},
	}))

	update := tc.Last(t, "respond")
	assert.Equal(t, float64(discordgo.InteractionResponseUpdateMessage), update.Payload["type"])
	assert.Equal(t, MsgPointsTopTitle, update.Embed("title"))
	lines = strings.Split(update.Embed("description"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "11. 20 pkt - <@1001>", lines[0])

	prev, next, _ = pageButtonIDs(t, update)
	assert.NotEqual(t, true, prev["disabled"])
	assert.Equal(t, true, next["disabled"])
}

func TestPageButton_Expired(t *testing.T) {
	tc := SetupTestContext(t)
	tc.Profile(t, testMemberID, 10)

	tc.Run(newCommand("punkty-top", newMember(testMemberID, false)))
	_, _, nextID := pageButtonIDs(t, tc.Last(t, "edit"))

	tc.Clock = tc.Clock.Add(time.Hour)
	tc.Run(newButton(nextID, newMember(testMemberID, false), nil))

	resp := tc.Last(t, "respond")
	assert.Equal(t, MsgViewExpired, resp.Content())
	assert.True(t, resp.Ephemeral())
}

func TestPageButton_Malformed(t *testing.T) {
	tc := SetupTestContext(t)

	tc.Run(newButton("page:points:1", newMember(testMemberID, false), nil))

	assert.Equal(t, MsgGenericError, tc.Last(t, "respond").Content())
}

func TestCompletionsCommand(t *testing.T) {
	tc := SetupTestContext(t)

	tc.Run(newCommand("mapa-ukonczenia", newMember(testMemberID, false)))
	assert.Equal(t, MsgEmptyList, tc.Last(t, "edit").Embed("description"))

	p := tc.Profile(t, testOtherID, 0)
	for n := 1; n <= 30; n++ {
		number := n
		_, err := tc.Deps.Purchase.GrantSegment(context.Background(), p, &number)
		require.NoError(t, err)
	}

	tc.Run(newCommand("mapa-ukonczenia", newMember(testMemberID, false)))
	edit := tc.Last(t, "edit")
	assert.Equal(t, MsgCompletionsTitle, edit.Embed("title"))
	assert.True(t, strings.HasPrefix(edit.Embed("description"), "1. <@222> - <t:"))
}

func TestMapTopCommand(t *testing.T) {
	tc := SetupTestContext(t)
	ctx := context.Background()
	a := tc.Profile(t, testMemberID, 0)
	b := tc.Profile(t, testOtherID, 0)
	for _, n := range []int{1, 2} {
		number := n
		_, err := tc.Deps.Purchase.GrantSegment(ctx, a, &number)
		require.NoError(t, err)
	}
	_, err := tc.Deps.Purchase.GrantSegment(ctx, b, nil)
	require.NoError(t, err)

	tc.Run(newCommand("mapa-top", newMember(testMemberID, false)))

	edit := tc.Last(t, "edit")
	assert.Equal(t, MsgSegmentTopTitle, edit.Embed("title"))
	assert.Equal(t, "1. <@111> - **2/30**\n2. <@222> - **1/30**", edit.Embed("description"))
}
