package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/concurrency"
	"github.com/osse101/MapBot_Go/internal/config"
	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/ledger"
	"github.com/osse101/MapBot_Go/internal/pool"
	"github.com/osse101/MapBot_Go/internal/purchase"
	"github.com/osse101/MapBot_Go/internal/ranking"
	"github.com/osse101/MapBot_Go/internal/repository/memstore"
)

const (
	testGuildID  = "4242"
	testMemberID = "111"
	testOtherID  = "222"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// capturedRequest is one call the bot made to the Discord REST API
type capturedRequest struct {
	Method  string
	Path    string
	Payload map[string]any
	Files   int
}

// Kind classifies the call as respond, edit or followup
func (c capturedRequest) Kind() string {
	switch {
	case strings.HasSuffix(c.Path, "/callback"):
		return "respond"
	case c.Method == http.MethodPatch && strings.HasSuffix(c.Path, "/messages/@original"):
		return "edit"
	case c.Method == http.MethodPost && strings.Contains(c.Path, "/webhooks/"):
		return "followup"
	default:
		return "other"
	}
}

// data returns the message body whether or not it is wrapped in an interaction response
func (c capturedRequest) data() map[string]any {
	if d, ok := c.Payload["data"].(map[string]any); ok {
		return d
	}
	return c.Payload
}

// Content is the plain text of the message
func (c capturedRequest) Content() string {
	s, _ := c.data()["content"].(string)
	return s
}

// Ephemeral reports whether the message is hidden from other members
func (c capturedRequest) Ephemeral() bool {
	flags, _ := c.data()["flags"].(float64)
	return int(flags)&int(discordgo.MessageFlagsEphemeral) != 0
}

// Embed returns the first embed's field
func (c capturedRequest) Embed(field string) string {
	embeds, _ := c.data()["embeds"].([]any)
	if len(embeds) == 0 {
		return ""
	}
	s, _ := embeds[0].(map[string]any)[field].(string)
	return s
}

// Buttons returns every button in the message keyed by custom id
func (c capturedRequest) Buttons() map[string]map[string]any {
	out := make(map[string]map[string]any)
	rows, _ := c.data()["components"].([]any)
	for _, row := range rows {
		inner, _ := row.(map[string]any)["components"].([]any)
		for _, b := range inner {
			btn := b.(map[string]any)
			if id, ok := btn["custom_id"].(string); ok {
				out[id] = btn
			}
		}
	}
	return out
}

// TestContext wires a fake Discord session to real services over memstore
type TestContext struct {
	Session *discordgo.Session
	Deps    *Deps
	Store   *memstore.Store
	Clock   time.Time

	mu       sync.Mutex
	requests []capturedRequest
}

type stubRenderer struct{}

func (stubRenderer) RenderJPEG(_ context.Context, owned []int) ([]byte, error) {
	return []byte{0xFF, 0xD8, byte(len(owned))}, nil
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	store := memstore.New()
	locks := concurrency.NewLockManager[int64]()
	rng := rand.New(rand.NewPCG(1, 2))
	segmentPool, err := pool.NewWithRand(domain.DefaultSegmentCount, rng.IntN)
	require.NoError(t, err)

	tc := &TestContext{
		Store: store,
		Clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	tc.Deps = &Deps{
		Ledger:      ledger.NewService(store, locks),
		Purchase:    purchase.NewService(store, segmentPool, locks),
		Ranking:     ranking.NewService(store),
		Segments:    store,
		Renderer:    stubRenderer{},
		Economy:     config.DefaultEconomy(),
		ViewTimeout: 3 * time.Minute,
		Registry:    DefaultRegistry(),
		Now:         func() time.Time { return tc.Clock },
	}

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)
	session.Client = &http.Client{Transport: &MockRoundTripper{RoundTripFunc: tc.capture}}
	tc.Session = session

	return tc
}

func (tc *TestContext) capture(req *http.Request) (*http.Response, error) {
	c := capturedRequest{Method: req.Method, Path: req.URL.Path, Payload: map[string]any{}}

	if strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/") {
		if err := req.ParseMultipartForm(1 << 20); err == nil {
			_ = json.Unmarshal([]byte(req.FormValue("payload_json")), &c.Payload)
			c.Files = len(req.MultipartForm.File)
		}
	} else if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&c.Payload)
	}

	tc.mu.Lock()
	tc.requests = append(tc.requests, c)
	tc.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// Requests returns calls of the given kind in order
func (tc *TestContext) Requests(kind string) []capturedRequest {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	var out []capturedRequest
	for _, r := range tc.requests {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the most recent call of the given kind
func (tc *TestContext) Last(t *testing.T, kind string) capturedRequest {
	t.Helper()
	reqs := tc.Requests(kind)
	require.NotEmpty(t, reqs, "no %s request captured", kind)
	return reqs[len(reqs)-1]
}

// Reset forgets captured calls
func (tc *TestContext) Reset() {
	tc.mu.Lock()
	tc.requests = nil
	tc.mu.Unlock()
}

// Profile returns the test member's profile with points credited
func (tc *TestContext) Profile(t *testing.T, memberID string, points int) *domain.Profile {
	t.Helper()
	ctx := context.Background()
	id, err := parseSnowflake(memberID)
	require.NoError(t, err)
	guild, err := parseSnowflake(testGuildID)
	require.NoError(t, err)

	p, err := tc.Store.GetOrCreateProfile(ctx, id, guild)
	require.NoError(t, err)
	if points != 0 {
		p, err = tc.Store.AdjustPoints(ctx, p.ID, points, domain.ReasonAdminAdjustment)
		require.NoError(t, err)
	}
	return p
}

// Run dispatches an interaction as the gateway would
func (tc *TestContext) Run(i *discordgo.InteractionCreate) {
	Dispatch(context.Background(), tc.Session, i, tc.Deps)
}

func newMember(userID string, admin bool) *discordgo.Member {
	m := &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user" + userID}}
	if admin {
		m.Permissions = discordgo.PermissionAdministrator
	}
	return m
}

func newCommand(name string, member *discordgo.Member, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:      "interaction-1",
			AppID:   "app-1",
			Token:   "token-1",
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: testGuildID,
			Member:  member,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func newButton(customID string, member *discordgo.Member, message *discordgo.Message) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:      "interaction-2",
			AppID:   "app-1",
			Token:   "token-2",
			Type:    discordgo.InteractionMessageComponent,
			GuildID: testGuildID,
			Member:  member,
			Message: message,
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      customID,
				ComponentType: discordgo.ButtonComponent,
			},
		},
	}
}

func userOpt(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: id,
	}
}

func intOpt(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}
