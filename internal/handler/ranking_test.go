package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/ranking"
	"github.com/osse101/MapBot_Go/internal/repository/memstore"
)

const testGuild = 4242

func newRankingRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	h := NewRankingHandlers(ranking.NewService(store))

	r := chi.NewRouter()
	r.Get("/guilds/{guildID}/leaderboard/points", h.HandleTopByPoints())
	r.Get("/guilds/{guildID}/leaderboard/segments", h.HandleSegmentLeaderboard())
	r.Get("/guilds/{guildID}/completions", h.HandleCompletionOrder())
	r.Get("/profiles/{profileID}/transactions", h.HandleTransactionHistory())
	return r, store
}

func seedBalances(t *testing.T, store *memstore.Store, balances ...int) []*domain.Profile {
	t.Helper()
	ctx := context.Background()
	var out []*domain.Profile
	for i, points := range balances {
		p, err := store.GetOrCreateProfile(ctx, int64(100+i), testGuild)
		require.NoError(t, err)
		if points > 0 {
			p, err = store.AdjustPoints(ctx, p.ID, points, "seed")
			require.NoError(t, err)
		}
		out = append(out, p)
	}
	return out
}

func get(t *testing.T, h http.Handler, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", url, nil))
	return w
}

func TestHandleTopByPoints(t *testing.T) {
	h, store := newRankingRouter(t)
	seedBalances(t, store, 10, 300, 50)

	w := get(t, h, "/guilds/4242/leaderboard/points?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var res ranking.Result[domain.Profile]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, 300, res.Items[0].Points)
	assert.Equal(t, 50, res.Items[1].Points)
	assert.True(t, res.HasNext)
	assert.Equal(t, domain.Page{Offset: 0, Limit: 2}, res.Page)

	w = get(t, h, "/guilds/4242/leaderboard/points?offset=2&limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.False(t, res.HasNext)
}

func TestHandleTopByPoints_DefaultPage(t *testing.T) {
	h, _ := newRankingRouter(t)

	w := get(t, h, "/guilds/4242/leaderboard/points")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
	assert.Contains(t, w.Body.String(), `"limit":10`)
}

func TestRankingHandlers_BadInput(t *testing.T) {
	h, _ := newRankingRouter(t)

	tests := []struct {
		name string
		url  string
	}{
		{"non numeric guild", "/guilds/abc/leaderboard/points"},
		{"zero guild", "/guilds/0/completions"},
		{"negative offset", "/guilds/1/leaderboard/segments?offset=-1"},
		{"limit too large", "/guilds/1/leaderboard/segments?limit=101"},
		{"zero limit", "/guilds/1/completions?limit=0"},
		{"text limit", "/profiles/1/transactions?limit=ten"},
		{"overflowing offset", "/profiles/1/transactions?offset=99999999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, tt.url)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleCompletionOrder(t *testing.T) {
	h, store := newRankingRouter(t)
	profiles := seedBalances(t, store, 0, 0)
	ctx := context.Background()
	for i := len(profiles) - 1; i >= 0; i-- {
		_, err := store.RecordCompletion(ctx, profiles[i].ID)
		require.NoError(t, err)
	}

	w := get(t, h, "/guilds/4242/completions?offset=1&limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var res ranking.Result[domain.CompletionRecord]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].Position)
	assert.Equal(t, profiles[0].ID, res.Items[0].ProfileID)
}

func TestHandleTransactionHistory(t *testing.T) {
	h, store := newRankingRouter(t)
	p := seedBalances(t, store, 100)[0]
	_, err := store.AdjustPoints(context.Background(), p.ID, -40, domain.ReasonSegmentPurchase)
	require.NoError(t, err)

	w := get(t, h, "/profiles/"+itoa(p.ID)+"/transactions")
	require.Equal(t, http.StatusOK, w.Code)

	var res ranking.Result[domain.Transaction]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Items, 2)
	assert.Equal(t, -40, res.Items[0].Amount)
	assert.Equal(t, domain.ReasonSegmentPurchase, res.Items[0].Reason)
}

// downRanking fails every query the way an unreachable database does
type downRanking struct{}

func (downRanking) ListTopByPoints(context.Context, int64, domain.Page) ([]domain.Profile, error) {
	return nil, domain.ErrStorageUnavailable
}

func (downRanking) ListCompletions(context.Context, int64, domain.Page) ([]domain.CompletionRecord, error) {
	return nil, domain.ErrStorageUnavailable
}

func (downRanking) ListSegmentCounts(context.Context, int64, domain.Page) ([]domain.SegmentCount, error) {
	return nil, domain.ErrStorageUnavailable
}

func (downRanking) ListTransactions(context.Context, int64, domain.Page) ([]domain.Transaction, error) {
	return nil, domain.ErrStorageUnavailable
}

func TestHandleSegmentLeaderboard_StorageDown(t *testing.T) {
	h := NewRankingHandlers(ranking.NewService(downRanking{}))
	r := chi.NewRouter()
	r.Get("/guilds/{guildID}/leaderboard/segments", h.HandleSegmentLeaderboard())

	w := get(t, r, "/guilds/4242/leaderboard/segments")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgUnavailableError)
}
