package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/ranking"
	"github.com/osse101/MapBot_Go/internal/repository/memstore"
	"github.com/osse101/MapBot_Go/internal/testing/leaktest"
)

type stubRenderer struct{}

func (stubRenderer) RenderJPEG(context.Context, []int) ([]byte, error) {
	return []byte{0xFF, 0xD8}, nil
}

func newTestRouter(t *testing.T, opts Options) (http.Handler, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	return NewRouter(opts, store, ranking.NewService(store), stubRenderer{}), store
}

func TestRouter_Routes(t *testing.T) {
	router, store := newTestRouter(t, Options{CORSOrigins: []string{"*"}})
	p, err := store.GetOrCreateProfile(context.Background(), 5, 6)
	require.NoError(t, err)
	require.Equal(t, int64(1), p.ID)

	tests := []struct {
		path   string
		status int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/version", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/guilds/6/leaderboard/points", http.StatusOK},
		{"/api/v1/guilds/6/leaderboard/segments", http.StatusOK},
		{"/api/v1/guilds/6/completions", http.StatusOK},
		{"/api/v1/profiles/1/transactions", http.StatusOK},
		{"/api/v1/profiles/1/map.jpg", http.StatusOK},
		{"/api/v1/profiles/999/map.jpg", http.StatusNotFound},
		{"/api/v1/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_ReadyzFailsWhenStoreClosed(t *testing.T) {
	router, store := newTestRouter(t, Options{})
	store.Close()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_APIKey(t *testing.T) {
	router, _ := newTestRouter(t, Options{APIKey: "k"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/guilds/6/completions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/api/v1/guilds/6/completions", nil)
	req.Header.Set(HeaderAPIKey, "k")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, Options{CORSOrigins: []string{"https://example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/guilds/6/completions", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StopReleasesGoroutines(t *testing.T) {
	store := memstore.New()

	leaktest.CheckNoGoroutineLeak(t, 0, func() {
		srv := NewServer(Options{Port: 0}, store, ranking.NewService(store), stubRenderer{})
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		time.Sleep(50 * time.Millisecond)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, srv.Stop(ctx))

		select {
		case err := <-errCh:
			assert.True(t, errors.Is(err, http.ErrServerClosed), "got %v", err)
		case <-time.After(time.Second):
			t.Fatal("Start did not return after Stop")
		}
	})
}
