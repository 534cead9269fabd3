package handler

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/repository/memstore"
)

// MockRenderer mocks the map renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderJPEG(ctx context.Context, owned []int) ([]byte, error) {
	args := m.Called(ctx, owned)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func newMapRouter(store ProfileSegments, renderer MapRenderer) http.Handler {
	r := chi.NewRouter()
	r.Get("/profiles/{profileID}/map.jpg", HandleMapImage(store, renderer))
	return r
}

func TestHandleMapImage(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 1, 1)
	require.NoError(t, err)
	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, []int{9, 2}))

	renderer := &MockRenderer{}
	renderer.On("RenderJPEG", mock.Anything, []int{2, 9}).Return([]byte{0xFF, 0xD8, 0xFF}, nil)

	w := get(t, newMapRouter(store, renderer), "/profiles/"+itoa(p.ID)+"/map.jpg")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "3", w.Header().Get("Content-Length"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "mapa.jpg")
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, w.Body.Bytes())
	renderer.AssertExpectations(t)
}

func TestHandleMapImage_UnknownProfile(t *testing.T) {
	renderer := &MockRenderer{}

	w := get(t, newMapRouter(memstore.New(), renderer), "/profiles/77/map.jpg")

	assert.Equal(t, http.StatusNotFound, w.Code)
	renderer.AssertNotCalled(t, "RenderJPEG", mock.Anything, mock.Anything)
}

func TestHandleMapImage_RenderFailure(t *testing.T) {
	store := memstore.New()
	p, err := store.GetOrCreateProfile(context.Background(), 1, 1)
	require.NoError(t, err)

	renderer := &MockRenderer{}
	renderer.On("RenderJPEG", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	w := get(t, newMapRouter(store, renderer), "/profiles/"+itoa(p.ID)+"/map.jpg")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgRenderMapFailed)
}
