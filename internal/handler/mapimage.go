package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/mapimage"
)

// ProfileSegments loads a profile and the segments it owns
type ProfileSegments interface {
	GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error)
	GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error)
}

// MapRenderer encodes a map image for a set of owned segments
type MapRenderer interface {
	RenderJPEG(ctx context.Context, owned []int) ([]byte, error)
}

var _ MapRenderer = (*mapimage.Renderer)(nil)

// HandleMapImage serves the profile's current map as a JPEG
func HandleMapImage(store ProfileSegments, renderer MapRenderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		profileID, ok := ParseIDParam(w, r, "profileID")
		if !ok {
			return
		}

		if _, err := store.GetProfile(ctx, profileID); err != nil {
			respondServiceError(w, err)
			return
		}
		owned, err := store.GetOwnedSegments(ctx, profileID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		data, err := renderer.RenderJPEG(ctx, owned)
		if err != nil {
			log.Error(ErrMsgRenderMapFailed, "profile_id", profileID, "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgRenderMapFailed)
			return
		}

		w.Header().Set("Content-Type", mapimage.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Content-Disposition", `inline; filename="`+mapimage.DefaultFileName+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Warn("Failed to write map image", "error", err)
		}
	}
}
