package handler

import (
	"context"
	"net/http"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/ranking"
)

// RankingHandlers serves the read-only leaderboard API
type RankingHandlers struct {
	service ranking.Service
}

// NewRankingHandlers creates the ranking handlers
func NewRankingHandlers(service ranking.Service) *RankingHandlers {
	return &RankingHandlers{service: service}
}

// HandleTopByPoints lists a guild's balances
func (h *RankingHandlers) HandleTopByPoints() http.HandlerFunc {
	return listByID("guildID", h.service.TopByPoints)
}

// HandleSegmentLeaderboard lists a guild's members by owned segments
func (h *RankingHandlers) HandleSegmentLeaderboard() http.HandlerFunc {
	return listByID("guildID", h.service.SegmentLeaderboard)
}

// HandleCompletionOrder lists a guild's completed maps in finishing order
func (h *RankingHandlers) HandleCompletionOrder() http.HandlerFunc {
	return listByID("guildID", h.service.CompletionOrder)
}

// HandleTransactionHistory lists a profile's transactions, newest first
func (h *RankingHandlers) HandleTransactionHistory() http.HandlerFunc {
	return listByID("profileID", h.service.TransactionHistory)
}

// listByID adapts one paginated ranking query to HTTP
func listByID[T any](param string, list func(context.Context, int64, domain.Page) (*ranking.Result[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := ParseIDParam(w, r, param)
		if !ok {
			return
		}
		page, ok := ParsePage(w, r)
		if !ok {
			return
		}

		res, err := list(r.Context(), id, page)
		if err != nil {
			logger.FromContext(r.Context()).Error(ErrMsgGetLeaderboardFailed, "error", err, param, id)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}
