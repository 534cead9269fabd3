// Package ranking serves the read-only leaderboards and histories.
package ranking

import (
	"context"
	"fmt"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/repository"
)

// Result is one page of an ordered listing
type Result[T any] struct {
	Items   []T         `json:"items"`
	Page    domain.Page `json:"page"`
	HasNext bool        `json:"has_next"`
}

// Service defines the interface for ranking queries
type Service interface {
	// TopByPoints orders profiles by points descending, ties by creation order
	TopByPoints(ctx context.Context, guildID int64, page domain.Page) (*Result[domain.Profile], error)
	// CompletionOrder lists completions by finishing order. Positions continue across pages.
	CompletionOrder(ctx context.Context, guildID int64, page domain.Page) (*Result[domain.CompletionRecord], error)
	// SegmentLeaderboard orders members by owned segments, omitting those with none
	SegmentLeaderboard(ctx context.Context, guildID int64, page domain.Page) (*Result[domain.SegmentCount], error)
	// TransactionHistory lists a profile's transactions newest first
	TransactionHistory(ctx context.Context, profileID int64, page domain.Page) (*Result[domain.Transaction], error)
}

type service struct {
	repo repository.Ranking
}

// NewService creates a new ranking service
func NewService(repo repository.Ranking) Service {
	return &service{repo: repo}
}

func (s *service) TopByPoints(ctx context.Context, guildID int64, page domain.Page) (*Result[domain.Profile], error) {
	return fetch(ctx, page, ErrMsgTopByPointsFmt, func(p domain.Page) ([]domain.Profile, error) {
		return s.repo.ListTopByPoints(ctx, guildID, p)
	})
}

func (s *service) CompletionOrder(ctx context.Context, guildID int64, page domain.Page) (*Result[domain.CompletionRecord], error) {
	return fetch(ctx, page, ErrMsgCompletionOrderFmt, func(p domain.Page) ([]domain.CompletionRecord, error) {
		return s.repo.ListCompletions(ctx, guildID, p)
	})
}

func (s *service) SegmentLeaderboard(ctx context.Context, guildID int64, page domain.Page) (*Result[domain.SegmentCount], error) {
	return fetch(ctx, page, ErrMsgSegmentLeaderboardFmt, func(p domain.Page) ([]domain.SegmentCount, error) {
		return s.repo.ListSegmentCounts(ctx, guildID, p)
	})
}

func (s *service) TransactionHistory(ctx context.Context, profileID int64, page domain.Page) (*Result[domain.Transaction], error) {
	return fetch(ctx, page, ErrMsgTransactionHistoryFmt, func(p domain.Page) ([]domain.Transaction, error) {
		return s.repo.ListTransactions(ctx, profileID, p)
	})
}

// fetch validates page, then asks list for one extra row to learn whether a
// following page exists.
func fetch[T any](ctx context.Context, page domain.Page, errFmt string, list func(domain.Page) ([]T, error)) (*Result[T], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf(errFmt, err)
	}

	items, err := list(domain.Page{Offset: page.Offset, Limit: page.Limit + 1})
	if err != nil {
		return nil, fmt.Errorf(errFmt, err)
	}

	hasNext := len(items) > page.Limit
	if hasNext {
		items = items[:page.Limit]
	}
	if items == nil {
		items = []T{}
	}
	return &Result[T]{Items: items, Page: page, HasNext: hasNext}, nil
}
