package repository

import (
	"context"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// Ranking defines the read-only queries behind leaderboards and history
type Ranking interface {
	ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error)
	ListCompletions(ctx context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error)
	ListSegmentCounts(ctx context.Context, guildID int64, page domain.Page) ([]domain.SegmentCount, error)
	ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error)
}
