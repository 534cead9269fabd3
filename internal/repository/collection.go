package repository

import (
	"context"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// Collection defines the interface for segment ownership and completion persistence
type Collection interface {
	// GetOwnedSegments returns owned segment numbers in ascending order
	GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error)
	AddSegment(ctx context.Context, profileID int64, number int) error
	// AddSegmentsBulk inserts every number or none of them
	AddSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error
	// RemoveSegment reports false when the segment was not owned
	RemoveSegment(ctx context.Context, profileID int64, number int) (bool, error)
	// GetCompletion returns nil when the profile has not completed the map
	GetCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error)
	RecordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error)
	CountCompletions(ctx context.Context, guildID int64) (int, error)
	ListCompletions(ctx context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error)
}
