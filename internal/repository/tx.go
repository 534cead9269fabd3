package repository

import (
	"context"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// Tx defines the interface for transactional operations.
// All reads and writes made through one Tx see the same locked profile state
// and are committed or rolled back together.
type Tx interface {
	// GetProfileForUpdate loads the profile and holds its row lock until the Tx ends
	GetProfileForUpdate(ctx context.Context, profileID int64) (*domain.Profile, error)
	GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error)
	AddSegment(ctx context.Context, profileID int64, number int) error
	AddSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error
	RemoveSegment(ctx context.Context, profileID int64, number int) (bool, error)
	AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error)
	GetCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error)
	RecordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
