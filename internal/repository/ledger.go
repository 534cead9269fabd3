package repository

import (
	"context"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// Ledger defines the interface for point balance persistence
type Ledger interface {
	// GetOrCreateProfile returns the profile for (memberID, guildID), creating
	// it with zero points on first access. Concurrent first access yields one row.
	GetOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error)
	GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error)
	// AdjustPoints applies delta and, when reason is non-empty, appends a transaction
	AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error)
	ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error)
	ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error)
}
