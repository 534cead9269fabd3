package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// MockRepository implements repository.Ledger for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error) {
	args := m.Called(ctx, memberID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockRepository) GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockRepository) AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID, delta, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockRepository) ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	args := m.Called(ctx, guildID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockRepository) ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	args := m.Called(ctx, profileID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
