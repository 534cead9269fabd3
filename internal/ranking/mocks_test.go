package ranking

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// MockRepository implements repository.Ranking for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	args := m.Called(ctx, guildID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockRepository) ListCompletions(ctx context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error) {
	args := m.Called(ctx, guildID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompletionRecord), args.Error(1)
}

func (m *MockRepository) ListSegmentCounts(ctx context.Context, guildID int64, page domain.Page) ([]domain.SegmentCount, error) {
	args := m.Called(ctx, guildID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SegmentCount), args.Error(1)
}

func (m *MockRepository) ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	args := m.Called(ctx, profileID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
