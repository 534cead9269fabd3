package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/domain"
)

func createTestProfile(points int) *domain.Profile {
	return &domain.Profile{ID: 11, MemberID: 1234, GuildID: 99, Points: points}
}

func TestAdjustPoints_ZeroDeltaRejected(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)

	_, err := svc.AdjustPoints(context.Background(), 11, 0, "nothing")

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	repo.AssertNotCalled(t, "AdjustPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustPoints_OutOfRangeDeltaRejected(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)

	for _, delta := range []int{domain.MaxPointsDelta + 1, 3_000_000_000, -domain.MaxPointsDelta - 1} {
		_, err := svc.AdjustPoints(context.Background(), 11, delta, domain.ReasonAdminAdjustment)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "delta %d", delta)
		assert.NotErrorIs(t, err, domain.ErrStorageUnavailable)
	}
	repo.AssertNotCalled(t, "AdjustPoints", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustPoints_BoundaryDeltaAccepted(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("AdjustPoints", ctx, int64(11), domain.MaxPointsDelta, domain.ReasonAdminAdjustment).
		Return(createTestProfile(domain.MaxPointsDelta), nil)

	p, err := svc.AdjustPoints(ctx, 11, domain.MaxPointsDelta, domain.ReasonAdminAdjustment)

	require.NoError(t, err)
	assert.Equal(t, domain.MaxPointsDelta, p.Points)
}

func TestAdjustPoints_Credit(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("AdjustPoints", ctx, int64(11), 250, domain.ReasonAdminAdjustment).Return(createTestProfile(250), nil)

	p, err := svc.AdjustPoints(ctx, 11, 250, domain.ReasonAdminAdjustment)

	require.NoError(t, err)
	assert.Equal(t, 250, p.Points)
	repo.AssertExpectations(t)
}

func TestAdjustPoints_OverdraftSurfacesInsufficientFunds(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("AdjustPoints", ctx, int64(11), -500, "").
		Return(nil, domain.ErrInsufficientFunds)

	_, err := svc.AdjustPoints(ctx, 11, -500, "")

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Contains(t, err.Error(), domain.ErrMsgInsufficientFunds)
}

func TestGetOrCreateProfile_WrapsStorageError(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("GetOrCreateProfile", ctx, int64(1), int64(2)).
		Return(nil, errors.Join(domain.ErrStorageUnavailable, errors.New("connection refused")))

	_, err := svc.GetOrCreateProfile(ctx, 1, 2)

	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestListTopByPoints_ValidatesPage(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		page domain.Page
	}{
		{"negative offset", domain.Page{Offset: -1, Limit: 10}},
		{"zero limit", domain.Page{Offset: 0, Limit: 0}},
		{"limit over max", domain.Page{Offset: 0, Limit: domain.MaxPageSize + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListTopByPoints(ctx, 99, tt.page)
			assert.ErrorIs(t, err, domain.ErrInvalidPage)
		})
	}

	page := domain.FirstPage(10)
	repo.On("ListTopByPoints", ctx, int64(99), page).Return([]domain.Profile{*createTestProfile(5)}, nil)

	top, err := svc.ListTopByPoints(ctx, 99, page)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestListTransactions_PassesThrough(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, nil)
	ctx := context.Background()

	page := domain.Page{Offset: 10, Limit: 10}
	want := []domain.Transaction{{ID: 3, ProfileID: 11, Amount: -150, Reason: domain.ReasonSegmentPurchase}}
	repo.On("ListTransactions", ctx, int64(11), page).Return(want, nil)

	got, err := svc.ListTransactions(ctx, 11, page)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
