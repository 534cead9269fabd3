package purchase

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/pool"
	"github.com/osse101/MapBot_Go/internal/repository/memstore"
)

const testCost = 150

func newTestPool(t *testing.T, size int) *pool.Pool {
	t.Helper()
	p, err := pool.NewWithRand(size, rand.New(rand.NewPCG(7, 11)).IntN)
	require.NoError(t, err)
	return p
}

// setup returns a service over an in-memory store and a profile holding points
func setup(t *testing.T, size, points int) (Service, *memstore.Store, *domain.Profile) {
	t.Helper()
	store := memstore.New()
	svc := NewService(store, newTestPool(t, size), nil)

	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 1234, 99)
	require.NoError(t, err)
	if points > 0 {
		p, err = store.AdjustPoints(ctx, p.ID, points, "seed")
		require.NoError(t, err)
	}
	return svc, store, p
}

func ptr(n int) *int { return &n }

func assertUnchanged(t *testing.T, store *memstore.Store, p *domain.Profile, owned []int) {
	t.Helper()
	ctx := context.Background()

	current, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Points, current.Points, "balance must be untouched")

	segs, err := store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	if owned == nil {
		owned = []int{}
	}
	assert.Equal(t, owned, segs, "ownership must be untouched")
}

func TestBuyOne_Success(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 200)
	ctx := context.Background()

	res, err := svc.BuyOne(ctx, p, testCost)

	require.NoError(t, err)
	require.Len(t, res.Segments, 1)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, testCost, res.Cost)
	assert.Equal(t, 50, res.Profile.Points)
	assert.False(t, res.Completed())
	assert.GreaterOrEqual(t, res.Segments[0], 1)
	assert.LessOrEqual(t, res.Segments[0], domain.DefaultSegmentCount)

	owned, err := store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Segments, owned)

	history, err := store.ListTransactions(ctx, p.ID, domain.FirstPage(10))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, -testCost, history[0].Amount)
	assert.Equal(t, domain.ReasonSegmentPurchase, history[0].Reason)
}

func TestBuyOne_ExactBalance(t *testing.T) {
	svc, _, p := setup(t, domain.DefaultSegmentCount, testCost)

	res, err := svc.BuyOne(context.Background(), p, testCost)

	require.NoError(t, err)
	assert.Zero(t, res.Profile.Points)
}

func TestBuyOne_InsufficientFunds(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 149)

	_, err := svc.BuyOne(context.Background(), p, testCost)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assertUnchanged(t, store, p, nil)
}

func TestBuyOne_StaleSnapshotRecheckedUnderLock(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 100)

	stale := *p
	stale.Points = 1000
	_, err := svc.BuyOne(context.Background(), &stale, testCost)

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assertUnchanged(t, store, p, nil)
}

func TestBuyOne_InvalidCost(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 500)

	for _, cost := range []int{0, -150} {
		_, err := svc.BuyOne(context.Background(), p, cost)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
		_, err = svc.BuyAllAffordable(context.Background(), p, cost)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
	assertUnchanged(t, store, p, nil)
}

func TestBuyOne_PoolExhausted(t *testing.T) {
	svc, store, p := setup(t, 3, 500)
	ctx := context.Background()
	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, []int{1, 2, 3}))

	_, err := svc.BuyOne(ctx, p, testCost)
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)

	_, err = svc.BuyAllAffordable(ctx, p, testCost)
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)

	assertUnchanged(t, store, p, []int{1, 2, 3})
}

func TestBuyOne_CompletesMap(t *testing.T) {
	svc, store, p := setup(t, 3, 500)
	ctx := context.Background()
	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, []int{1, 3}))

	res, err := svc.BuyOne(ctx, p, testCost)

	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Segments)
	require.True(t, res.Completed())
	assert.Equal(t, 1, res.Completion.Position)
	assert.Equal(t, p.MemberID, res.Completion.MemberID)
	assert.Equal(t, p.GuildID, res.Completion.GuildID)
}

func TestBuyAllAffordable_LimitedByBalance(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 500)
	ctx := context.Background()

	res, err := svc.BuyAllAffordable(ctx, p, testCost)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Len(t, res.Segments, 3)
	assert.Equal(t, 450, res.Cost)
	assert.Equal(t, 50, res.Profile.Points)
	assert.IsIncreasing(t, res.Segments)

	owned, err := store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Segments, owned)

	history, err := store.ListTransactions(ctx, p.ID, domain.FirstPage(10))
	require.NoError(t, err)
	assert.Equal(t, -450, history[0].Amount)
	assert.Equal(t, domain.ReasonBulkSegmentPurchase, history[0].Reason)
}

func TestBuyAllAffordable_LimitedByAvailability(t *testing.T) {
	svc, store, p := setup(t, 4, 1000)
	ctx := context.Background()
	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, []int{2, 3}))

	res, err := svc.BuyAllAffordable(ctx, p, 100)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, res.Segments)
	assert.Equal(t, 200, res.Cost)
	assert.Equal(t, 800, res.Profile.Points)
	require.True(t, res.Completed())
	assert.Equal(t, 1, res.Completion.Position)
}

func TestBuy_FailureLeavesNoPartialState(t *testing.T) {
	boom := errors.New("connection reset")
	ops := []string{
		memstore.OpBeginTx,
		memstore.OpGetOwnedSegments,
		memstore.OpAddSegment,
		memstore.OpAdjustPoints,
		memstore.OpRecordCompletion,
		memstore.OpCommit,
	}

	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			// Pool of one so a successful buy would also complete the map
			svc, store, p := setup(t, 1, 500)
			store.InjectFault(op, boom)

			_, err := svc.BuyOne(context.Background(), p, testCost)
			require.ErrorIs(t, err, boom)

			store.InjectFault(op, nil)
			assertUnchanged(t, store, p, nil)
			c, err := store.GetCompletion(context.Background(), p.ID)
			require.NoError(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestBuyAllAffordable_BulkFailureLeavesNoPartialState(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 500)
	store.InjectFault(memstore.OpAdjustPoints, domain.ErrStorageUnavailable)

	_, err := svc.BuyAllAffordable(context.Background(), p, testCost)

	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	store.InjectFault(memstore.OpAdjustPoints, nil)
	assertUnchanged(t, store, p, nil)
}

func TestBuyOne_DuplicateIsRetryable(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 500)
	store.InjectFault(memstore.OpAddSegment, domain.ErrDuplicateSegment)

	_, err := svc.BuyOne(context.Background(), p, testCost)

	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	store.InjectFault(memstore.OpAddSegment, nil)
	assertUnchanged(t, store, p, nil)
}

func TestGrantSegment_Specific(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 0)
	ctx := context.Background()

	res, err := svc.GrantSegment(ctx, p, ptr(17))

	require.NoError(t, err)
	assert.Equal(t, 17, res.Segment)
	assert.Nil(t, res.Completion)
	assertUnchanged(t, store, p, []int{17})
}

func TestGrantSegment_Random(t *testing.T) {
	svc, store, p := setup(t, 3, 0)
	ctx := context.Background()
	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, []int{1, 3}))

	res, err := svc.GrantSegment(ctx, p, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Segment)
	require.NotNil(t, res.Completion)
	assert.Equal(t, 1, res.Completion.Position)

	_, err = svc.GrantSegment(ctx, p, nil)
	assert.ErrorIs(t, err, domain.ErrPoolExhausted)
}

func TestGrantSegment_Rejections(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 0)
	ctx := context.Background()
	require.NoError(t, store.AddSegment(ctx, p.ID, 5))

	_, err := svc.GrantSegment(ctx, p, ptr(5))
	assert.ErrorIs(t, err, domain.ErrAlreadyOwned)

	for _, n := range []int{0, -1, domain.DefaultSegmentCount + 1} {
		_, err = svc.GrantSegment(ctx, p, ptr(n))
		assert.ErrorIs(t, err, domain.ErrInvalidSegment, "segment %d", n)
	}
	assertUnchanged(t, store, p, []int{5})
}

func TestRevokeSegment(t *testing.T) {
	svc, store, p := setup(t, domain.DefaultSegmentCount, 0)
	ctx := context.Background()
	require.NoError(t, store.AddSegment(ctx, p.ID, 8))

	removed, err := svc.RevokeSegment(ctx, p, 8)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RevokeSegment(ctx, p, 8)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCompletion_RecordedOnce(t *testing.T) {
	svc, store, p := setup(t, 2, 0)
	ctx := context.Background()

	_, err := svc.GrantSegment(ctx, p, ptr(1))
	require.NoError(t, err)
	first, err := svc.GrantSegment(ctx, p, ptr(2))
	require.NoError(t, err)
	require.NotNil(t, first.Completion)

	removed, err := svc.RevokeSegment(ctx, p, 2)
	require.NoError(t, err)
	require.True(t, removed)

	kept, err := store.GetCompletion(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, kept, "revoking never retracts a completion")

	again, err := svc.GrantSegment(ctx, p, ptr(2))
	require.NoError(t, err)
	assert.Nil(t, again.Completion, "completing again records nothing new")

	count, err := store.CountCompletions(ctx, p.GuildID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCompletion_PositionsWithinGuild(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, newTestPool(t, 1), nil)
	ctx := context.Background()

	for i, member := range []int64{10, 20, 30} {
		p, err := store.GetOrCreateProfile(ctx, member, 5)
		require.NoError(t, err)
		res, err := svc.GrantSegment(ctx, p, nil)
		require.NoError(t, err)
		require.NotNil(t, res.Completion)
		assert.Equal(t, i+1, res.Completion.Position)
	}

	other, err := store.GetOrCreateProfile(ctx, 10, 6)
	require.NoError(t, err)
	res, err := svc.GrantSegment(ctx, other, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Completion.Position)
}
