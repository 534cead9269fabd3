// Package storetest holds the behaviour every repository.Store backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/repository"
)

var guildSeq atomic.Int64

func init() {
	guildSeq.Store(time.Now().UnixNano() % 1_000_000_000)
}

// newGuild returns a guild id no other test has used, so suites can share a database
func newGuild() int64 {
	return guildSeq.Add(1)
}

func page(offset, limit int) domain.Page {
	return domain.Page{Offset: offset, Limit: limit}
}

// Run executes the store contract against store
func Run(t *testing.T, store repository.Store) {
	t.Run("Profiles", func(t *testing.T) { testProfiles(t, store) })
	t.Run("ConcurrentGetOrCreate", func(t *testing.T) { testConcurrentGetOrCreate(t, store) })
	t.Run("AdjustPoints", func(t *testing.T) { testAdjustPoints(t, store) })
	t.Run("BalanceBeyond32Bits", func(t *testing.T) { testBalanceBeyond32Bits(t, store) })
	t.Run("Segments", func(t *testing.T) { testSegments(t, store) })
	t.Run("BulkSegmentsAllOrNothing", func(t *testing.T) { testBulkAllOrNothing(t, store) })
	t.Run("Completions", func(t *testing.T) { testCompletions(t, store) })
	t.Run("Rankings", func(t *testing.T) { testRankings(t, store) })
	t.Run("TxRollback", func(t *testing.T) { testTxRollback(t, store) })
	t.Run("TxCommit", func(t *testing.T) { testTxCommit(t, store) })
}

func testProfiles(t *testing.T, store repository.Store) {
	ctx := context.Background()
	guild := newGuild()

	p, err := store.GetOrCreateProfile(ctx, 1001, guild)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, int64(1001), p.MemberID)
	assert.Equal(t, guild, p.GuildID)
	assert.Zero(t, p.Points)
	assert.False(t, p.CreatedAt.IsZero())

	again, err := store.GetOrCreateProfile(ctx, 1001, guild)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	other, err := store.GetOrCreateProfile(ctx, 1001, newGuild())
	require.NoError(t, err)
	assert.NotEqual(t, p.ID, other.ID, "same member in another guild is a separate profile")

	byID, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, byID.ID)

	_, err = store.GetProfile(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func testConcurrentGetOrCreate(t *testing.T, store repository.Store) {
	ctx := context.Background()
	guild := newGuild()

	const workers = 10
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := store.GetOrCreateProfile(ctx, 77, guild)
			errs[i] = err
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}

func testAdjustPoints(t *testing.T, store repository.Store) {
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 1, newGuild())
	require.NoError(t, err)

	p, err = store.AdjustPoints(ctx, p.ID, 100, "reward")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Points)

	_, err = store.AdjustPoints(ctx, p.ID, -150, "too much")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	current, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, current.Points, "rejected debit must not change the balance")

	p, err = store.AdjustPoints(ctx, p.ID, -100, "")
	require.NoError(t, err)
	assert.Zero(t, p.Points, "debit to exactly zero is allowed")

	history, err := store.ListTransactions(ctx, p.ID, page(0, 10))
	require.NoError(t, err)
	require.Len(t, history, 1, "only the reasoned, successful change is recorded")
	assert.Equal(t, 100, history[0].Amount)
	assert.Equal(t, "reward", history[0].Reason)

	_, err = store.AdjustPoints(ctx, -42, 10, "ghost")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func testBalanceBeyond32Bits(t *testing.T, store repository.Store) {
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 1003, newGuild())
	require.NoError(t, err)

	for range 3 {
		p, err = store.AdjustPoints(ctx, p.ID, domain.MaxPointsDelta, domain.ReasonAdminAdjustment)
		require.NoError(t, err)
	}
	assert.Equal(t, 3*domain.MaxPointsDelta, p.Points)

	txs, err := store.ListTransactions(ctx, p.ID, page(0, 10))
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, domain.MaxPointsDelta, txs[0].Amount)
}

func testSegments(t *testing.T, store repository.Store) {
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 2, newGuild())
	require.NoError(t, err)

	owned, err := store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	require.NoError(t, store.AddSegment(ctx, p.ID, 7))
	require.NoError(t, store.AddSegment(ctx, p.ID, 3))
	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, []int{12, 5}))

	err = store.AddSegment(ctx, p.ID, 7)
	assert.ErrorIs(t, err, domain.ErrDuplicateSegment)
	assert.True(t, domain.IsRetryable(err))

	owned, err = store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 7, 12}, owned)

	removed, err := store.RemoveSegment(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.RemoveSegment(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.False(t, removed, "removing an absent segment is not an error")

	err = store.AddSegment(ctx, -9, 1)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func testBulkAllOrNothing(t *testing.T, store repository.Store) {
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 3, newGuild())
	require.NoError(t, err)
	require.NoError(t, store.AddSegment(ctx, p.ID, 4))

	err = store.AddSegmentsBulk(ctx, p.ID, []int{1, 2, 4, 9})
	assert.ErrorIs(t, err, domain.ErrDuplicateSegment)

	owned, err := store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, owned, "no segment of a failed bulk insert may persist")

	require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, nil))
}

func testCompletions(t *testing.T, store repository.Store) {
	ctx := context.Background()
	guild := newGuild()

	var profiles []*domain.Profile
	for member := int64(10); member < 13; member++ {
		p, err := store.GetOrCreateProfile(ctx, member, guild)
		require.NoError(t, err)
		profiles = append(profiles, p)
	}

	c, err := store.GetCompletion(ctx, profiles[0].ID)
	require.NoError(t, err)
	assert.Nil(t, c)

	for i, p := range profiles {
		rec, err := store.RecordCompletion(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, rec.Position)
		assert.Equal(t, p.MemberID, rec.MemberID)
		assert.Equal(t, guild, rec.GuildID)
		assert.False(t, rec.CompletedAt.IsZero())
	}

	_, err = store.RecordCompletion(ctx, profiles[1].ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	count, err := store.CountCompletions(ctx, guild)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	second, err := store.GetCompletion(ctx, profiles[1].ID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 2, second.Position)

	first, err := store.ListCompletions(ctx, guild, page(0, 2))
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, profiles[0].ID, first[0].ProfileID)
	assert.Equal(t, 1, first[0].Position)
	assert.Equal(t, 2, first[1].Position)

	rest, err := store.ListCompletions(ctx, guild, page(2, 2))
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, profiles[2].ID, rest[0].ProfileID)
	assert.Equal(t, 3, rest[0].Position, "positions continue across pages")

	// Another guild numbers from one again
	solo, err := store.GetOrCreateProfile(ctx, 10, newGuild())
	require.NoError(t, err)
	rec, err := store.RecordCompletion(ctx, solo.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Position)
}

func testRankings(t *testing.T, store repository.Store) {
	ctx := context.Background()
	guild := newGuild()

	balances := []struct {
		member int64
		points int
		owned  []int
	}{
		{member: 500, points: 50, owned: []int{1}},
		{member: 400, points: 300, owned: []int{1, 2, 3}},
		{member: 300, points: 50, owned: []int{4, 5, 6}},
		{member: 200, points: 0, owned: nil},
	}
	ids := make(map[int64]int64)
	for _, b := range balances {
		p, err := store.GetOrCreateProfile(ctx, b.member, guild)
		require.NoError(t, err)
		ids[b.member] = p.ID
		if b.points > 0 {
			_, err = store.AdjustPoints(ctx, p.ID, b.points, "seed")
			require.NoError(t, err)
		}
		if len(b.owned) > 0 {
			require.NoError(t, store.AddSegmentsBulk(ctx, p.ID, b.owned))
		}
	}

	top, err := store.ListTopByPoints(ctx, guild, page(0, 10))
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, ids[400], top[0].ID)
	// Ties keep insertion order
	assert.Equal(t, ids[500], top[1].ID)
	assert.Equal(t, ids[300], top[2].ID)
	assert.Equal(t, ids[200], top[3].ID)

	paged, err := store.ListTopByPoints(ctx, guild, page(1, 2))
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, top[1].ID, paged[0].ID)
	assert.Equal(t, top[2].ID, paged[1].ID)

	counts, err := store.ListSegmentCounts(ctx, guild, page(0, 10))
	require.NoError(t, err)
	require.Len(t, counts, 3, "profiles without segments are omitted")
	assert.Equal(t, domain.SegmentCount{ProfileID: ids[300], MemberID: 300, Owned: 3}, counts[0])
	assert.Equal(t, domain.SegmentCount{ProfileID: ids[400], MemberID: 400, Owned: 3}, counts[1])
	assert.Equal(t, domain.SegmentCount{ProfileID: ids[500], MemberID: 500, Owned: 1}, counts[2])

	p := ids[400]
	_, err = store.AdjustPoints(ctx, p, -20, "spend one")
	require.NoError(t, err)
	_, err = store.AdjustPoints(ctx, p, -30, "spend two")
	require.NoError(t, err)

	history, err := store.ListTransactions(ctx, p, page(0, 10))
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "spend two", history[0].Reason)
	assert.Equal(t, "spend one", history[1].Reason)
	assert.Equal(t, "seed", history[2].Reason)
	assert.False(t, history[0].Timestamp.Before(history[1].Timestamp))

	empty, err := store.ListTopByPoints(ctx, newGuild(), page(0, 10))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testTxRollback(t *testing.T, store repository.Store) {
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 4, newGuild())
	require.NoError(t, err)
	_, err = store.AdjustPoints(ctx, p.ID, 200, "seed")
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)

	locked, err := tx.GetProfileForUpdate(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, locked.Points)

	require.NoError(t, tx.AddSegmentsBulk(ctx, p.ID, []int{1, 2}))
	_, err = tx.AdjustPoints(ctx, p.ID, -150, domain.ReasonBulkSegmentPurchase)
	require.NoError(t, err)
	_, err = tx.RecordCompletion(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, tx.Rollback(ctx))
	assert.ErrorIs(t, tx.Rollback(ctx), domain.ErrTxClosed)

	current, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 200, current.Points)

	owned, err := store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, owned)

	c, err := store.GetCompletion(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, c)

	history, err := store.ListTransactions(ctx, p.ID, page(0, 10))
	require.NoError(t, err)
	assert.Len(t, history, 1)

	tx, err = store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.GetProfileForUpdate(ctx, -5)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	require.NoError(t, tx.Rollback(ctx))
}

func testTxCommit(t *testing.T, store repository.Store) {
	ctx := context.Background()
	p, err := store.GetOrCreateProfile(ctx, 5, newGuild())
	require.NoError(t, err)
	_, err = store.AdjustPoints(ctx, p.ID, 150, "seed")
	require.NoError(t, err)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	require.NoError(t, tx.AddSegment(ctx, p.ID, 9))
	owned, err := tx.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, owned, "a transaction sees its own writes")

	updated, err := tx.AdjustPoints(ctx, p.ID, -150, domain.ReasonSegmentPurchase)
	require.NoError(t, err)
	assert.Zero(t, updated.Points)

	removed, err := tx.RemoveSegment(ctx, p.ID, 9)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, tx.AddSegment(ctx, p.ID, 9))

	c, err := tx.GetCompletion(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, tx.Commit(ctx))

	current, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, current.Points)

	owned, err = store.GetOwnedSegments(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{9}, owned)
}
