package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/repository"
	"github.com/osse101/MapBot_Go/internal/repository/storetest"
)

func TestStore_Contract_Integration(t *testing.T) {
	pool := newTestPool(t)
	storetest.Run(t, NewStore(pool))
}

// TestStore_RowLockSerialisesDebits_Integration runs many read-check-debit
// transactions on one profile. The FOR UPDATE lock must make each one see the
// previous debit, so exactly balance/cost succeed.
func TestStore_RowLockSerialisesDebits_Integration(t *testing.T) {
	pool := newTestPool(t)
	store := NewStore(pool)
	ctx := context.Background()

	p, err := store.GetOrCreateProfile(ctx, 8080, 424242)
	require.NoError(t, err)
	_, err = store.AdjustPoints(ctx, p.ID, 100, "seed")
	require.NoError(t, err)

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := store.BeginTx(ctx)
			if !assert.NoError(t, err) {
				return
			}
			defer repository.SafeRollback(ctx, tx)

			locked, err := tx.GetProfileForUpdate(ctx, p.ID)
			if !assert.NoError(t, err) || locked.Points < 10 {
				return
			}
			if _, err := tx.AdjustPoints(ctx, p.ID, -10, "spend"); !assert.NoError(t, err) {
				return
			}
			if assert.NoError(t, tx.Commit(ctx)) {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, success)
	final, err := store.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, final.Points)
}

// TestStore_ConcurrentCompletionsNumberedUniquely_Integration completes many
// profiles of one guild at once; the guild lock must hand out 1..N exactly once.
func TestStore_ConcurrentCompletionsNumberedUniquely_Integration(t *testing.T) {
	pool := newTestPool(t)
	store := NewStore(pool)
	ctx := context.Background()

	const guild, members = int64(515151), 8
	ids := make([]int64, members)
	for i := range ids {
		p, err := store.GetOrCreateProfile(ctx, int64(i+1), guild)
		require.NoError(t, err)
		ids[i] = p.ID
	}

	positions := make(chan int, members)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			rec, err := store.RecordCompletion(ctx, id)
			if assert.NoError(t, err) {
				positions <- rec.Position
			}
		}(id)
	}
	wg.Wait()
	close(positions)

	seen := make(map[int]bool)
	for pos := range positions {
		assert.False(t, seen[pos], "position %d handed out twice", pos)
		seen[pos] = true
	}
	for pos := 1; pos <= members; pos++ {
		assert.True(t, seen[pos], "position %d missing", pos)
	}

	// The computed position of each record must match list order
	list, err := store.ListCompletions(ctx, guild, domain.Page{Offset: 0, Limit: members})
	require.NoError(t, err)
	for i, rec := range list {
		got, err := store.GetCompletion(ctx, rec.ProfileID)
		require.NoError(t, err)
		assert.Equal(t, i+1, got.Position)
	}
}

func TestStore_StorageErrorsAreWrapped_Integration(t *testing.T) {
	pool := newTestPool(t)
	store := NewStore(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.GetOwnedSegments(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
}
