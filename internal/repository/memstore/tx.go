package memstore

import (
	"context"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// memTx stages writes on a private copy of the state and publishes it on Commit
type memTx struct {
	store *Store
	work  *state
	done  bool
}

func (t *memTx) GetProfileForUpdate(_ context.Context, profileID int64) (*domain.Profile, error) {
	if t.done {
		return nil, domain.ErrTxClosed
	}
	return t.work.getProfile(profileID)
}

func (t *memTx) GetOwnedSegments(_ context.Context, profileID int64) ([]int, error) {
	if t.done {
		return nil, domain.ErrTxClosed
	}
	if err := t.store.fault(OpGetOwnedSegments); err != nil {
		return nil, err
	}
	return t.work.ownedSegments(profileID), nil
}

func (t *memTx) AddSegment(_ context.Context, profileID int64, number int) error {
	if t.done {
		return domain.ErrTxClosed
	}
	if err := t.store.fault(OpAddSegment); err != nil {
		return err
	}
	return t.work.addSegments(profileID, []int{number})
}

func (t *memTx) AddSegmentsBulk(_ context.Context, profileID int64, numbers []int) error {
	if t.done {
		return domain.ErrTxClosed
	}
	if err := t.store.fault(OpAddSegmentsBulk); err != nil {
		return err
	}
	return t.work.addSegments(profileID, numbers)
}

func (t *memTx) RemoveSegment(_ context.Context, profileID int64, number int) (bool, error) {
	if t.done {
		return false, domain.ErrTxClosed
	}
	return t.work.removeSegment(profileID, number), nil
}

func (t *memTx) AdjustPoints(_ context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	if t.done {
		return nil, domain.ErrTxClosed
	}
	if err := t.store.fault(OpAdjustPoints); err != nil {
		return nil, err
	}
	return t.work.adjustPoints(profileID, delta, reason)
}

func (t *memTx) GetCompletion(_ context.Context, profileID int64) (*domain.CompletionRecord, error) {
	if t.done {
		return nil, domain.ErrTxClosed
	}
	return t.work.getCompletion(profileID), nil
}

func (t *memTx) RecordCompletion(_ context.Context, profileID int64) (*domain.CompletionRecord, error) {
	if t.done {
		return nil, domain.ErrTxClosed
	}
	if err := t.store.fault(OpRecordCompletion); err != nil {
		return nil, err
	}
	return t.work.recordCompletion(profileID)
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return domain.ErrTxClosed
	}
	t.done = true
	defer t.store.mu.Unlock()

	if err := t.store.fault(OpCommit); err != nil {
		return err
	}
	t.store.state = t.work
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return domain.ErrTxClosed
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}
