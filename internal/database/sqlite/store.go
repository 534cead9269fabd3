// Package sqlite implements the repository contract on an embedded SQLite
// database through the pure Go modernc driver.
//
// The database handle must come from database.OpenSQLite, which limits it to
// one connection: a transaction then owns the only writer, so row locks are
// unnecessary. Never call Store methods while holding a Tx from the same
// Store; they would wait for the connection the Tx is using.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store implements repository.Store on database/sql
type Store struct {
	db *sql.DB
	q  queries
}

// NewStore creates a new SQLite-backed store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: queries{db: db, now: time.Now}}
}

// BeginTx starts a transaction exposing the locked-profile operations
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToBeginTransaction, err)
	}
	return &sqlTx{tx: tx, q: queries{db: tx, now: s.q.now}}, nil
}

// Ping checks the database file is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying handle
func (s *Store) Close() {
	if err := s.db.Close(); err != nil {
		logger.FromContext(context.Background()).Error("Failed to close sqlite database", "error", err)
	}
}

// inTx runs fn in a transaction and commits when it returns nil
func (s *Store) inTx(ctx context.Context, fn func(q queries) error) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer repository.SafeRollback(ctx, tx)

	if err := fn(tx.(*sqlTx).q); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) GetOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error) {
	return s.q.getOrCreateProfile(ctx, memberID, guildID)
}

func (s *Store) GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error) {
	return s.q.getProfile(ctx, profileID)
}

func (s *Store) AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	var profile *domain.Profile
	err := s.inTx(ctx, func(q queries) error {
		var err error
		profile, err = q.adjustPoints(ctx, profileID, delta, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *Store) ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	return s.q.listTopByPoints(ctx, guildID, page)
}

func (s *Store) ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	return s.q.listTransactions(ctx, profileID, page)
}

func (s *Store) GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error) {
	return s.q.getOwnedSegments(ctx, profileID)
}

func (s *Store) AddSegment(ctx context.Context, profileID int64, number int) error {
	return s.q.addSegment(ctx, profileID, number)
}

func (s *Store) AddSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error {
	return s.inTx(ctx, func(q queries) error {
		return q.addSegmentsBulk(ctx, profileID, numbers)
	})
}

func (s *Store) RemoveSegment(ctx context.Context, profileID int64, number int) (bool, error) {
	return s.q.removeSegment(ctx, profileID, number)
}

func (s *Store) GetCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	return s.q.getCompletion(ctx, profileID)
}

func (s *Store) RecordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	var record *domain.CompletionRecord
	err := s.inTx(ctx, func(q queries) error {
		var err error
		record, err = q.recordCompletion(ctx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Store) CountCompletions(ctx context.Context, guildID int64) (int, error) {
	return s.q.countCompletions(ctx, guildID)
}

func (s *Store) ListCompletions(ctx context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error) {
	return s.q.listCompletions(ctx, guildID, page)
}

func (s *Store) ListSegmentCounts(ctx context.Context, guildID int64, page domain.Page) ([]domain.SegmentCount, error) {
	return s.q.listSegmentCounts(ctx, guildID, page)
}

// sqlTx implements repository.Tx
type sqlTx struct {
	tx *sql.Tx
	q  queries
}

// GetProfileForUpdate needs no explicit lock; the transaction already owns the writer
func (t *sqlTx) GetProfileForUpdate(ctx context.Context, profileID int64) (*domain.Profile, error) {
	return t.q.getProfile(ctx, profileID)
}

func (t *sqlTx) GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error) {
	return t.q.getOwnedSegments(ctx, profileID)
}

func (t *sqlTx) AddSegment(ctx context.Context, profileID int64, number int) error {
	return t.q.addSegment(ctx, profileID, number)
}

func (t *sqlTx) AddSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error {
	return t.q.addSegmentsBulk(ctx, profileID, numbers)
}

func (t *sqlTx) RemoveSegment(ctx context.Context, profileID int64, number int) (bool, error) {
	return t.q.removeSegment(ctx, profileID, number)
}

func (t *sqlTx) AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	return t.q.adjustPoints(ctx, profileID, delta, reason)
}

func (t *sqlTx) GetCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	return t.q.getCompletion(ctx, profileID)
}

func (t *sqlTx) RecordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	return t.q.recordCompletion(ctx, profileID)
}

func (t *sqlTx) Commit(_ context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return storageErr(ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *sqlTx) Rollback(_ context.Context) error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return domain.ErrTxClosed
	}
	return err
}
