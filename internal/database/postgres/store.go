package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/repository"
)

// Store implements repository.Store on a pgx connection pool
type Store struct {
	pool *pgxpool.Pool
	q    queries
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a new PostgreSQL-backed store
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: queries{db: pool}}
}

// BeginTx starts a transaction exposing the locked-profile operations
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToBeginTransaction, err)
	}
	return &pgxTx{tx: tx, q: queries{db: tx}}, nil
}

// Ping checks the pool can reach the server
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases every pooled connection
func (s *Store) Close() {
	s.pool.Close()
}

// inTx runs fn in a transaction and commits when it returns nil
func (s *Store) inTx(ctx context.Context, fn func(q queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storageErr(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if err := fn(queries{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageErr(ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (s *Store) GetOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error) {
	return s.q.getOrCreateProfile(ctx, memberID, guildID)
}

func (s *Store) GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error) {
	return s.q.getProfile(ctx, profileID, false)
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
	return s.q.addSegmentsBulk(ctx, profileID, numbers)
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

// pgxTx implements repository.Tx
type pgxTx struct {
	tx pgx.Tx
	q  queries
}

func (t *pgxTx) GetProfileForUpdate(ctx context.Context, profileID int64) (*domain.Profile, error) {
	return t.q.getProfile(ctx, profileID, true)
}

func (t *pgxTx) GetOwnedSegments(ctx context.Context, profileID int64) ([]int, error) {
	return t.q.getOwnedSegments(ctx, profileID)
}

func (t *pgxTx) AddSegment(ctx context.Context, profileID int64, number int) error {
	return t.q.addSegment(ctx, profileID, number)
}

func (t *pgxTx) AddSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error {
	return t.q.addSegmentsBulk(ctx, profileID, numbers)
}

func (t *pgxTx) RemoveSegment(ctx context.Context, profileID int64, number int) (bool, error) {
	return t.q.removeSegment(ctx, profileID, number)
}

func (t *pgxTx) AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	return t.q.adjustPoints(ctx, profileID, delta, reason)
}

func (t *pgxTx) GetCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	return t.q.getCompletion(ctx, profileID)
}

func (t *pgxTx) RecordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	return t.q.recordCompletion(ctx, profileID)
}

func (t *pgxTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return storageErr(ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *pgxTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && errors.Is(err, pgx.ErrTxClosed) {
		return domain.ErrTxClosed
	}
	return err
}
