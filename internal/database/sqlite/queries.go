package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// queries holds the single-statement operations shared by the store and its transactions.
// Timestamps are stored as Unix nanoseconds.
type queries struct {
	db  dbtx
	now func() time.Time
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		p       domain.Profile
		created int64
	)
	if err := row.Scan(&p.ID, &p.MemberID, &p.GuildID, &p.Points, &created); err != nil {
		return nil, err
	}
	p.CreatedAt = fromNanos(created)
	return &p, nil
}

func (q queries) getOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error) {
	if _, err := q.db.ExecContext(ctx, queryInsertProfileIfAbsent, memberID, guildID, q.now().UnixNano()); err != nil {
		return nil, storageErr(ErrMsgFailedToCreateProfile, err)
	}
	p, err := scanProfile(q.db.QueryRowContext(ctx, querySelectProfileByMember, memberID, guildID))
	if err != nil {
		return nil, storageErr(ErrMsgFailedToGetProfile, err)
	}
	return p, nil
}

func (q queries) getProfile(ctx context.Context, profileID int64) (*domain.Profile, error) {
	p, err := scanProfile(q.db.QueryRowContext(ctx, querySelectProfile, profileID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	}
	if err != nil {
		return nil, storageErr(ErrMsgFailedToGetProfile, err)
	}
	return p, nil
}

func (q queries) adjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	p, err := scanProfile(q.db.QueryRowContext(ctx, queryAdjustPoints, delta, profileID))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := q.db.QueryRowContext(ctx, queryProfileExists, profileID).Scan(&exists); err != nil {
			return nil, storageErr(ErrMsgFailedToCheckProfileExists, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
		}
		return nil, fmt.Errorf("%w: profile %d cannot cover %d", domain.ErrInsufficientFunds, profileID, -delta)
	}
	if err != nil {
		return nil, storageErr(ErrMsgFailedToAdjustPoints, err)
	}

	if reason != "" {
		if _, err := q.db.ExecContext(ctx, queryInsertTransaction, profileID, delta, reason, q.now().UnixNano()); err != nil {
			return nil, storageErr(ErrMsgFailedToInsertTransaction, err)
		}
	}
	return p, nil
}

func (q queries) listTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	rows, err := q.db.QueryContext(ctx, queryTopByPoints, guildID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTopByPoints, err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storageErr(ErrMsgFailedToQueryTopByPoints, err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTopByPoints, err)
	}
	return profiles, nil
}

func (q queries) listTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	rows, err := q.db.QueryContext(ctx, queryListTransactions, profileID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTransactions, err)
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var (
			t  domain.Transaction
			ts int64
		)
		if err := rows.Scan(&t.ID, &t.ProfileID, &t.Amount, &t.Reason, &ts); err != nil {
			return nil, storageErr(ErrMsgFailedToQueryTransactions, err)
		}
		t.Timestamp = fromNanos(ts)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTransactions, err)
	}
	return txs, nil
}

func (q queries) getOwnedSegments(ctx context.Context, profileID int64) ([]int, error) {
	rows, err := q.db.QueryContext(ctx, queryOwnedSegments, profileID)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegments, err)
	}
	defer rows.Close()

	owned := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, storageErr(ErrMsgFailedToQuerySegments, err)
		}
		owned = append(owned, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegments, err)
	}
	return owned, nil
}

func (q queries) addSegment(ctx context.Context, profileID int64, number int) error {
	if _, err := q.db.ExecContext(ctx, queryInsertSegment, profileID, number, q.now().UnixNano()); err != nil {
		return segmentInsertErr(profileID, err)
	}
	return nil
}

// addSegmentsBulk must run inside a transaction so a failed row discards the earlier ones
func (q queries) addSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error {
	for _, n := range numbers {
		if err := q.addSegment(ctx, profileID, n); err != nil {
			return err
		}
	}
	return nil
}

func (q queries) removeSegment(ctx context.Context, profileID int64, number int) (bool, error) {
	res, err := q.db.ExecContext(ctx, queryDeleteSegment, profileID, number)
	if err != nil {
		return false, storageErr(ErrMsgFailedToDeleteSegment, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr(ErrMsgFailedToDeleteSegment, err)
	}
	return n > 0, nil
}

func (q queries) getCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	var (
		c  domain.CompletionRecord
		ts int64
	)
	err := q.db.QueryRowContext(ctx, queryGetCompletion, profileID).
		Scan(&c.ProfileID, &c.MemberID, &c.GuildID, &ts, &c.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(ErrMsgFailedToGetCompletion, err)
	}
	c.CompletedAt = fromNanos(ts)
	return &c, nil
}

// recordCompletion relies on the single writer connection to keep the count
// and the insert consistent
func (q queries) recordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	p, err := q.getProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	count, err := q.countCompletions(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}

	completedAt := q.now()
	_, err = q.db.ExecContext(ctx, queryInsertCompletion, profileID, completedAt.UnixNano())
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: profile %d", domain.ErrAlreadyCompleted, profileID)
	}
	if err != nil {
		return nil, storageErr(ErrMsgFailedToInsertCompletion, err)
	}

	return &domain.CompletionRecord{
		ProfileID:   p.ID,
		MemberID:    p.MemberID,
		GuildID:     p.GuildID,
		CompletedAt: fromNanos(completedAt.UnixNano()),
		Position:    count + 1,
	}, nil
}

func (q queries) countCompletions(ctx context.Context, guildID int64) (int, error) {
	var count int
	if err := q.db.QueryRowContext(ctx, queryCountCompletions, guildID).Scan(&count); err != nil {
		return 0, storageErr(ErrMsgFailedToCountCompletions, err)
	}
	return count, nil
}

func (q queries) listCompletions(ctx context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error) {
	rows, err := q.db.QueryContext(ctx, queryListCompletions, guildID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryCompletions, err)
	}
	defer rows.Close()

	records := []domain.CompletionRecord{}
	position := page.Offset
	for rows.Next() {
		var (
			c  domain.CompletionRecord
			ts int64
		)
		if err := rows.Scan(&c.ProfileID, &c.MemberID, &c.GuildID, &ts); err != nil {
			return nil, storageErr(ErrMsgFailedToQueryCompletions, err)
		}
		position++
		c.CompletedAt = fromNanos(ts)
		c.Position = position
		records = append(records, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(ErrMsgFailedToQueryCompletions, err)
	}
	return records, nil
}

func (q queries) listSegmentCounts(ctx context.Context, guildID int64, page domain.Page) ([]domain.SegmentCount, error) {
	rows, err := q.db.QueryContext(ctx, querySegmentCounts, guildID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegmentCounts, err)
	}
	defer rows.Close()

	counts := []domain.SegmentCount{}
	for rows.Next() {
		var c domain.SegmentCount
		if err := rows.Scan(&c.ProfileID, &c.MemberID, &c.Owned); err != nil {
			return nil, storageErr(ErrMsgFailedToQuerySegmentCounts, err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegmentCounts, err)
	}
	return counts, nil
}
