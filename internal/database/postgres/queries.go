package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/MapBot_Go/internal/domain"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queries holds the single-statement operations shared by the store and its transactions
type queries struct {
	db dbtx
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.MemberID, &p.GuildID, &p.Points, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (q queries) getOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error) {
	if _, err := q.db.Exec(ctx, queryInsertProfileIfAbsent, memberID, guildID); err != nil {
		return nil, storageErr(ErrMsgFailedToCreateProfile, err)
	}
	p, err := scanProfile(q.db.QueryRow(ctx, querySelectProfileByMember, memberID, guildID))
	if err != nil {
		return nil, storageErr(ErrMsgFailedToGetProfile, err)
	}
	return p, nil
}

func (q queries) getProfile(ctx context.Context, profileID int64, forUpdate bool) (*domain.Profile, error) {
	query, msg := querySelectProfile, ErrMsgFailedToGetProfile
	if forUpdate {
		query, msg = querySelectProfileForUpdate, ErrMsgFailedToLockProfile
	}

	p, err := scanProfile(q.db.QueryRow(ctx, query, profileID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	}
	if err != nil {
		return nil, storageErr(msg, err)
	}
	return p, nil
}

// adjustPoints must run inside a transaction when reason is non-empty
func (q queries) adjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	p, err := scanProfile(q.db.QueryRow(ctx, queryAdjustPoints, profileID, delta))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := q.db.QueryRow(ctx, queryProfileExists, profileID).Scan(&exists); err != nil {
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
		if _, err := q.db.Exec(ctx, queryInsertTransaction, profileID, delta, reason); err != nil {
			return nil, storageErr(ErrMsgFailedToInsertTransaction, err)
		}
	}
	return p, nil
}

func (q queries) listTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	rows, err := q.db.Query(ctx, queryTopByPoints, guildID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTopByPoints, err)
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Profile, error) {
		p, err := scanProfile(row)
		if err != nil {
			return domain.Profile{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTopByPoints, err)
	}
	return profiles, nil
}

func (q queries) listTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	rows, err := q.db.Query(ctx, queryListTransactions, profileID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTransactions, err)
	}
	txs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Transaction, error) {
		var t domain.Transaction
		err := row.Scan(&t.ID, &t.ProfileID, &t.Amount, &t.Reason, &t.Timestamp)
		return t, err
	})
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryTransactions, err)
	}
	return txs, nil
}

func (q queries) getOwnedSegments(ctx context.Context, profileID int64) ([]int, error) {
	rows, err := q.db.Query(ctx, queryOwnedSegments, profileID)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegments, err)
	}
	owned, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegments, err)
	}
	return owned, nil
}

func (q queries) addSegment(ctx context.Context, profileID int64, number int) error {
	if _, err := q.db.Exec(ctx, queryInsertSegment, profileID, number); err != nil {
		return segmentInsertErr(ErrMsgFailedToInsertSegment, profileID, err)
	}
	return nil
}

// addSegmentsBulk is a single statement, so a duplicate anywhere rejects every row
func (q queries) addSegmentsBulk(ctx context.Context, profileID int64, numbers []int) error {
	if len(numbers) == 0 {
		return nil
	}
	values := make([]int32, len(numbers))
	for i, n := range numbers {
		values[i] = int32(n)
	}
	if _, err := q.db.Exec(ctx, queryInsertSegmentsBulk, profileID, values); err != nil {
		return segmentInsertErr(ErrMsgFailedToInsertSegments, profileID, err)
	}
	return nil
}

func (q queries) removeSegment(ctx context.Context, profileID int64, number int) (bool, error) {
	tag, err := q.db.Exec(ctx, queryDeleteSegment, profileID, number)
	if err != nil {
		return false, storageErr(ErrMsgFailedToDeleteSegment, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (q queries) getCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	var c domain.CompletionRecord
	err := q.db.QueryRow(ctx, queryGetCompletion, profileID).
		Scan(&c.ProfileID, &c.MemberID, &c.GuildID, &c.CompletedAt, &c.Position)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(ErrMsgFailedToGetCompletion, err)
	}
	return &c, nil
}

// recordCompletion must run inside a transaction so the guild lock covers the
// count and the insert together
func (q queries) recordCompletion(ctx context.Context, profileID int64) (*domain.CompletionRecord, error) {
	p, err := q.getProfile(ctx, profileID, false)
	if err != nil {
		return nil, err
	}

	if _, err := q.db.Exec(ctx, queryLockGuildCompletions, p.GuildID); err != nil {
		return nil, storageErr(ErrMsgFailedToLockGuild, err)
	}

	count, err := q.countCompletions(ctx, p.GuildID)
	if err != nil {
		return nil, err
	}

	record := &domain.CompletionRecord{
		ProfileID: p.ID,
		MemberID:  p.MemberID,
		GuildID:   p.GuildID,
		Position:  count + 1,
	}
	err = q.db.QueryRow(ctx, queryInsertCompletion, profileID).Scan(&record.CompletedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: profile %d", domain.ErrAlreadyCompleted, profileID)
	}
	if err != nil {
		return nil, storageErr(ErrMsgFailedToInsertCompletion, err)
	}
	return record, nil
}

func (q queries) countCompletions(ctx context.Context, guildID int64) (int, error) {
	var count int
	if err := q.db.QueryRow(ctx, queryCountCompletions, guildID).Scan(&count); err != nil {
		return 0, storageErr(ErrMsgFailedToCountCompletions, err)
	}
	return count, nil
}

func (q queries) listCompletions(ctx context.Context, guildID int64, page domain.Page) ([]domain.CompletionRecord, error) {
	rows, err := q.db.Query(ctx, queryListCompletions, guildID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryCompletions, err)
	}
	position := page.Offset
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CompletionRecord, error) {
		var c domain.CompletionRecord
		err := row.Scan(&c.ProfileID, &c.MemberID, &c.GuildID, &c.CompletedAt)
		position++
		c.Position = position
		return c, err
	})
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQueryCompletions, err)
	}
	return records, nil
}

func (q queries) listSegmentCounts(ctx context.Context, guildID int64, page domain.Page) ([]domain.SegmentCount, error) {
	rows, err := q.db.Query(ctx, querySegmentCounts, guildID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegmentCounts, err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SegmentCount, error) {
		var c domain.SegmentCount
		err := row.Scan(&c.ProfileID, &c.MemberID, &c.Owned)
		return c, err
	})
	if err != nil {
		return nil, storageErr(ErrMsgFailedToQuerySegmentCounts, err)
	}
	return counts, nil
}
