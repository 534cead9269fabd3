// Package purchase turns points into map segments. Every operation runs in a
// single store transaction under the profile's lock: the balance check, the
// segment insert, the debit and the completion check commit together or not
// at all.
package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/MapBot_Go/internal/concurrency"
	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/metrics"
	"github.com/osse101/MapBot_Go/internal/pool"
	"github.com/osse101/MapBot_Go/internal/repository"
)

// BuyResult describes a committed purchase
type BuyResult struct {
	Segments   []int
	Count      int
	Cost       int
	Profile    *domain.Profile
	Completion *domain.CompletionRecord
}

// Completed reports whether this purchase finished the map
func (r *BuyResult) Completed() bool {
	return r.Completion != nil
}

// GrantResult describes a committed admin grant
type GrantResult struct {
	Segment    int
	Completion *domain.CompletionRecord
}

// Service defines the interface for segment acquisition
type Service interface {
	BuyOne(ctx context.Context, profile *domain.Profile, cost int) (*BuyResult, error)
	BuyAllAffordable(ctx context.Context, profile *domain.Profile, cost int) (*BuyResult, error)
	// GrantSegment gives a segment for free. A nil number picks one at random.
	GrantSegment(ctx context.Context, profile *domain.Profile, number *int) (*GrantResult, error)
	// RevokeSegment removes a segment. An existing completion record is kept.
	RevokeSegment(ctx context.Context, profile *domain.Profile, number int) (bool, error)
}

type service struct {
	store repository.Store
	pool  *pool.Pool
	locks *concurrency.LockManager[int64]
}

// NewService creates a new purchase service. locks should be the same manager
// the ledger service uses.
func NewService(store repository.Store, segmentPool *pool.Pool, locks *concurrency.LockManager[int64]) Service {
	if locks == nil {
		locks = concurrency.NewLockManager[int64]()
	}
	return &service{store: store, pool: segmentPool, locks: locks}
}

func (s *service) BuyOne(ctx context.Context, profile *domain.Profile, cost int) (*BuyResult, error) {
	res, err := s.buy(ctx, profile, cost, false)
	recordOutcome(metrics.OperationBuyOne, err)
	return res, err
}

func (s *service) BuyAllAffordable(ctx context.Context, profile *domain.Profile, cost int) (*BuyResult, error) {
	res, err := s.buy(ctx, profile, cost, true)
	recordOutcome(metrics.OperationBuyAll, err)
	return res, err
}

func (s *service) buy(ctx context.Context, profile *domain.Profile, cost int, all bool) (*BuyResult, error) {
	log := logger.FromContext(ctx)

	if cost <= 0 {
		return nil, fmt.Errorf(ErrMsgInvalidCostFmt, domain.ErrInvalidAmount, cost)
	}
	// Fast rejection on the caller's snapshot; the locked row is checked again below
	if !profile.CanAfford(cost) {
		log.Debug(LogMsgPurchaseRejected, "profile_id", profile.ID, "points", profile.Points, "cost", cost)
		return nil, fmt.Errorf(ErrMsgNeedPointsFmt, domain.ErrInsufficientFunds, cost, profile.Points)
	}

	var result *BuyResult
	err := s.locks.WithLock(profile.ID, func() error {
		var err error
		result, err = s.buyLocked(ctx, profile.ID, cost, all)
		return err
	})
	if err != nil {
		if isRejection(err) {
			log.Debug(LogMsgPurchaseRejected, "profile_id", profile.ID, "cost", cost, "error", err)
		} else {
			log.Warn(LogMsgPurchaseFailed, "profile_id", profile.ID, "cost", cost, "error", err)
		}
		return nil, err
	}

	metrics.SegmentsAcquired.WithLabelValues(metrics.SourcePurchase).Add(float64(result.Count))
	metrics.RecordPointsDelta(-result.Cost)
	log.Info(LogMsgSegmentsBought, "profile_id", profile.ID, "segments", result.Segments, "cost", result.Cost, "balance", result.Profile.Points)
	if result.Completion != nil {
		metrics.MapCompletions.Inc()
		log.Info(LogMsgMapCompleted, "profile_id", profile.ID, "guild_id", result.Completion.GuildID, "position", result.Completion.Position)
	}
	return result, nil
}

func (s *service) buyLocked(ctx context.Context, profileID int64, cost int, all bool) (*BuyResult, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFmt, err)
	}
	defer repository.SafeRollback(ctx, tx)

	locked, err := tx.GetProfileForUpdate(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLockProfileFmt, err)
	}
	if !locked.CanAfford(cost) {
		return nil, fmt.Errorf(ErrMsgNeedPointsFmt, domain.ErrInsufficientFunds, cost, locked.Points)
	}

	owned, err := tx.GetOwnedSegments(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetOwnedFmt, err)
	}
	available := s.pool.Available(owned)
	if len(available) == 0 {
		return nil, domain.ErrPoolExhausted
	}

	var picked []int
	reason := domain.ReasonSegmentPurchase
	if all {
		picked = s.pool.SampleMany(available, locked.Points/cost)
		reason = domain.ReasonBulkSegmentPurchase
		err = tx.AddSegmentsBulk(ctx, profileID, picked)
	} else {
		var n int
		if n, err = s.pool.SampleOne(available); err != nil {
			return nil, err
		}
		picked = []int{n}
		err = tx.AddSegment(ctx, profileID, n)
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgAddSegmentFmt, err)
	}

	total := cost * len(picked)
	updated, err := tx.AdjustPoints(ctx, profileID, -total, reason)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDebitFmt, err)
	}

	completion, err := s.checkCompletion(ctx, tx, profileID, append(owned, picked...))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFmt, err)
	}

	return &BuyResult{
		Segments:   picked,
		Count:      len(picked),
		Cost:       total,
		Profile:    updated,
		Completion: completion,
	}, nil
}

// checkCompletion records a completion the first time owned covers the pool.
// It returns nil when the map is incomplete or was completed before.
func (s *service) checkCompletion(ctx context.Context, tx repository.Tx, profileID int64, owned []int) (*domain.CompletionRecord, error) {
	if !s.pool.IsComplete(owned) {
		return nil, nil
	}
	existing, err := tx.GetCompletion(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgCheckCompletionFmt, err)
	}
	if existing != nil {
		return nil, nil
	}
	rec, err := tx.RecordCompletion(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRecordCompletionFmt, err)
	}
	return rec, nil
}

func (s *service) GrantSegment(ctx context.Context, profile *domain.Profile, number *int) (*GrantResult, error) {
	log := logger.FromContext(ctx)

	if number != nil && !s.pool.Contains(*number) {
		return nil, fmt.Errorf(ErrMsgSegmentOutOfRangeFmt, domain.ErrInvalidSegment, *number, s.pool.Size())
	}

	var result *GrantResult
	err := s.locks.WithLock(profile.ID, func() error {
		var err error
		result, err = s.grantLocked(ctx, profile.ID, number)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.SegmentsAcquired.WithLabelValues(metrics.SourceGrant).Inc()
	log.Info(LogMsgSegmentGranted, "profile_id", profile.ID, "segment", result.Segment)
	if result.Completion != nil {
		metrics.MapCompletions.Inc()
		log.Info(LogMsgMapCompleted, "profile_id", profile.ID, "guild_id", result.Completion.GuildID, "position", result.Completion.Position)
	}
	return result, nil
}

func (s *service) grantLocked(ctx context.Context, profileID int64, number *int) (*GrantResult, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFmt, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := tx.GetProfileForUpdate(ctx, profileID); err != nil {
		return nil, fmt.Errorf(ErrMsgLockProfileFmt, err)
	}
	owned, err := tx.GetOwnedSegments(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetOwnedFmt, err)
	}

	var n int
	if number == nil {
		if n, err = s.pool.SampleOne(s.pool.Available(owned)); err != nil {
			return nil, err
		}
	} else {
		n = *number
		for _, o := range owned {
			if o == n {
				return nil, fmt.Errorf(ErrMsgSegmentOwnedFmt, domain.ErrAlreadyOwned, n)
			}
		}
	}

	if err := tx.AddSegment(ctx, profileID, n); err != nil {
		return nil, fmt.Errorf(ErrMsgAddSegmentFmt, err)
	}

	completion, err := s.checkCompletion(ctx, tx, profileID, append(owned, n))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFmt, err)
	}
	return &GrantResult{Segment: n, Completion: completion}, nil
}

func (s *service) RevokeSegment(ctx context.Context, profile *domain.Profile, number int) (bool, error) {
	var removed bool
	err := s.locks.WithLock(profile.ID, func() error {
		var err error
		removed, err = s.store.RemoveSegment(ctx, profile.ID, number)
		return err
	})
	if err != nil {
		return false, fmt.Errorf(ErrMsgRemoveSegmentFmt, err)
	}

	if removed {
		metrics.SegmentsRevoked.Inc()
		logger.FromContext(ctx).Info(LogMsgSegmentRevoked, "profile_id", profile.ID, "segment", number)
	}
	return removed, nil
}

// isRejection reports whether err is an expected business outcome rather than a fault
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInsufficientFunds) ||
		errors.Is(err, domain.ErrPoolExhausted) ||
		errors.Is(err, domain.ErrInvalidAmount)
}

func recordOutcome(operation string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.PurchaseOutcomes.WithLabelValues(operation, result).Inc()
}
