// Package ledger owns member point balances and their transaction history.
package ledger

import (
	"context"
	"fmt"

	"github.com/osse101/MapBot_Go/internal/concurrency"
	"github.com/osse101/MapBot_Go/internal/domain"
	"github.com/osse101/MapBot_Go/internal/logger"
	"github.com/osse101/MapBot_Go/internal/metrics"
	"github.com/osse101/MapBot_Go/internal/repository"
)

// Service defines the interface for balance operations
type Service interface {
	GetOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error)
	GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error)
	AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error)
	ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error)
	ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error)
}

type service struct {
	repo  repository.Ledger
	locks *concurrency.LockManager[int64]
}

// NewService creates a new ledger service. locks should be shared with every
// other component that mutates a profile's balance.
func NewService(repo repository.Ledger, locks *concurrency.LockManager[int64]) Service {
	if locks == nil {
		locks = concurrency.NewLockManager[int64]()
	}
	return &service{repo: repo, locks: locks}
}

func (s *service) GetOrCreateProfile(ctx context.Context, memberID, guildID int64) (*domain.Profile, error) {
	p, err := s.repo.GetOrCreateProfile(ctx, memberID, guildID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetOrCreateProfileFmt, err)
	}
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, profileID int64) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx, profileID)
}

// AdjustPoints changes the balance by delta. A non-empty reason is recorded as
// a transaction in the same unit of work. The balance never goes negative.
func (s *service) AdjustPoints(ctx context.Context, profileID int64, delta int, reason string) (*domain.Profile, error) {
	log := logger.FromContext(ctx)

	if delta == 0 {
		return nil, fmt.Errorf(ErrMsgZeroDeltaFmt, domain.ErrInvalidAmount)
	}
	if delta > domain.MaxPointsDelta || delta < -domain.MaxPointsDelta {
		return nil, fmt.Errorf(ErrMsgDeltaRangeFmt, domain.ErrInvalidAmount, delta, domain.MaxPointsDelta)
	}

	var updated *domain.Profile
	err := s.locks.WithLock(profileID, func() error {
		var err error
		updated, err = s.repo.AdjustPoints(ctx, profileID, delta, reason)
		return err
	})
	if err != nil {
		log.Warn(LogMsgAdjustFailed, "profile_id", profileID, "delta", delta, "error", err)
		return nil, fmt.Errorf(ErrMsgAdjustPointsFmt, err)
	}

	metrics.RecordPointsDelta(delta)
	log.Info(LogMsgPointsAdjusted, "profile_id", profileID, "delta", delta, "balance", updated.Points, "reason", reason)
	return updated, nil
}

func (s *service) ListTopByPoints(ctx context.Context, guildID int64, page domain.Page) ([]domain.Profile, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListTopByPoints(ctx, guildID, page)
}

func (s *service) ListTransactions(ctx context.Context, profileID int64, page domain.Page) ([]domain.Transaction, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, profileID, page)
}
