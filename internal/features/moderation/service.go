// Package moderation — service.go holds suspension logic and the earning
// guard consulted by the ledger before activity points are credited.
package moderation

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
)

type Store interface {
	Suspend(ctx context.Context, userID string, until time.Time) error
	Unsuspend(ctx context.Context, userID string) (bool, error)
	ClearWarnings(ctx context.Context, userID string) (int, error)
	Get(ctx context.Context, userID string) (*Status, error)
	Touch(ctx context.Context, userID string, at time.Time) (*Status, error)
	RecordSuspicious(ctx context.Context, userID, activityType, details string) error
	LiftExpired(ctx context.Context, now time.Time) ([]string, error)
	CountSuspended(ctx context.Context, now time.Time) (int, error)
}

// MaxSuspensionMinutes caps a single suspension at one year.
const MaxSuspensionMinutes = 365 * 24 * 60

type Service struct {
	store   Store
	enforce bool
	now     func() time.Time
}

// NewService creates the service. With enforce set, suspended users are
// refused activity points; otherwise the earn goes through and is flagged.
func NewService(store Store, enforce bool) *Service {
	return &Service{store: store, enforce: enforce, now: time.Now}
}

// CheckEarn implements ledger.Guard.
func (s *Service) CheckEarn(ctx context.Context, userID, action string) error {
	now := s.now()
	st, err := s.store.Touch(ctx, userID, now)
	if err != nil {
		return err
	}
	if !st.SuspendedAt(now) {
		return nil
	}

	activity := ActivityEarnedWhileSuspended
	if s.enforce {
		activity = ActivityBlockedWhileSuspended
	}
	if err := s.store.RecordSuspicious(ctx, userID, activity, action); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("record suspicious activity failed")
	}
	log.WithFields(log.Fields{
		"user_id":  userID,
		"action":   action,
		"enforced": s.enforce,
	}).Info("earning while suspended")

	if s.enforce {
		return common.ErrPointsSuspended
	}
	return nil
}

// Suspend blocks earning for the given number of minutes and returns the end time.
func (s *Service) Suspend(ctx context.Context, userID string, minutes int) (time.Time, error) {
	if minutes <= 0 || minutes > MaxSuspensionMinutes {
		return time.Time{}, common.ErrInvalidAmount
	}
	until := s.now().Add(time.Duration(minutes) * time.Minute)
	if err := s.store.Suspend(ctx, userID, until); err != nil {
		return time.Time{}, err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"until":   until,
	}).Info("user suspended")
	return until, nil
}

// Unsuspend reports whether an active flag was cleared.
func (s *Service) Unsuspend(ctx context.Context, userID string) (bool, error) {
	changed, err := s.store.Unsuspend(ctx, userID)
	if err != nil {
		return false, err
	}
	if changed {
		log.WithField("user_id", userID).Info("user unsuspended")
	}
	return changed, nil
}

func (s *Service) ClearWarnings(ctx context.Context, userID string) (int, error) {
	return s.store.ClearWarnings(ctx, userID)
}

// Status returns the user's standing; users without a row get a zero status.
func (s *Service) Status(ctx context.Context, userID string) (*Status, error) {
	st, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = &Status{UserID: userID}
	}
	return st, nil
}

func (s *Service) CountSuspended(ctx context.Context) (int, error) {
	return s.store.CountSuspended(ctx, s.now())
}

// Sweep lifts expired suspensions. It is run by the scheduler.
func (s *Service) Sweep(ctx context.Context) error {
	lifted, err := s.store.LiftExpired(ctx, s.now())
	if err != nil {
		return fmt.Errorf("sweep suspensions: %w", err)
	}
	if len(lifted) > 0 {
		log.WithField("users", lifted).Info("expired suspensions lifted")
	}
	return nil
}
