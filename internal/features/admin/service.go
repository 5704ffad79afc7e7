// Package admin — service.go wraps the ledger for manual adjustments and
// builds the reporting views.
package admin

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/features/ledger"
)

type Store interface {
	Stats(ctx context.Context, dayStart, now time.Time) (*Stats, error)
	Activity(ctx context.Context, since time.Time, limit int) ([]ledger.LogEntry, error)
}

// Ledger is the subset of ledger.Service used here.
type Ledger interface {
	Apply(ctx context.Context, userID string, delta int64, action string) (int64, error)
	Reset(ctx context.Context, userID, action string) (int64, error)
	Leaderboard(ctx context.Context, page, pageSize int) (*ledger.LeaderboardPage, error)
}

type Service struct {
	store     Store
	ledger    Ledger
	loc       *time.Location
	startedAt time.Time
	now       func() time.Time
}

func NewService(store Store, l Ledger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:     store,
		ledger:    l,
		loc:       loc,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

func (s *Service) StartedAt() time.Time {
	return s.startedAt
}

// Grant adds amount points on behalf of an administrator.
func (s *Service) Grant(ctx context.Context, userID string, amount int64, adminName string) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	return s.adjust(ctx, userID, amount, GrantAction(adminName))
}

// Deduct removes amount points. The balance may go negative.
func (s *Service) Deduct(ctx context.Context, userID string, amount int64, adminName string) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	return s.adjust(ctx, userID, -amount, DeductAction(adminName))
}

func (s *Service) adjust(ctx context.Context, userID string, delta int64, action string) (int64, error) {
	total, err := s.ledger.Apply(ctx, userID, delta, action)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"delta":   delta,
		"action":  action,
	}).Info("manual adjustment")
	return total, nil
}

// Reset zeroes the balance and returns what it was.
func (s *Service) Reset(ctx context.Context, userID, adminName string) (int64, error) {
	return s.ledger.Reset(ctx, userID, ResetAction(adminName))
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	local := now.In(s.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	st, err := s.store.Stats(ctx, dayStart, now)
	if err != nil {
		return nil, err
	}
	st.StartedAt = s.startedAt
	return st, nil
}

// TopUsers returns the first limit accounts, clamped to [1, MaxTopUsers].
func (s *Service) TopUsers(ctx context.Context, limit int) ([]ledger.RankedAccount, error) {
	if limit <= 0 {
		limit = DefaultTopUsers
	}
	if limit > MaxTopUsers {
		limit = MaxTopUsers
	}
	page, err := s.ledger.Leaderboard(ctx, 1, limit)
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}

// ActivityLog returns recent points_log rows within the last hours.
func (s *Service) ActivityLog(ctx context.Context, hours int) ([]ledger.LogEntry, int, error) {
	if hours <= 0 {
		hours = DefaultActivityHours
	}
	if hours > MaxActivityHours {
		hours = MaxActivityHours
	}
	since := s.now().Add(-time.Duration(hours) * time.Hour)
	entries, err := s.store.Activity(ctx, since, ActivityLogLimit)
	if err != nil {
		return nil, hours, err
	}
	return entries, hours, nil
}
