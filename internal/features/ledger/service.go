// Package ledger — service.go holds the balance business logic: mutations,
// guarded earning, history and leaderboard paging. Follow-ups registered with
// OnChange run asynchronously after each committed mutation and can never fail it.
package ledger

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Store is the persistence the service needs. Repository implements it.
type Store interface {
	Apply(ctx context.Context, userID string, delta int64, action string) (int64, error)
	Reset(ctx context.Context, userID, action string) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
	History(ctx context.Context, userID string, limit int) ([]LogEntry, error)
	Leaderboard(ctx context.Context, offset, limit int) ([]Account, error)
	CountAccounts(ctx context.Context) (int, error)
	Rank(ctx context.Context, userID string) (int, int64, error)
}

// Runner schedules fire-and-forget work. notify.Dispatcher implements it.
type Runner interface {
	Go(name string, fn func(ctx context.Context) error) bool
}

// Guard decides whether an account may earn activity points right now.
type Guard interface {
	CheckEarn(ctx context.Context, userID, action string) error
}

// Followup reacts to a committed change.
type Followup func(ctx context.Context, ch Change) error

type namedFollowup struct {
	name string
	fn   Followup
}

// HistoryLimit is how many entries pointshistory shows.
const HistoryLimit = 10

// Service manages point balances.
type Service struct {
	store     Store
	runner    Runner
	guard     Guard
	followups []namedFollowup
	now       func() time.Time
}

func NewService(store Store, runner Runner) *Service {
	return &Service{
		store:  store,
		runner: runner,
		now:    time.Now,
	}
}

// SetGuard installs the earning guard used by Earn.
func (s *Service) SetGuard(g Guard) {
	s.guard = g
}

// OnChange registers a follow-up. Registration must finish before the bot starts.
func (s *Service) OnChange(name string, fn Followup) {
	s.followups = append(s.followups, namedFollowup{name: name, fn: fn})
}

// Apply adds delta (which may be negative) to the account and returns the
// new balance. There is no lower bound.
func (s *Service) Apply(ctx context.Context, userID string, delta int64, action string) (int64, error) {
	total, err := s.store.Apply(ctx, userID, delta, action)
	if err != nil {
		return 0, fmt.Errorf("apply %d to %s: %w", delta, userID, err)
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"delta":   delta,
		"action":  action,
		"total":   total,
	}).Info("points updated")

	s.dispatch(Change{UserID: userID, Delta: delta, Action: action, Total: total, At: s.now()})
	return total, nil
}

// Earn credits an activity after consulting the guard.
func (s *Service) Earn(ctx context.Context, userID string, a Activity) (int64, error) {
	if s.guard != nil {
		if err := s.guard.CheckEarn(ctx, userID, a.Label); err != nil {
			return 0, err
		}
	}
	return s.Apply(ctx, userID, a.Points, a.Label)
}

// Reset zeroes the account and returns the previous balance.
func (s *Service) Reset(ctx context.Context, userID, action string) (int64, error) {
	previous, err := s.store.Reset(ctx, userID, action)
	if err != nil {
		return 0, fmt.Errorf("reset %s: %w", userID, err)
	}
	if previous != 0 {
		log.WithFields(log.Fields{
			"user_id":  userID,
			"previous": previous,
		}).Info("points reset")
		s.dispatch(Change{UserID: userID, Delta: -previous, Action: action, Total: 0, At: s.now()})
	}
	return previous, nil
}

// Announce runs the follow-ups for a change committed outside Apply, such as
// a redemption.
func (s *Service) Announce(ch Change) {
	if ch.At.IsZero() {
		ch.At = s.now()
	}
	s.dispatch(ch)
}

func (s *Service) dispatch(ch Change) {
	for _, f := range s.followups {
		s.runner.Go(f.name, func(ctx context.Context) error {
			return f.fn(ctx, ch)
		})
	}
}

func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	return s.store.Balance(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID string) ([]LogEntry, error) {
	return s.store.History(ctx, userID, HistoryLimit)
}

// Leaderboard returns the requested page, clamped into [1, TotalPages].
func (s *Service) Leaderboard(ctx context.Context, page, pageSize int) (*LeaderboardPage, error) {
	if pageSize <= 0 {
		pageSize = 10
	}
	total, err := s.store.CountAccounts(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page = clamp(page, 1, totalPages)

	offset := (page - 1) * pageSize
	accounts, err := s.store.Leaderboard(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}

	lp := &LeaderboardPage{Page: page, TotalPages: totalPages}
	for i, a := range accounts {
		lp.Entries = append(lp.Entries, RankedAccount{
			Position: offset + i + 1,
			UserID:   a.UserID,
			Points:   a.Points,
		})
	}
	return lp, nil
}

// Rank returns the position and balance; common.ErrUserNotFound if the user
// has no account.
func (s *Service) Rank(ctx context.Context, userID string) (int, int64, error) {
	return s.store.Rank(ctx, userID)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
