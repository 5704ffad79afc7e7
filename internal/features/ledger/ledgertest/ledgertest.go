// Package ledgertest provides an in-memory ledger store and a synchronous
// runner for service tests.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/features/ledger"
)

// MemStore is a goroutine-safe in-memory ledger.Store.
type MemStore struct {
	mu       sync.Mutex
	balances map[string]int64
	log      []ledger.LogEntry
	nextID   int64
	// FailApply, when set, is returned by Apply without mutating anything.
	FailApply error
}

var _ ledger.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{balances: map[string]int64{}}
}

func (m *MemStore) Apply(_ context.Context, userID string, delta int64, action string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailApply != nil {
		return 0, m.FailApply
	}
	m.balances[userID] += delta
	m.appendLocked(userID, delta, action)
	return m.balances[userID], nil
}

func (m *MemStore) Reset(_ context.Context, userID, action string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.balances[userID]
	if prev == 0 {
		return 0, nil
	}
	m.balances[userID] = 0
	m.appendLocked(userID, -prev, action)
	return prev, nil
}

func (m *MemStore) appendLocked(userID string, delta int64, action string) {
	m.nextID++
	m.log = append(m.log, ledger.LogEntry{
		ID:        m.nextID,
		UserID:    userID,
		Action:    action,
		Points:    delta,
		Timestamp: time.Now(),
	})
}

// Set forces a balance and logs it as a single entry.
func (m *MemStore) Set(userID string, points int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delta := points - m.balances[userID]
	m.balances[userID] = points
	m.appendLocked(userID, delta, "seed")
}

func (m *MemStore) Balance(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *MemStore) History(_ context.Context, userID string, limit int) ([]ledger.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.LogEntry
	for i := len(m.log) - 1; i >= 0 && len(out) < limit; i-- {
		if m.log[i].UserID == userID {
			out = append(out, m.log[i])
		}
	}
	return out, nil
}

// Entries returns every log entry for userID, oldest first.
func (m *MemStore) Entries(userID string) []ledger.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.LogEntry
	for _, e := range m.log {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// LogSum returns the sum of logged deltas for userID.
func (m *MemStore) LogSum(userID string) int64 {
	var sum int64
	for _, e := range m.Entries(userID) {
		sum += e.Points
	}
	return sum
}

func (m *MemStore) sortedLocked() []ledger.Account {
	accounts := make([]ledger.Account, 0, len(m.balances))
	for id, p := range m.balances {
		accounts = append(accounts, ledger.Account{UserID: id, Points: p})
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Points != accounts[j].Points {
			return accounts[i].Points > accounts[j].Points
		}
		return accounts[i].UserID < accounts[j].UserID
	})
	return accounts
}

func (m *MemStore) Leaderboard(_ context.Context, offset, limit int) ([]ledger.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedLocked()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MemStore) CountAccounts(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.balances), nil
}

func (m *MemStore) Rank(_ context.Context, userID string) (int, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.sortedLocked() {
		if a.UserID == userID {
			return i + 1, a.Points, nil
		}
	}
	return 0, 0, common.ErrUserNotFound
}

// InlineRunner runs tasks synchronously and records their errors.
type InlineRunner struct {
	mu     sync.Mutex
	Tasks  []string
	Errors []error
}

func (r *InlineRunner) Go(name string, fn func(ctx context.Context) error) bool {
	err := fn(context.Background())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tasks = append(r.Tasks, name)
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
	return true
}
