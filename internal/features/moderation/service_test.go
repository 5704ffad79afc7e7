package moderation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/discord/discordtest"
	"p2e.club/discord-bot/internal/features/ledger"
	"p2e.club/discord-bot/internal/features/ledger/ledgertest"
)

type memStore struct {
	mu         sync.Mutex
	statuses   map[string]*Status
	suspicious []SuspiciousActivity
}

func newMemStore() *memStore {
	return &memStore{statuses: map[string]*Status{}}
}

func (m *memStore) row(userID string) *Status {
	st, ok := m.statuses[userID]
	if !ok {
		st = &Status{UserID: userID}
		m.statuses[userID] = st
	}
	return st
}

func (m *memStore) Suspend(_ context.Context, userID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.row(userID)
	st.Warnings = 0
	st.Suspended = true
	st.SuspensionEnd = &until
	return nil
}

func (m *memStore) Unsuspend(_ context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.statuses[userID]
	if !ok || !st.Suspended {
		return false, nil
	}
	st.Suspended = false
	return true, nil
}

func (m *memStore) ClearWarnings(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.statuses[userID]
	if !ok {
		return 0, nil
	}
	prev := st.Warnings
	st.Warnings = 0
	return prev, nil
}

func (m *memStore) Get(_ context.Context, userID string) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.statuses[userID]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) Touch(_ context.Context, userID string, at time.Time) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.row(userID)
	st.LastActivity = &at
	cp := *st
	return &cp, nil
}

func (m *memStore) RecordSuspicious(_ context.Context, userID, activityType, details string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suspicious = append(m.suspicious, SuspiciousActivity{UserID: userID, Type: activityType, Details: details})
	return nil
}

func (m *memStore) LiftExpired(_ context.Context, now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, st := range m.statuses {
		if st.Suspended && st.SuspensionEnd != nil && !st.SuspensionEnd.After(now) {
			st.Suspended = false
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memStore) CountSuspended(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, st := range m.statuses {
		if st.SuspendedAt(now) {
			n++
		}
	}
	return n, nil
}

func newService(store Store, enforce bool, now time.Time) *Service {
	s := NewService(store, enforce)
	s.now = func() time.Time { return now }
	return s
}

func TestStatusSuspendedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)
	earlier := now.Add(-time.Minute)

	var nilStatus *Status
	assert.False(t, nilStatus.SuspendedAt(now))
	assert.False(t, (&Status{}).SuspendedAt(now))
	assert.True(t, (&Status{Suspended: true}).SuspendedAt(now))
	assert.True(t, (&Status{Suspended: true, SuspensionEnd: &later}).SuspendedAt(now))
	assert.False(t, (&Status{Suspended: true, SuspensionEnd: &earlier}).SuspendedAt(now))
}

func TestSuspendResetsWarnings(t *testing.T) {
	store := newMemStore()
	store.row("u1").Warnings = 3
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(store, false, now)

	until, err := svc.Suspend(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), until)

	st, err := svc.Status(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, st.Suspended)
	assert.Zero(t, st.Warnings)

	_, err = svc.Suspend(context.Background(), "u1", 0)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestCheckEarnSoftSignal(t *testing.T) {
	store := newMemStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(store, false, now)
	ctx := context.Background()

	require.NoError(t, svc.CheckEarn(ctx, "u1", "Message sent"))
	assert.Empty(t, store.suspicious)

	_, err := svc.Suspend(ctx, "u1", 10)
	require.NoError(t, err)
	require.NoError(t, svc.CheckEarn(ctx, "u1", "Message sent"))

	require.Len(t, store.suspicious, 1)
	assert.Equal(t, ActivityEarnedWhileSuspended, store.suspicious[0].Type)
	assert.Equal(t, "Message sent", store.suspicious[0].Details)
}

func TestCheckEarnEnforced(t *testing.T) {
	store := newMemStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(store, true, now)
	ctx := context.Background()

	_, err := svc.Suspend(ctx, "u1", 10)
	require.NoError(t, err)

	ls := ledgertest.NewMemStore()
	ledgerSvc := ledger.NewService(ls, &ledgertest.InlineRunner{})
	ledgerSvc.SetGuard(svc)

	_, err = ledgerSvc.Earn(ctx, "u1", ledger.ActivityResume)
	assert.ErrorIs(t, err, common.ErrPointsSuspended)
	assert.Empty(t, ls.Entries("u1"))

	// admin grants are not guarded
	total, err := ledgerSvc.Apply(ctx, "u1", 5, "Admin grant")
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)

	svc.now = func() time.Time { return now.Add(11 * time.Minute) }
	total, err = ledgerSvc.Earn(ctx, "u1", ledger.ActivityResume)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
}

func TestSweepLiftsExpired(t *testing.T) {
	store := newMemStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(store, false, now)
	ctx := context.Background()

	_, err := svc.Suspend(ctx, "short", 1)
	require.NoError(t, err)
	_, err = svc.Suspend(ctx, "long", 60)
	require.NoError(t, err)

	n, err := svc.CountSuspended(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	svc.now = func() time.Time { return now.Add(5 * time.Minute) }
	require.NoError(t, svc.Sweep(ctx))

	assert.False(t, store.statuses["short"].Suspended)
	assert.True(t, store.statuses["long"].Suspended)
}

func TestHandleSuspendValidation(t *testing.T) {
	m := discordtest.NewMessenger()
	h := NewHandler(NewService(newMemStore(), false), m)
	ctx := context.Background()

	h.HandleSuspend(ctx, &discord.Invocation{ChannelID: "c", Args: []string{"<@123>"}})
	assert.Equal(t, "❌ Usage: `!suspenduser @user <minutes>`", m.Last().Text)

	h.HandleSuspend(ctx, &discord.Invocation{ChannelID: "c", Args: []string{"<@123>", "ten"}})
	assert.Equal(t, "❌ Invalid argument provided.", m.Last().Text)

	h.HandleSuspend(ctx, &discord.Invocation{ChannelID: "c", Args: []string{"<@123>", "-1"}})
	assert.Contains(t, m.Last().Text, "Duration must be between")

	h.HandleSuspend(ctx, &discord.Invocation{ChannelID: "c", Args: []string{"<@!123>", "15"}})
	require.NotNil(t, m.Last().Embed)
	assert.Equal(t, "⏸️ User Suspended", m.Last().Embed.Title)
	assert.Contains(t, m.Last().Embed.Description, "<@123>")
}
