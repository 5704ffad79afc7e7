package members

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/backend"
	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/discord/discordtest"
	"p2e.club/discord-bot/internal/features/ledger/ledgertest"
)

type memStore struct {
	mu      sync.Mutex
	members map[string]*Member
}

func newMemStore() *memStore {
	return &memStore{members: map[string]*Member{}}
}

func (m *memStore) Upsert(_ context.Context, mem *Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mem
	if old, ok := m.members[mem.UserID]; ok {
		cp.RegisteredAt = old.RegisteredAt
	}
	m.members[mem.UserID] = &cp
	return nil
}

func (m *memStore) MarkRegistered(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem, ok := m.members[userID]; ok {
		mem.RegisteredAt = &at
	}
	return nil
}

func (m *memStore) Get(_ context.Context, userID string) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[userID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	cp := *mem
	return &cp, nil
}

type fakeRegistrar struct {
	mu   sync.Mutex
	regs []backend.Registration
	err  error
}

func (f *fakeRegistrar) RegisterUser(_ context.Context, reg backend.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regs = append(f.regs, reg)
	return f.err
}

var alice = discord.Profile{
	UserID:      "100",
	Username:    "alice",
	DisplayName: "Alice",
	JoinedAt:    time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC),
}

func TestJoinRegistersAndWelcomes(t *testing.T) {
	store := newMemStore()
	reg := &fakeRegistrar{}
	runner := &ledgertest.InlineRunner{}
	m := discordtest.NewMessenger()
	svc := NewService(store, reg, runner, m, true)

	require.NoError(t, svc.Join(context.Background(), alice))

	require.Len(t, reg.regs, 1)
	assert.Equal(t, backend.Registration{
		DiscordID:   "100",
		DisplayName: "Alice",
		Username:    "alice",
		JoinedAt:    "2024-02-03T04:05:06Z",
	}, reg.regs[0])

	got, err := svc.Get(context.Background(), "100")
	require.NoError(t, err)
	assert.NotNil(t, got.RegisteredAt)

	dms := m.DMs("100")
	require.Len(t, dms, 2)
	require.NotNil(t, dms[0].Embed)
	assert.Equal(t, "🎉 Welcome to Propel2Excel, Alice!", dms[0].Embed.Title)
	assert.Contains(t, dms[1].Text, "50 points = Azure Certification")
}

func TestJoinFailuresStayInBackground(t *testing.T) {
	store := newMemStore()
	reg := &fakeRegistrar{err: errors.New("backend down")}
	runner := &ledgertest.InlineRunner{}
	m := discordtest.NewMessenger()
	m.Blocked["100"] = true
	svc := NewService(store, reg, runner, m, true)

	require.NoError(t, svc.Join(context.Background(), alice))
	assert.Len(t, runner.Errors, 2)

	got, err := svc.Get(context.Background(), "100")
	require.NoError(t, err)
	assert.Nil(t, got.RegisteredAt)
}

func TestJoinSkipsBotsAndDisabledFeatures(t *testing.T) {
	store := newMemStore()
	runner := &ledgertest.InlineRunner{}
	m := discordtest.NewMessenger()
	svc := NewService(store, nil, runner, m, false)

	bot := alice
	bot.Bot = true
	require.NoError(t, svc.Join(context.Background(), bot))
	_, err := svc.Get(context.Background(), "100")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	require.NoError(t, svc.Join(context.Background(), alice))
	assert.Empty(t, runner.Tasks)
	assert.Zero(t, m.Attempts("100"))

	assert.ErrorIs(t, svc.Register(context.Background(), alice), backend.ErrDisabled)
}

func TestHandleRegisterUser(t *testing.T) {
	reg := &fakeRegistrar{}
	m := discordtest.NewMessenger()
	svc := NewService(newMemStore(), reg, &ledgertest.InlineRunner{}, m, true)
	h := NewHandler(svc, m, discordtest.Directory{"100": "alice"})
	ctx := context.Background()

	h.HandleRegisterUser(ctx, &discord.Invocation{ChannelID: "c", Args: []string{"<@999>"}})
	assert.Equal(t, "❌ Member not found.", m.Last().Text)

	h.HandleRegisterUser(ctx, &discord.Invocation{ChannelID: "c", Args: []string{"<@100>"}})
	embed := m.Last().Embed
	require.NotNil(t, embed)
	assert.Equal(t, "✅ User Registration", embed.Title)
	require.Len(t, reg.regs, 1)
}

func TestHandleSendWelcomeBlocked(t *testing.T) {
	m := discordtest.NewMessenger()
	m.Blocked["100"] = true
	svc := NewService(newMemStore(), nil, &ledgertest.InlineRunner{}, m, true)
	h := NewHandler(svc, m, discordtest.Directory{"100": "alice"})

	h.HandleSendWelcome(context.Background(), &discord.Invocation{ChannelID: "c", Args: []string{"100"}})
	assert.Equal(t, "❌ Could not send welcome DM to <@100> - DMs disabled", m.Last().Text)
}
