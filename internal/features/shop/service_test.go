package shop

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/discord/discordtest"
	"p2e.club/discord-bot/internal/features/ledger"
)

type memStore struct {
	mu          sync.Mutex
	rewards     []Reward
	balances    map[string]int64
	redemptions []Redemption
}

func newMemStore() *memStore {
	return &memStore{balances: map[string]int64{}}
}

func (m *memStore) SeedDefaults(_ context.Context, rewards []Reward) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rewards) > 0 {
		return 0, nil
	}
	for i, r := range rewards {
		r.ID = int64(i + 1)
		m.rewards = append(m.rewards, r)
	}
	return len(rewards), nil
}

func (m *memStore) Catalog(context.Context) ([]Reward, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Reward(nil), m.rewards...), nil
}

func (m *memStore) Redeem(_ context.Context, userID string, rewardID int64) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reward *Reward
	for i := range m.rewards {
		if m.rewards[i].ID == rewardID {
			reward = &m.rewards[i]
		}
	}
	if reward == nil {
		return nil, common.ErrRewardNotFound
	}
	if m.balances[userID] < reward.Cost {
		return nil, common.ErrInsufficientPoints
	}
	m.balances[userID] -= reward.Cost
	m.redemptions = append(m.redemptions, Redemption{ID: int64(len(m.redemptions) + 1), UserID: userID, RewardID: rewardID})
	return &Receipt{RedemptionID: int64(len(m.redemptions)), Reward: *reward, Remaining: m.balances[userID]}, nil
}

func (m *memStore) Balance(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

type announcer struct {
	mu      sync.Mutex
	changes []ledger.Change
}

func (a *announcer) Announce(ch ledger.Change) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changes = append(a.changes, ch)
}

func seeded(t *testing.T) (*Service, *memStore, *announcer) {
	t.Helper()
	store := newMemStore()
	ann := &announcer{}
	svc := NewService(store, ann)
	require.NoError(t, svc.Seed(context.Background()))
	return svc, store, ann
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	svc, store, _ := seeded(t)
	require.NoError(t, svc.Seed(context.Background()))

	assert.Len(t, store.rewards, len(DefaultRewards))
}

func TestRedeemUnknownReward(t *testing.T) {
	svc, _, ann := seeded(t)

	_, err := svc.Redeem(context.Background(), "u1", 99)
	assert.ErrorIs(t, err, common.ErrRewardNotFound)
	assert.Empty(t, ann.changes)
}

func TestRedeemInsufficientLeavesBalance(t *testing.T) {
	svc, store, ann := seeded(t)
	store.balances["u1"] = 250

	_, err := svc.Redeem(context.Background(), "u1", 1) // Resume Review, 300
	assert.ErrorIs(t, err, common.ErrInsufficientPoints)
	assert.EqualValues(t, 250, store.balances["u1"])
	assert.Empty(t, store.redemptions)
	assert.Empty(t, ann.changes)
}

func TestRedeemSuccess(t *testing.T) {
	svc, store, ann := seeded(t)
	store.balances["u1"] = 450

	receipt, err := svc.Redeem(context.Background(), "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, "Resume Review", receipt.Reward.Name)
	assert.EqualValues(t, 150, receipt.Remaining)
	require.Len(t, ann.changes, 1)
	assert.EqualValues(t, -300, ann.changes[0].Delta)
	assert.Equal(t, "Redeemed Resume Review", ann.changes[0].Action)
}

func TestConcurrentRedemptionsSpendOnce(t *testing.T) {
	svc, store, _ := seeded(t)
	store.balances["u1"] = 300

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Redeem(context.Background(), "u1", 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Zero(t, store.balances["u1"])
}

func TestHandleRedeemReplies(t *testing.T) {
	svc, store, _ := seeded(t)
	store.balances["u1"] = 250
	msg := discordtest.NewMessenger()
	h := NewHandler(svc, store, msg)
	ctx := context.Background()
	inv := func(args ...string) *discord.Invocation {
		return &discord.Invocation{ChannelID: "c", AuthorID: "u1", Args: args}
	}

	h.HandleRedeem(ctx, inv())
	assert.Equal(t, "❌ Missing required argument: reward_id", msg.Last().Text)

	h.HandleRedeem(ctx, inv("abc"))
	assert.Equal(t, "❌ Invalid argument provided.", msg.Last().Text)

	h.HandleRedeem(ctx, inv("42"))
	assert.Equal(t, "Reward ID `42` does not exist.", msg.Last().Text)

	h.HandleRedeem(ctx, inv("1"))
	assert.Contains(t, msg.Last().Text, "You have 250 points.")

	store.balances["u1"] = 300
	h.HandleRedeem(ctx, inv("1"))
	assert.Contains(t, msg.Last().Text, "successfully redeemed **Resume Review**")
}

func TestHandleShopListsByCost(t *testing.T) {
	svc, store, _ := seeded(t)
	msg := discordtest.NewMessenger()
	h := NewHandler(svc, store, msg)

	h.HandleShop(context.Background(), &discord.Invocation{ChannelID: "c"})
	text := msg.Last().Text
	assert.Contains(t, text, "**P2E Hat**: 800 points")
}
