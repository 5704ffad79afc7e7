package shop

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/db/postgres/pgtest"
	"p2e.club/discord-bot/internal/features/ledger"
)

func TestRepositoryConcurrentRedeem(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	repo := NewRepository(pool)
	ledgerRepo := ledger.NewRepository(pool)

	n, err := repo.SeedDefaults(ctx, DefaultRewards)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRewards), n)

	catalog, err := repo.Catalog(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, catalog)
	cheapest := catalog[0]
	assert.Equal(t, "Resume Review", cheapest.Name)

	_, err = ledgerRepo.Apply(ctx, "u1", cheapest.Cost, "seed")
	require.NoError(t, err)

	var (
		wg           sync.WaitGroup
		successes    atomic.Int32
		insufficient atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Redeem(ctx, "u1", cheapest.ID)
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, common.ErrInsufficientPoints):
				insufficient.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, successes.Load())
	assert.EqualValues(t, 7, insufficient.Load())

	balance, err := ledgerRepo.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, balance)

	var logSum, redemptions int64
	require.NoError(t, pool.QueryRow(ctx, `SELECT COALESCE(SUM(points), 0) FROM points_log WHERE user_id = 'u1'`).Scan(&logSum))
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM redemptions WHERE user_id = 'u1'`).Scan(&redemptions))
	assert.Equal(t, balance, logSum)
	assert.EqualValues(t, 1, redemptions)
}

func TestRepositoryRedeemEdgeCases(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	repo := NewRepository(pool)

	_, err := repo.SeedDefaults(ctx, DefaultRewards)
	require.NoError(t, err)

	_, err = repo.Redeem(ctx, "u1", 9999)
	assert.ErrorIs(t, err, common.ErrRewardNotFound)

	catalog, err := repo.Catalog(ctx)
	require.NoError(t, err)
	_, err = repo.Redeem(ctx, "nobody", catalog[0].ID)
	assert.ErrorIs(t, err, common.ErrInsufficientPoints)

	again, err := repo.SeedDefaults(ctx, DefaultRewards)
	require.NoError(t, err)
	assert.Zero(t, again)
}
