package resources

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/db/postgres/pgtest"
)

func TestRepositoryReviewLifecycle(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	repo := NewRepository(pool)

	sub, err := repo.Create(ctx, "u1", "A guide to pgx")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, sub.Status)
	assert.Nil(t, sub.ReviewedBy)

	n, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.ReviewLatest(ctx, "u1", Review{Status: StatusApproved, ReviewerID: "a1", Points: 10})
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)
	assert.EqualValues(t, 10, got.PointsAwarded)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, "a1", *got.ReviewedBy)

	_, err = repo.ReviewLatest(ctx, "u1", Review{Status: StatusRejected, ReviewerID: "a1"})
	assert.ErrorIs(t, err, common.ErrNoPendingSubmission)

	require.NoError(t, repo.Reopen(ctx, sub.ID))
	pending, err := repo.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Nil(t, pending[0].ReviewedAt)
}

func TestRepositoryConcurrentReviewClaimsOnce(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	repo := NewRepository(pool)

	_, err := repo.Create(ctx, "u1", "Only one of these")
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		claimed atomic.Int32
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ReviewLatest(ctx, "u1", Review{Status: StatusApproved, ReviewerID: "a", Points: 10}); err == nil {
				claimed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, claimed.Load())
}
