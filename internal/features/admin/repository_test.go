package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/db/postgres/pgtest"
	"p2e.club/discord-bot/internal/features/ledger"
)

func TestRepositoryStatsAndActivity(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	repo := NewRepository(pool)
	lr := ledger.NewRepository(pool)

	_, err := lr.Apply(ctx, "u1", 20, "Resume upload")
	require.NoError(t, err)
	_, err = lr.Apply(ctx, "u2", 15, "Event attendance")
	require.NoError(t, err)
	_, err = lr.Apply(ctx, "u2", -5, "Points removed by Mod")
	require.NoError(t, err)

	now := time.Now()
	st, err := repo.Stats(ctx, now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalUsers)
	assert.EqualValues(t, 35, st.PointsDistributed)
	assert.Equal(t, 3, st.TodayActivity)
	assert.Zero(t, st.SuspendedUsers)

	entries, err := repo.Activity(ctx, now.Add(-time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Points removed by Mod", entries[0].Action)
}
