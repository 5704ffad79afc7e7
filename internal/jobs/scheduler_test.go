package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/discord/discordtest"
	"p2e.club/discord-bot/internal/features/admin"
)

type fakeSweeper struct {
	calls chan struct{}
	err   error
}

func (f *fakeSweeper) Sweep(context.Context) error {
	f.calls <- struct{}{}
	return f.err
}

type fakeStats struct {
	st  *admin.Stats
	err error
}

func (f fakeStats) Stats(context.Context) (*admin.Stats, error) { return f.st, f.err }

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(Specs{SuspensionSweep: "not a spec"}, time.UTC, &fakeSweeper{}, nil, discordtest.NewMessenger(), nil)
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suspension sweep spec")
}

func TestSweepRunsOnSchedule(t *testing.T) {
	sw := &fakeSweeper{calls: make(chan struct{}, 4), err: errors.New("db down")}
	s := NewScheduler(Specs{SuspensionSweep: "@every 1s"}, time.UTC, sw, nil, discordtest.NewMessenger(), nil)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-sw.calls:
	case <-time.After(3 * time.Second):
		t.Fatal("sweep did not run")
	}
}

func TestDailySummaryDMsAdmins(t *testing.T) {
	m := discordtest.NewMessenger()
	m.Blocked["2"] = true
	st := &admin.Stats{TotalUsers: 3, PointsDistributed: 1500, StartedAt: time.Now()}
	s := NewScheduler(Specs{}, time.UTC, nil, fakeStats{st: st}, m, []string{"1", "2", "3"})

	assert.Equal(t, 2, s.runDailySummary(context.Background()))
	require.Len(t, m.DMs("1"), 1)
	embed := m.DMs("1")[0].Embed
	assert.Equal(t, "📊 Daily Summary", embed.Title)
	assert.Equal(t, "1,500", embed.Fields[1].Value)
	assert.Equal(t, 1, m.Attempts("2"))
	assert.Len(t, m.DMs("3"), 1)
}

func TestDailySummaryStatsError(t *testing.T) {
	m := discordtest.NewMessenger()
	s := NewScheduler(Specs{}, time.UTC, nil, fakeStats{err: errors.New("boom")}, m, []string{"1"})
	assert.Equal(t, 0, s.runDailySummary(context.Background()))
	assert.Empty(t, m.All())
}

func TestDisabledJobsAreSkipped(t *testing.T) {
	s := NewScheduler(Specs{DailySummary: "0 9 * * *"}, time.UTC, nil, fakeStats{}, discordtest.NewMessenger(), nil)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.Empty(t, s.cron.Entries())
}
