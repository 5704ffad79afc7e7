// Package jobs runs the background cron tasks.
// scheduler.go sets up the schedule: lifting expired suspensions and the
// daily statistics summary sent to the administrators.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/admin"
)

// Sweeper lifts suspensions whose end time has passed.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// StatsSource produces the statistics snapshot.
type StatsSource interface {
	Stats(ctx context.Context) (*admin.Stats, error)
}

// Specs holds the cron expressions. An empty spec disables the job.
type Specs struct {
	SuspensionSweep string
	DailySummary    string
}

// Scheduler owns the background jobs.
type Scheduler struct {
	cron      *cron.Cron
	specs     Specs
	sweeper   Sweeper
	stats     StatsSource
	messenger discord.Messenger
	adminIDs  []string
	loc       *time.Location
}

// NewScheduler creates a scheduler that evaluates specs in loc.
func NewScheduler(specs Specs, loc *time.Location, sweeper Sweeper, stats StatsSource, messenger discord.Messenger, adminIDs []string) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		specs:     specs,
		sweeper:   sweeper,
		stats:     stats,
		messenger: messenger,
		adminIDs:  adminIDs,
		loc:       loc,
	}
}

// Start registers the jobs and starts the cron runner. A bad spec is
// returned before anything runs.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.specs.SuspensionSweep != "" && s.sweeper != nil {
		if _, err := s.cron.AddFunc(s.specs.SuspensionSweep, func() { s.runSweep(ctx) }); err != nil {
			return fmt.Errorf("suspension sweep spec %q: %w", s.specs.SuspensionSweep, err)
		}
	}
	if s.specs.DailySummary != "" && s.stats != nil && len(s.adminIDs) > 0 {
		if _, err := s.cron.AddFunc(s.specs.DailySummary, func() { s.runDailySummary(ctx) }); err != nil {
			return fmt.Errorf("daily summary spec %q: %w", s.specs.DailySummary, err)
		}
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"jobs":     len(s.cron.Entries()),
		"location": s.loc.String(),
	}).Info("Scheduler started")
	return nil
}

// Stop stops the runner and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Scheduler stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if err := s.sweeper.Sweep(ctx); err != nil {
		log.WithError(err).Error("[CRON] suspension sweep failed")
	}
}

// runDailySummary DMs the statistics embed to every ADMIN_IDS entry.
// It returns how many admins received it.
func (s *Scheduler) runDailySummary(ctx context.Context) int {
	log.Info("[CRON] daily summary")
	st, err := s.stats.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] daily summary: stats failed")
		return 0
	}

	day := time.Now().In(s.loc).Format("2006-01-02")
	embed := admin.StatsEmbed(st, "📊 Daily Summary", "Bot activity for "+day)
	sent := 0
	for _, id := range s.adminIDs {
		if err := s.messenger.DirectEmbed(id, embed); err != nil {
			log.WithError(err).WithField("admin_id", id).Warn("[CRON] daily summary DM failed")
			continue
		}
		sent++
	}
	return sent
}
