// Package app builds every component of the application.
// app.go is the assembly point: it opens the database pool, creates the
// repositories, services and handlers, and hands them to the Bot.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/backend"
	"p2e.club/discord-bot/internal/bot"
	"p2e.club/discord-bot/internal/config"
	"p2e.club/discord-bot/internal/db/postgres"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/admin"
	"p2e.club/discord-bot/internal/features/ledger"
	"p2e.club/discord-bot/internal/features/members"
	"p2e.club/discord-bot/internal/features/milestones"
	"p2e.club/discord-bot/internal/features/moderation"
	"p2e.club/discord-bot/internal/features/resources"
	"p2e.club/discord-bot/internal/features/shop"
	"p2e.club/discord-bot/internal/jobs"
	"p2e.club/discord-bot/internal/notify"
)

// App holds the running components.
type App struct {
	Bot        *bot.Bot
	Scheduler  *jobs.Scheduler
	Dispatcher *notify.Dispatcher
	DB         *pgxpool.Pool
}

// New creates and wires the application. The order matters: components
// depend on the ones built before them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Database ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// === 2. Discord session ===
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session := discord.NewSession(dg, cfg.GuildID)
	loc := cfg.Location()

	// === 3. Async follow-ups ===
	dispatcher := notify.New(cfg.DispatchWorkers, cfg.DispatchQueue)

	// === 4. Repositories ===
	ledgerRepo := ledger.NewRepository(pool)
	milestoneRepo := milestones.NewRepository(pool)
	shopRepo := shop.NewRepository(pool)
	resourceRepo := resources.NewRepository(pool)
	moderationRepo := moderation.NewRepository(pool)
	adminRepo := admin.NewRepository(pool)
	memberRepo := members.NewRepository(pool)

	// === 5. Services ===
	ledgerService := ledger.NewService(ledgerRepo, dispatcher)
	moderationService := moderation.NewService(moderationRepo, cfg.FeatureEnforceSuspension)
	ledgerService.SetGuard(moderationService)

	milestoneService := milestones.NewService(milestoneRepo, ledgerService, session)
	ledgerService.OnChange("milestones", milestoneService.OnChange)

	// Left as an untyped nil when disabled so members sees no registrar.
	var registrar members.Registrar
	if cfg.BackendEnabled {
		client := backend.New(cfg.BackendAPIURL, cfg.BackendTimeout)
		registrar = client
		ledgerService.OnChange("backend_sync", func(ctx context.Context, ch ledger.Change) error {
			return client.SyncPoints(ctx, ch.UserID, ch.Delta, ch.Action, ch.At)
		})
	}

	shopService := shop.NewService(shopRepo, ledgerService)
	if err := shopService.Seed(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seed rewards: %w", err)
	}
	resourceService := resources.NewService(resourceRepo, ledgerService, dispatcher, session, cfg.AdminIDs, session)
	adminService := admin.NewService(adminRepo, ledgerService, loc)
	memberService := members.NewService(memberRepo, registrar, dispatcher, session, cfg.FeatureWelcomeDM)

	// === 6. Handlers ===
	handlers := bot.Handlers{
		Ledger:     ledger.NewHandler(ledgerService, session, session, loc, cfg.LeaderboardPageSize),
		Milestones: milestones.NewHandler(milestoneService, session),
		Shop:       shop.NewHandler(shopService, ledgerService, session),
		Resources:  resources.NewHandler(resourceService, session, session),
		Moderation: moderation.NewHandler(moderationService, session),
		Admin:      admin.NewHandler(adminService, session, session, loc),
		Members:    members.NewHandler(memberService, session, session),
	}

	// === 7. Bot ===
	b := bot.New(dg, cfg, session, session, ledgerService, handlers)

	// === 8. Scheduler ===
	scheduler := jobs.NewScheduler(jobs.Specs{
		SuspensionSweep: cfg.SuspensionSweepSpec,
		DailySummary:    cfg.DailySummarySpec,
	}, loc, moderationService, adminService, session, cfg.AdminIDs)

	log.WithFields(log.Fields{
		"guild":   cfg.GuildID,
		"admins":  len(cfg.AdminIDs),
		"backend": cfg.BackendEnabled,
		"enforce": cfg.FeatureEnforceSuspension,
	}).Info("Application assembled")

	return &App{
		Bot:        b,
		Scheduler:  scheduler,
		Dispatcher: dispatcher,
		DB:         pool,
	}, nil
}

// Run starts the workers, the scheduler and the gateway, and blocks until
// ctx is cancelled. Everything is stopped before it returns.
func (a *App) Run(ctx context.Context) error {
	a.Dispatcher.Start(ctx)
	defer a.DB.Close()
	defer a.Dispatcher.Stop()

	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}
	defer a.Scheduler.Stop()

	start := time.Now()
	err := a.Bot.Start(ctx)
	log.WithField("uptime", time.Since(start).Round(time.Second)).Info("Bot stopped")
	return err
}
