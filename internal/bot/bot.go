// Package bot connects the Discord gateway to the feature handlers.
// bot.go registers the event handlers, bounds concurrency and turns chat
// activity into points.
package bot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/bot/filters"
	"p2e.club/discord-bot/internal/bot/middleware"
	"p2e.club/discord-bot/internal/config"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/admin"
	"p2e.club/discord-bot/internal/features/ledger"
	"p2e.club/discord-bot/internal/features/members"
	"p2e.club/discord-bot/internal/features/milestones"
	"p2e.club/discord-bot/internal/features/moderation"
	"p2e.club/discord-bot/internal/features/resources"
	"p2e.club/discord-bot/internal/features/shop"
)

// Earner credits activity points. ledger.Service implements it.
type Earner interface {
	Earn(ctx context.Context, userID string, a ledger.Activity) (int64, error)
}

// Handlers bundles the feature handlers the router dispatches to.
type Handlers struct {
	Ledger     *ledger.Handler
	Milestones *milestones.Handler
	Shop       *shop.Handler
	Resources  *resources.Handler
	Moderation *moderation.Handler
	Admin      *admin.Handler
	Members    *members.Handler
}

// Bot owns the gateway session and routes its events.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config

	filter    *filters.GuildFilter
	dedup     *middleware.Dedup
	cooldown  *middleware.Cooldown
	parser    *CommandParser
	router    *Router
	messenger discord.Messenger
	earner    Earner
	members   *members.Handler

	selfID    atomic.Value // string, set on Ready
	startedAt time.Time

	// bounds concurrent event handling
	inflight chan struct{}
}

// New builds the bot. session may be nil in tests; Start requires it.
func New(session *discordgo.Session, cfg *config.Config, messenger discord.Messenger, admins AdminChecker, earner Earner, h Handlers) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	cooldown := middleware.NewCooldown(middleware.DefaultCooldowns)
	b := &Bot{
		session:   session,
		cfg:       cfg,
		filter:    filters.NewGuildFilter(cfg.GuildID),
		dedup:     middleware.NewDedup(cfg.DedupCapacity, cfg.DedupTTL),
		cooldown:  cooldown,
		parser:    NewCommandParser(cfg.CommandPrefix),
		router:    NewRouter(messenger, admins, cfg.IsAdminID, cooldown),
		messenger: messenger,
		earner:    earner,
		members:   h.Members,
		startedAt: time.Now(),
		inflight:  make(chan struct{}, maxInFlight),
	}
	b.registerRoutes(h)
	return b
}

// Start opens the gateway and blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.selfID.Store(r.User.ID)
		log.WithFields(log.Fields{
			"user":   r.User.Username,
			"guilds": len(r.Guilds),
		}).Info("connected to Discord gateway")
		activity := fmt.Sprintf("%shelp | %d servers", b.cfg.CommandPrefix, len(r.Guilds))
		if err := s.UpdateWatchStatus(0, activity); err != nil {
			log.WithError(err).Warn("update presence failed")
		}
	})
	b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		b.spawn(ctx, func(ctx context.Context) { b.handleMessage(ctx, m) })
	})
	b.session.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		b.spawn(ctx, func(ctx context.Context) { b.handleReaction(ctx, r) })
	})
	b.session.AddHandler(func(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
		b.spawn(ctx, func(ctx context.Context) { b.handleMemberAdd(ctx, m) })
	})
	b.session.AddHandler(func(_ *discordgo.Session, _ *discordgo.Disconnect) {
		log.Warn("disconnected from Discord gateway")
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"prefix":       b.cfg.CommandPrefix,
	}).Info("bot started, waiting for events...")

	<-ctx.Done()
	log.Info("bot stopping (ctx done)...")
	b.cooldown.Close()
	return b.session.Close()
}

// spawn runs fn on its own goroutine once an in-flight slot is free.
func (b *Bot) spawn(ctx context.Context, fn func(ctx context.Context)) {
	select {
	case b.inflight <- struct{}{}:
	case <-ctx.Done():
		return
	}
	go func() {
		defer func() { <-b.inflight }()
		defer middleware.RecoverFromPanic()
		fn(ctx)
	}()
}

func (b *Bot) handleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if !b.filter.AllowMessage(m, b.self()) {
		return
	}
	middleware.LogMessage(m)

	if cmd, args, raw, ok := b.parser.ParseCommand(m.Content); ok {
		inv := &discord.Invocation{
			GuildID:    m.GuildID,
			ChannelID:  m.ChannelID,
			MessageID:  m.ID,
			AuthorID:   m.Author.ID,
			AuthorName: authorName(m),
			Command:    cmd,
			Args:       args,
			RawArgs:    raw,
		}
		b.router.Dispatch(ctx, inv)
		return
	}

	if !b.cfg.FeatureActivityPoints || !b.filter.AllowActivity(m.GuildID) {
		return
	}
	if !b.dedup.FirstSeen(middleware.MessageKey(m.ID, m.Author.ID)) {
		log.WithField("message_id", m.ID).Debug("duplicate message skipped")
		return
	}
	b.earn(ctx, m.Author.ID, ledger.ActivityMessage)
}

func (b *Bot) handleReaction(ctx context.Context, r *discordgo.MessageReactionAdd) {
	if !b.cfg.FeatureActivityPoints || r.MessageReaction == nil {
		return
	}
	if r.Member != nil && r.Member.User != nil && (r.Member.User.Bot || r.Member.User.ID == b.self()) {
		return
	}
	if r.UserID == b.self() || !b.filter.AllowActivity(r.GuildID) {
		return
	}
	b.earn(ctx, r.UserID, ledger.ActivityReaction)
}

func (b *Bot) handleMemberAdd(ctx context.Context, m *discordgo.GuildMemberAdd) {
	if m.Member == nil || !b.filter.AllowGuild(m.GuildID) || b.members == nil {
		return
	}
	b.members.HandleGuildMemberAdd(ctx, m.Member)
}

func (b *Bot) earn(ctx context.Context, userID string, a ledger.Activity) {
	if _, err := b.earner.Earn(ctx, userID, a); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_id": userID,
			"action":  a.Label,
		}).Debug("activity points not credited")
	}
}

func (b *Bot) self() string {
	id, _ := b.selfID.Load().(string)
	return id
}

func authorName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return discord.UserName(m.Author)
}
