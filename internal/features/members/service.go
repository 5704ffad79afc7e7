// Package members — service.go coordinates what happens when someone joins:
// the member row is recorded, then the backend registration and the welcome
// DM run in the background.
package members

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/backend"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/ledger"
)

type Store interface {
	Upsert(ctx context.Context, m *Member) error
	MarkRegistered(ctx context.Context, userID string, at time.Time) error
	Get(ctx context.Context, userID string) (*Member, error)
}

// Registrar is satisfied by backend.Client.
type Registrar interface {
	RegisterUser(ctx context.Context, reg backend.Registration) error
}

type Service struct {
	store     Store
	registrar Registrar // nil when the backend is disabled
	runner    ledger.Runner
	messenger discord.Messenger
	welcomeDM bool
	now       func() time.Time
}

func NewService(store Store, registrar Registrar, runner ledger.Runner, messenger discord.Messenger, welcomeDM bool) *Service {
	return &Service{
		store:     store,
		registrar: registrar,
		runner:    runner,
		messenger: messenger,
		welcomeDM: welcomeDM,
		now:       time.Now,
	}
}

// Join records a new guild member and schedules registration and the welcome DM.
// Bots are ignored.
func (s *Service) Join(ctx context.Context, p discord.Profile) error {
	if p.Bot {
		return nil
	}
	if err := s.store.Upsert(ctx, &Member{
		UserID:      p.UserID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt,
	}); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id":  p.UserID,
		"username": p.Username,
	}).Info("member joined")

	if s.registrar != nil {
		s.runner.Go("backend_register", func(ctx context.Context) error {
			return s.Register(ctx, p)
		})
	}
	if s.welcomeDM {
		s.runner.Go("welcome_dm", func(context.Context) error {
			return s.SendWelcome(p)
		})
	}
	return nil
}

// Register sends the member to the backend and stamps the row on success.
func (s *Service) Register(ctx context.Context, p discord.Profile) error {
	if s.registrar == nil {
		return backend.ErrDisabled
	}
	err := s.registrar.RegisterUser(ctx, backend.Registration{
		DiscordID:   p.UserID,
		DisplayName: p.DisplayName,
		Username:    p.Username,
		JoinedAt:    p.JoinedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := s.store.MarkRegistered(ctx, p.UserID, s.now()); err != nil {
		log.WithError(err).WithField("user_id", p.UserID).Warn("mark registered failed")
	}
	return nil
}

// SendWelcome DMs the welcome embed followed by a plain-text copy.
func (s *Service) SendWelcome(p discord.Profile) error {
	if err := s.messenger.DirectEmbed(p.UserID, WelcomeEmbed(p, welcomeDMDescription)); err != nil {
		return fmt.Errorf("welcome embed to %s: %w", p.UserID, err)
	}
	if err := s.messenger.DirectText(p.UserID, WelcomeText(p.DisplayName)); err != nil {
		return fmt.Errorf("welcome text to %s: %w", p.UserID, err)
	}
	log.WithField("user_id", p.UserID).Info("welcome DM sent")
	return nil
}

func (s *Service) Get(ctx context.Context, userID string) (*Member, error) {
	return s.store.Get(ctx, userID)
}
