package milestones

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/ledger"
)

type Store interface {
	Record(ctx context.Context, userID, name string, required int64) (bool, error)
	List(ctx context.Context, userID string) ([]Achievement, error)
}

// BalanceReader is satisfied by ledger.Service.
type BalanceReader interface {
	Balance(ctx context.Context, userID string) (int64, error)
}

type Service struct {
	store     Store
	balances  BalanceReader
	messenger discord.Messenger
}

func NewService(store Store, balances BalanceReader, messenger discord.Messenger) *Service {
	return &Service{store: store, balances: balances, messenger: messenger}
}

// Check records every milestone at or below total that the user does not yet
// have and DMs the user for each new one. A failed DM is logged and does not
// undo the record; a failed record does not stop the remaining milestones.
func (s *Service) Check(ctx context.Context, userID string, total int64) ([]Milestone, error) {
	var (
		unlocked []Milestone
		errs     []error
	)
	for _, m := range Milestones {
		if total < m.Points {
			continue
		}
		inserted, err := s.store.Record(ctx, userID, m.Name, m.Points)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Name, err))
			continue
		}
		if !inserted {
			continue
		}

		unlocked = append(unlocked, m)
		log.WithFields(log.Fields{
			"user_id":   userID,
			"milestone": m.Name,
			"total":     total,
		}).Info("milestone unlocked")

		if err := s.messenger.DirectEmbed(userID, unlockEmbed(m)); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"user_id":   userID,
				"milestone": m.Name,
			}).Warn("milestone DM failed")
		}
	}
	return unlocked, errors.Join(errs...)
}

// OnChange is registered as a ledger follow-up.
func (s *Service) OnChange(ctx context.Context, ch ledger.Change) error {
	_, err := s.Check(ctx, ch.UserID, ch.Total)
	return err
}

// Recheck reads the current balance and runs Check against it.
func (s *Service) Recheck(ctx context.Context, userID string) ([]Milestone, int64, error) {
	total, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	unlocked, err := s.Check(ctx, userID, total)
	return unlocked, total, err
}

// Progress is a user's standing against every milestone.
type Progress struct {
	Points   int64
	Achieved map[string]Achievement
}

func (s *Service) Progress(ctx context.Context, userID string) (*Progress, error) {
	total, err := s.balances.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Progress{Points: total, Achieved: make(map[string]Achievement, len(list))}
	for _, a := range list {
		p.Achieved[a.MilestoneName] = a
	}
	return p, nil
}

func unlockEmbed(m Milestone) *discordgo.MessageEmbed {
	return discord.NewEmbed("🎉 Congratulations! You've Unlocked a New Incentive!",
		fmt.Sprintf("You've reached **%s** and unlocked:", common.FormatPoints(m.Points)),
		discord.ColorGold).
		Field("🏆 "+m.Name, "An admin will reach out with the details.", false).
		Footer("Keep earning points to unlock more incentives!").
		Build()
}
