package shop

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/features/ledger"
)

type Store interface {
	SeedDefaults(ctx context.Context, rewards []Reward) (int, error)
	Catalog(ctx context.Context) ([]Reward, error)
	Redeem(ctx context.Context, userID string, rewardID int64) (*Receipt, error)
}

// Announcer is satisfied by ledger.Service.
type Announcer interface {
	Announce(ch ledger.Change)
}

type Service struct {
	store     Store
	announcer Announcer
}

func NewService(store Store, announcer Announcer) *Service {
	return &Service{store: store, announcer: announcer}
}

// Seed fills an empty catalog with DefaultRewards.
func (s *Service) Seed(ctx context.Context) error {
	n, err := s.store.SeedDefaults(ctx, DefaultRewards)
	if err != nil {
		return fmt.Errorf("seed rewards: %w", err)
	}
	if n > 0 {
		log.WithField("rewards", n).Info("reward catalog seeded")
	}
	return nil
}

func (s *Service) Catalog(ctx context.Context) ([]Reward, error) {
	return s.store.Catalog(ctx)
}

// Redeem spends points on a reward. It returns common.ErrRewardNotFound or
// common.ErrInsufficientPoints without changing anything.
func (s *Service) Redeem(ctx context.Context, userID string, rewardID int64) (*Receipt, error) {
	receipt, err := s.store.Redeem(ctx, userID, rewardID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":   userID,
		"reward":    receipt.Reward.Name,
		"cost":      receipt.Reward.Cost,
		"remaining": receipt.Remaining,
	}).Info("reward redeemed")

	if s.announcer != nil {
		s.announcer.Announce(ledger.Change{
			UserID: userID,
			Delta:  -receipt.Reward.Cost,
			Action: RedeemAction(receipt.Reward),
			Total:  receipt.Remaining,
		})
	}
	return receipt, nil
}
