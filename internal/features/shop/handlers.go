// Package shop — handlers.go serves !shop and !redeem.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
)

// BalanceReader is satisfied by ledger.Service.
type BalanceReader interface {
	Balance(ctx context.Context, userID string) (int64, error)
}

type Handler struct {
	service   *Service
	balances  BalanceReader
	messenger discord.Messenger
}

func NewHandler(service *Service, balances BalanceReader, messenger discord.Messenger) *Handler {
	return &Handler{service: service, balances: balances, messenger: messenger}
}

// HandleShop lists the catalog.
func (h *Handler) HandleShop(ctx context.Context, inv *discord.Invocation) {
	rewards, err := h.service.Catalog(ctx)
	if err != nil {
		log.WithError(err).Error("list rewards failed")
		h.reply(inv.ChannelID, "❌ An error occurred while loading the shop.")
		return
	}
	if len(rewards) == 0 {
		h.reply(inv.ChannelID, "The shop is currently empty!")
		return
	}

	var sb strings.Builder
	sb.WriteString("**🛍️ Rewards Shop**\n")
	for _, r := range rewards {
		fmt.Fprintf(&sb, "`%d` **%s**: %s\n", r.ID, r.Name, common.FormatPoints(r.Cost))
	}
	sb.WriteString("\nUse `!redeem <id>` to redeem a reward.")
	h.reply(inv.ChannelID, sb.String())
}

// HandleRedeem spends the caller's points on a reward.
func (h *Handler) HandleRedeem(ctx context.Context, inv *discord.Invocation) {
	arg := inv.Arg(0)
	if arg == "" {
		h.reply(inv.ChannelID, "❌ Missing required argument: reward_id")
		return
	}
	rewardID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		h.reply(inv.ChannelID, "❌ Invalid argument provided.")
		return
	}

	receipt, err := h.service.Redeem(ctx, inv.AuthorID, rewardID)
	switch {
	case err == nil:
		h.reply(inv.ChannelID, fmt.Sprintf(
			"%s, you have successfully redeemed **%s**! Our team will contact you shortly. Remaining balance: %s.",
			discord.Mention(inv.AuthorID), receipt.Reward.Name, common.FormatPoints(receipt.Remaining)))
	case errors.Is(err, common.ErrRewardNotFound):
		h.reply(inv.ChannelID, fmt.Sprintf("Reward ID `%d` does not exist.", rewardID))
	case errors.Is(err, common.ErrInsufficientPoints):
		balance, _ := h.balances.Balance(ctx, inv.AuthorID)
		h.reply(inv.ChannelID, fmt.Sprintf(
			"Sorry %s, you don't have enough points to redeem this reward. You have %s.",
			discord.Mention(inv.AuthorID), common.FormatPoints(balance)))
	default:
		log.WithError(err).WithFields(log.Fields{
			"user_id":   inv.AuthorID,
			"reward_id": rewardID,
		}).Error("redeem failed")
		h.reply(inv.ChannelID, "❌ An error occurred while redeeming the reward.")
	}
}

func (h *Handler) reply(channelID, text string) {
	if err := h.messenger.Send(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("send message failed")
	}
}
