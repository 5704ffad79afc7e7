// Package moderation — handlers.go serves !suspenduser, !unsuspenduser and
// !clearwarnings.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
)

type Handler struct {
	service   *Service
	messenger discord.Messenger
}

func NewHandler(service *Service, messenger discord.Messenger) *Handler {
	return &Handler{service: service, messenger: messenger}
}

// HandleSuspend serves !suspenduser @user <minutes>.
func (h *Handler) HandleSuspend(ctx context.Context, inv *discord.Invocation) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok || len(inv.Args) < 2 {
		h.reply(inv.ChannelID, "❌ Usage: `!suspenduser @user <minutes>`")
		return
	}
	minutes, err := strconv.Atoi(inv.Arg(1))
	if err != nil {
		h.reply(inv.ChannelID, "❌ Invalid argument provided.")
		return
	}

	until, err := h.service.Suspend(ctx, userID, minutes)
	if errors.Is(err, common.ErrInvalidAmount) {
		h.reply(inv.ChannelID, fmt.Sprintf("❌ Duration must be between 1 and %d minutes.", MaxSuspensionMinutes))
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("suspend failed")
		h.reply(inv.ChannelID, "❌ Error suspending user.")
		return
	}

	embed := discord.NewEmbed("⏸️ User Suspended",
		fmt.Sprintf("%s is suspended from earning points for %d minutes", discord.Mention(userID), minutes),
		discord.ColorOrange).
		Field("Suspension Ends", common.DiscordTimestamp(until, "R"), true).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleUnsuspend serves !unsuspenduser @user.
func (h *Handler) HandleUnsuspend(ctx context.Context, inv *discord.Invocation) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		h.reply(inv.ChannelID, "❌ Usage: `!unsuspenduser @user`")
		return
	}
	if _, err := h.service.Unsuspend(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("unsuspend failed")
		h.reply(inv.ChannelID, "❌ Error unsuspending user.")
		return
	}

	embed := discord.NewEmbed("✅ User Unsuspended",
		discord.Mention(userID)+" can now earn points again",
		discord.ColorGreen).Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleClearWarnings serves !clearwarnings @user.
func (h *Handler) HandleClearWarnings(ctx context.Context, inv *discord.Invocation) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		h.reply(inv.ChannelID, "❌ Usage: `!clearwarnings @user`")
		return
	}
	if _, err := h.service.ClearWarnings(ctx, userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("clear warnings failed")
		h.reply(inv.ChannelID, "❌ Error clearing warnings.")
		return
	}

	embed := discord.NewEmbed("✅ Warnings Cleared",
		"Cleared all warnings for "+discord.Mention(userID),
		discord.ColorGreen).Build()
	h.replyEmbed(inv.ChannelID, embed)
}

func (h *Handler) reply(channelID, text string) {
	if err := h.messenger.Send(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("send message failed")
	}
}

func (h *Handler) replyEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if err := h.messenger.SendEmbed(channelID, embed); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("send embed failed")
	}
}
