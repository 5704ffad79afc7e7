// Package members — handlers.go serves !welcome, !sendwelcome and !registeruser.
package members

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/backend"
	"p2e.club/discord-bot/internal/discord"
)

type Handler struct {
	service   *Service
	messenger discord.Messenger
	profiles  discord.Profiles
}

func NewHandler(service *Service, messenger discord.Messenger, profiles discord.Profiles) *Handler {
	return &Handler{service: service, messenger: messenger, profiles: profiles}
}

// HandleGuildMemberAdd is wired to the gateway's member-join event.
func (h *Handler) HandleGuildMemberAdd(ctx context.Context, m *discordgo.Member) {
	if err := h.service.Join(ctx, discord.ProfileFromMember(m)); err != nil {
		log.WithError(err).Error("record member join failed")
	}
}

// HandleWelcome serves !welcome: the card is posted in the channel.
func (h *Handler) HandleWelcome(_ context.Context, inv *discord.Invocation) {
	p, err := h.profiles.Profile(inv.AuthorID)
	if err != nil {
		p = discord.Profile{UserID: inv.AuthorID, DisplayName: inv.AuthorName}
	}
	h.replyEmbed(inv.ChannelID, WelcomeEmbed(p, welcomeCommandDescription))
}

// HandleSendWelcome serves !sendwelcome @user.
func (h *Handler) HandleSendWelcome(_ context.Context, inv *discord.Invocation) {
	p, ok := h.target(inv, "❌ Usage: `!sendwelcome @user`")
	if !ok {
		return
	}
	if err := h.messenger.DirectEmbed(p.UserID, WelcomeEmbed(p, welcomeDMDescription)); err != nil {
		log.WithError(err).WithField("user_id", p.UserID).Info("welcome DM not delivered")
		h.reply(inv.ChannelID, "❌ Could not send welcome DM to "+discord.Mention(p.UserID)+" - DMs disabled")
		return
	}
	log.WithFields(log.Fields{
		"admin":   inv.AuthorID,
		"user_id": p.UserID,
	}).Info("welcome DM sent by admin")
	h.reply(inv.ChannelID, "✅ Sent welcome DM to "+discord.Mention(p.UserID))
}

// HandleRegisterUser serves !registeruser @user.
func (h *Handler) HandleRegisterUser(ctx context.Context, inv *discord.Invocation) {
	p, ok := h.target(inv, "❌ Usage: `!registeruser @user`")
	if !ok {
		return
	}
	err := h.service.Register(ctx, p)
	if errors.Is(err, backend.ErrDisabled) {
		h.reply(inv.ChannelID, "❌ Backend integration is disabled.")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", p.UserID).Error("manual registration failed")
		h.reply(inv.ChannelID, "❌ Failed to register "+discord.Mention(p.UserID)+" with backend")
		return
	}

	e := discord.NewEmbed("✅ User Registration",
		"Successfully registered "+discord.Mention(p.UserID)+" with backend",
		discord.ColorGreen).
		Field("Discord ID", p.UserID, true).
		Field("Display Name", p.DisplayName, true)
	if p.Username != "" {
		e.Field("Username", p.Username, true)
	}
	h.replyEmbed(inv.ChannelID, e.Build())
}

func (h *Handler) target(inv *discord.Invocation, usage string) (discord.Profile, bool) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		h.reply(inv.ChannelID, usage)
		return discord.Profile{}, false
	}
	p, err := h.profiles.Profile(userID)
	if err != nil {
		h.reply(inv.ChannelID, "❌ Member not found.")
		return discord.Profile{}, false
	}
	return p, true
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
