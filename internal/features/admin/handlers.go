// Package admin — handlers.go serves !addpoints, !removepoints, !resetpoints,
// !stats, !topusers and !activitylog.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
)

type Handler struct {
	service   *Service
	messenger discord.Messenger
	directory discord.Directory
	loc       *time.Location
}

func NewHandler(service *Service, messenger discord.Messenger, directory discord.Directory, loc *time.Location) *Handler {
	return &Handler{service: service, messenger: messenger, directory: directory, loc: loc}
}

// parseTarget reads "@user <amount>" from the invocation.
func parseTarget(inv *discord.Invocation) (string, int64, bool) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		return "", 0, false
	}
	amount, err := strconv.ParseInt(inv.Arg(1), 10, 64)
	if err != nil {
		return "", 0, false
	}
	return userID, amount, true
}

// HandleAddPoints serves !addpoints @user <amount>.
func (h *Handler) HandleAddPoints(ctx context.Context, inv *discord.Invocation) {
	userID, amount, ok := parseTarget(inv)
	if !ok {
		h.reply(inv.ChannelID, "❌ Usage: `!addpoints @user <amount>`")
		return
	}
	total, err := h.service.Grant(ctx, userID, amount, inv.AuthorName)
	if errors.Is(err, common.ErrInvalidAmount) {
		h.reply(inv.ChannelID, "❌ Amount must be a positive number.")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("addpoints failed")
		h.reply(inv.ChannelID, "❌ Error adding points.")
		return
	}

	embed := discord.NewEmbed("✅ Points Added",
		fmt.Sprintf("Added %s to %s", common.FormatPoints(amount), discord.Mention(userID)),
		discord.ColorGreen).
		Field("New Total", common.FormatPoints(total), true).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleRemovePoints serves !removepoints @user <amount>.
func (h *Handler) HandleRemovePoints(ctx context.Context, inv *discord.Invocation) {
	userID, amount, ok := parseTarget(inv)
	if !ok {
		h.reply(inv.ChannelID, "❌ Usage: `!removepoints @user <amount>`")
		return
	}
	total, err := h.service.Deduct(ctx, userID, amount, inv.AuthorName)
	if errors.Is(err, common.ErrInvalidAmount) {
		h.reply(inv.ChannelID, "❌ Amount must be a positive number.")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("removepoints failed")
		h.reply(inv.ChannelID, "❌ Error removing points.")
		return
	}

	embed := discord.NewEmbed("❌ Points Removed",
		fmt.Sprintf("Removed %s from %s", common.FormatPoints(amount), discord.Mention(userID)),
		discord.ColorRed).
		Field("New Total", common.FormatPoints(total), true).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleResetPoints serves !resetpoints @user.
func (h *Handler) HandleResetPoints(ctx context.Context, inv *discord.Invocation) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		h.reply(inv.ChannelID, "❌ Usage: `!resetpoints @user`")
		return
	}
	previous, err := h.service.Reset(ctx, userID, inv.AuthorName)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("resetpoints failed")
		h.reply(inv.ChannelID, "❌ Error resetting points.")
		return
	}

	embed := discord.NewEmbed("🔄 Points Reset",
		"Reset points for "+discord.Mention(userID),
		discord.ColorOrange).
		Field("Previous Balance", common.FormatPoints(previous), true).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleStats serves !stats.
func (h *Handler) HandleStats(ctx context.Context, inv *discord.Invocation) {
	st, err := h.service.Stats(ctx)
	if err != nil {
		log.WithError(err).Error("stats failed")
		h.reply(inv.ChannelID, "❌ Error collecting statistics.")
		return
	}
	h.replyEmbed(inv.ChannelID, StatsEmbed(st, "📊 Bot Statistics", "Current bot activity and metrics"))
}

// StatsEmbed renders a stats snapshot. The daily summary job reuses it.
func StatsEmbed(st *Stats, title, description string) *discordgo.MessageEmbed {
	return discord.NewEmbed(title, description, discord.ColorBlue).
		Field("Total Users", common.FormatNumber(int64(st.TotalUsers)), true).
		Field("Total Points Distributed", common.FormatNumber(st.PointsDistributed), true).
		Field("Today's Activities", common.FormatNumber(int64(st.TodayActivity)), true).
		Field("Total Suspicious Activities", common.FormatNumber(int64(st.SuspiciousTotal)), true).
		Field("Today's Suspicious Activities", common.FormatNumber(int64(st.SuspiciousToday)), true).
		Field("Pending Resources", common.FormatNumber(int64(st.PendingResources)), true).
		Field("Suspended Users", common.FormatNumber(int64(st.SuspendedUsers)), true).
		Field("Bot Uptime", common.DiscordTimestamp(st.StartedAt, "R"), true).
		Build()
}

// HandleTopUsers serves !topusers [limit].
func (h *Handler) HandleTopUsers(ctx context.Context, inv *discord.Invocation) {
	limit := DefaultTopUsers
	if arg := inv.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			h.reply(inv.ChannelID, "❌ Invalid argument provided.")
			return
		}
		limit = n
	}

	entries, err := h.service.TopUsers(ctx, limit)
	if err != nil {
		log.WithError(err).Error("topusers failed")
		h.reply(inv.ChannelID, "❌ Error fetching top users.")
		return
	}
	if len(entries) == 0 {
		h.reply(inv.ChannelID, "No users found.")
		return
	}

	e := discord.NewEmbed("🏆 Top Users by Points",
		fmt.Sprintf("Top %d users with the most points", len(entries)),
		discord.ColorGold)
	for _, a := range entries {
		e.Field(fmt.Sprintf("#%d %s", a.Position, h.directory.DisplayName(a.UserID)), common.FormatPoints(a.Points), true)
	}
	h.replyEmbed(inv.ChannelID, e.Build())
}

// HandleActivityLog serves !activitylog [hours].
func (h *Handler) HandleActivityLog(ctx context.Context, inv *discord.Invocation) {
	hours := DefaultActivityHours
	if arg := inv.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			h.reply(inv.ChannelID, "❌ Invalid argument provided.")
			return
		}
		hours = n
	}

	entries, hours, err := h.service.ActivityLog(ctx, hours)
	if err != nil {
		log.WithError(err).Error("activitylog failed")
		h.reply(inv.ChannelID, "❌ Error fetching activity log.")
		return
	}
	if len(entries) == 0 {
		h.reply(inv.ChannelID, fmt.Sprintf("No activity in the last %d hours.", hours))
		return
	}

	e := discord.NewEmbed(fmt.Sprintf("📝 Activity Log (Last %dh)", hours), "Recent point activity", discord.ColorBlue)
	for _, entry := range entries {
		e.Field(
			fmt.Sprintf("%s - %s", common.FormatDateTime(entry.Timestamp, h.loc), h.directory.DisplayName(entry.UserID)),
			fmt.Sprintf("%s (%s)", entry.Action, common.FormatSignedPoints(entry.Points)),
			false,
		)
	}
	h.replyEmbed(inv.ChannelID, e.Build())
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
