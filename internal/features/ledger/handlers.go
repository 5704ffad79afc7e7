// Package ledger — handlers.go serves the balance commands:
// !points, !pointshistory, !pointvalues, !resume, !event, !linkedin,
// !leaderboard and !rank.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
)

// Handler turns ledger commands into Discord replies.
type Handler struct {
	service   *Service
	messenger discord.Messenger
	directory discord.Directory
	loc       *time.Location
	pageSize  int
}

func NewHandler(service *Service, messenger discord.Messenger, directory discord.Directory, loc *time.Location, pageSize int) *Handler {
	return &Handler{
		service:   service,
		messenger: messenger,
		directory: directory,
		loc:       loc,
		pageSize:  pageSize,
	}
}

// HandlePoints shows the caller's balance.
func (h *Handler) HandlePoints(ctx context.Context, inv *discord.Invocation) {
	points, err := h.service.Balance(ctx, inv.AuthorID)
	if err != nil {
		log.WithError(err).WithField("user_id", inv.AuthorID).Error("get balance failed")
		h.reply(inv.ChannelID, "❌ An error occurred while fetching your points. Please try again later.")
		return
	}

	embed := discord.NewEmbed("💰 Points Status", discord.Mention(inv.AuthorID)+"'s point information", discord.ColorGreen).
		Field("Current Points", common.FormatPoints(points), true).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleHistory shows the last entries of the caller's points log.
func (h *Handler) HandleHistory(ctx context.Context, inv *discord.Invocation) {
	entries, err := h.service.History(ctx, inv.AuthorID)
	if err != nil {
		log.WithError(err).WithField("user_id", inv.AuthorID).Error("get history failed")
		h.reply(inv.ChannelID, "❌ An error occurred while fetching your point history.")
		return
	}
	if len(entries) == 0 {
		h.reply(inv.ChannelID, discord.Mention(inv.AuthorID)+", you have no point activity yet.")
		return
	}

	e := discord.NewEmbed("📊 Point History",
		fmt.Sprintf("Last %d point actions for %s", len(entries), discord.Mention(inv.AuthorID)),
		discord.ColorBlue)
	for _, entry := range entries {
		e.Field(
			fmt.Sprintf("%s %s", common.FormatSignedPoints(entry.Points), entry.Action),
			common.FormatDateTime(entry.Timestamp, h.loc),
			false,
		)
	}
	h.replyEmbed(inv.ChannelID, e.Build())
}

// HandlePointValues lists every way to earn points.
func (h *Handler) HandlePointValues(_ context.Context, inv *discord.Invocation) {
	e := discord.NewEmbed("🎯 Point Values", "Here are the points you can earn for different actions:", discord.ColorGold)
	for _, a := range Activities {
		e.Field(a.Label, common.FormatSignedPoints(a.Points), true)
	}
	e.Field("Resource share (approved)", common.FormatSignedPoints(ResourceSharePoints), true)
	e.Footer("Points are added automatically for messages and reactions.")
	h.replyEmbed(inv.ChannelID, e.Build())
}

func (h *Handler) HandleResume(ctx context.Context, inv *discord.Invocation) {
	h.claim(ctx, inv, ActivityResume, "📄 Resume Upload", "for uploading your resume")
}

func (h *Handler) HandleEvent(ctx context.Context, inv *discord.Invocation) {
	h.claim(ctx, inv, ActivityEvent, "🎉 Event Attendance", "for attending the event")
}

func (h *Handler) HandleLinkedIn(ctx context.Context, inv *discord.Invocation) {
	h.claim(ctx, inv, ActivityLinkedIn, "💼 LinkedIn Update", "for posting a LinkedIn update")
}

func (h *Handler) claim(ctx context.Context, inv *discord.Invocation, a Activity, title, reason string) {
	total, err := h.service.Earn(ctx, inv.AuthorID, a)
	if err != nil {
		if errors.Is(err, common.ErrPointsSuspended) {
			h.reply(inv.ChannelID, "⏸️ "+discord.Mention(inv.AuthorID)+", your points earning is currently suspended.")
			return
		}
		log.WithError(err).WithFields(log.Fields{
			"user_id":  inv.AuthorID,
			"activity": a.Key,
		}).Error("claim failed")
		h.reply(inv.ChannelID, fmt.Sprintf("❌ An error occurred while processing your %s.", strings.ToLower(a.Label)))
		return
	}

	embed := discord.NewEmbed(title,
		fmt.Sprintf("%s, you've earned **%s** %s!", discord.Mention(inv.AuthorID), common.FormatPoints(a.Points), reason),
		discord.ColorGreen).
		Field("Total Points", common.FormatPoints(total), true).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleLeaderboard shows one page of the leaderboard. The page argument is
// optional and clamped into range.
func (h *Handler) HandleLeaderboard(ctx context.Context, inv *discord.Invocation) {
	page := 1
	if arg := inv.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil {
			h.reply(inv.ChannelID, "❌ Invalid argument provided.")
			return
		}
		page = n
	}

	lp, err := h.service.Leaderboard(ctx, page, h.pageSize)
	if err != nil {
		log.WithError(err).Error("get leaderboard failed")
		h.reply(inv.ChannelID, "❌ An error occurred while fetching the leaderboard.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**🏆 Leaderboard (Page %d/%d)**\n", lp.Page, lp.TotalPages)
	if len(lp.Entries) == 0 {
		sb.WriteString("No one has earned points yet.\n")
	}
	for _, e := range lp.Entries {
		fmt.Fprintf(&sb, "%d. %s: %s\n", e.Position, h.directory.DisplayName(e.UserID), common.FormatPoints(e.Points))
	}
	if lp.TotalPages > 1 {
		sb.WriteString("\nType `!leaderboard <page>` to view other pages.")
	}
	h.reply(inv.ChannelID, sb.String())
}

// HandleRank shows a user's leaderboard position. Defaults to the caller.
func (h *Handler) HandleRank(ctx context.Context, inv *discord.Invocation) {
	target := inv.AuthorID
	if arg := inv.Arg(0); arg != "" {
		id, ok := discord.ParseUserID(arg)
		if !ok {
			h.reply(inv.ChannelID, "❌ Invalid argument provided.")
			return
		}
		target = id
	}
	name := h.directory.DisplayName(target)

	position, points, err := h.service.Rank(ctx, target)
	if errors.Is(err, common.ErrUserNotFound) {
		h.reply(inv.ChannelID, name+" has no points and is not on the leaderboard.")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", target).Error("get rank failed")
		h.reply(inv.ChannelID, "❌ An error occurred while fetching the rank.")
		return
	}
	h.reply(inv.ChannelID, fmt.Sprintf("🏅 %s is ranked #%d with %s.", name, position, common.FormatPoints(points)))
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
