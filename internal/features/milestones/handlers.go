// Package milestones — handlers.go serves !milestones and the admin
// !checkmilestones command.
package milestones

import (
	"context"
	"fmt"
	"strings"

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

// HandleMilestones shows the caller's progress towards each incentive.
func (h *Handler) HandleMilestones(ctx context.Context, inv *discord.Invocation) {
	p, err := h.service.Progress(ctx, inv.AuthorID)
	if err != nil {
		log.WithError(err).WithField("user_id", inv.AuthorID).Error("get milestone progress failed")
		h.reply(inv.ChannelID, "❌ An error occurred while fetching milestone information.")
		return
	}

	e := discord.NewEmbed("🏆 Available Incentives & Milestones",
		discord.Mention(inv.AuthorID)+"'s progress towards unlocking incentives:",
		discord.ColorGold)
	for _, m := range Milestones {
		var status string
		switch {
		case hasAchieved(p, m):
			status = "✅ Unlocked"
		case p.Points >= m.Points:
			status = "✅ Reached (unlock pending)"
		default:
			status = fmt.Sprintf("🔒 %s to go", common.FormatPoints(m.Points-p.Points))
		}
		e.Field(fmt.Sprintf("%s (%s)", m.Name, common.FormatPoints(m.Points)), status, false)
	}
	e.Footer(fmt.Sprintf("Current points: %s", common.FormatNumber(p.Points)))

	if err := h.messenger.SendEmbed(inv.ChannelID, e.Build()); err != nil {
		log.WithError(err).Error("send embed failed")
	}
}

func hasAchieved(p *Progress, m Milestone) bool {
	_, ok := p.Achieved[m.Name]
	return ok
}

// HandleCheckMilestones re-runs detection for a user (default: the caller).
func (h *Handler) HandleCheckMilestones(ctx context.Context, inv *discord.Invocation) {
	target := inv.AuthorID
	if arg := inv.Arg(0); arg != "" {
		id, ok := discord.ParseUserID(arg)
		if !ok {
			h.reply(inv.ChannelID, "❌ Invalid argument provided.")
			return
		}
		target = id
	}

	unlocked, total, err := h.service.Recheck(ctx, target)
	if err != nil {
		log.WithError(err).WithField("user_id", target).Error("milestone recheck failed")
		h.reply(inv.ChannelID, "❌ An error occurred while checking milestones.")
		return
	}

	result := "No new milestones unlocked."
	if len(unlocked) > 0 {
		names := make([]string, 0, len(unlocked))
		for _, m := range unlocked {
			names = append(names, m.Name)
		}
		result = "Unlocked: " + strings.Join(names, ", ")
	}

	embed := discord.NewEmbed("🔍 Milestone Check Complete",
		"Checked milestones for "+discord.Mention(target),
		discord.ColorBlue).
		Field("Current Points", common.FormatPoints(total), true).
		Field("Result", result, false).
		Build()
	if err := h.messenger.SendEmbed(inv.ChannelID, embed); err != nil {
		log.WithError(err).Error("send embed failed")
	}
}

func (h *Handler) reply(channelID, text string) {
	if err := h.messenger.Send(channelID, text); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("send message failed")
	}
}
