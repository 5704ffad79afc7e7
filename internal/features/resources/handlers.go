// Package resources — handlers.go serves !resource and the admin review
// commands !approveresource, !rejectresource and !pendingresources.
package resources

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/ledger"
)

type Handler struct {
	service   *Service
	messenger discord.Messenger
	directory discord.Directory
}

func NewHandler(service *Service, messenger discord.Messenger, directory discord.Directory) *Handler {
	return &Handler{service: service, messenger: messenger, directory: directory}
}

// HandleSubmit serves !resource <description>.
func (h *Handler) HandleSubmit(ctx context.Context, inv *discord.Invocation) {
	sub, err := h.service.Submit(ctx, inv.AuthorID, inv.AuthorName, inv.RawArgs)
	if errors.Is(err, common.ErrDescriptionTooShort) {
		h.reply(inv.ChannelID, fmt.Sprintf(
			"❌ Please provide a detailed description of your resource (at least %d characters).\n\n"+
				"**Usage:** `!resource <description of the resource you want to share>`", MinDescriptionLength))
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", inv.AuthorID).Error("submit resource failed")
		h.reply(inv.ChannelID, "❌ An error occurred while submitting your resource. Please try again.")
		return
	}

	embed := discord.NewEmbed("📚 Resource Submission Received",
		discord.Mention(inv.AuthorID)+", your resource has been submitted for admin review!",
		discord.ColorBlue).
		Field("📝 Description", common.Truncate(sub.Description, 500), false).
		Field("⏳ Status", "Pending review", true).
		Field("🎯 Potential Points", common.FormatPoints(ledger.ResourceSharePoints)+" if approved", true).
		Footer("You'll get a DM once an admin reviews it.").
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandleApprove serves !approveresource <user_id> <points> [notes].
func (h *Handler) HandleApprove(ctx context.Context, inv *discord.Invocation) {
	if len(inv.Args) < 2 {
		h.reply(inv.ChannelID, "❌ Usage: `!approveresource <user_id> <points> [notes]`")
		return
	}
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		h.reply(inv.ChannelID, "❌ Invalid argument provided.")
		return
	}
	points, err := strconv.ParseInt(inv.Arg(1), 10, 64)
	if err != nil || points <= 0 {
		h.reply(inv.ChannelID, "❌ Points must be a positive number.")
		return
	}
	notes := inv.ArgsFrom(2)

	sub, _, err := h.service.Approve(ctx, userID, inv.AuthorID, inv.AuthorName, points, notes)
	if errors.Is(err, common.ErrNoPendingSubmission) {
		h.reply(inv.ChannelID, "❌ No pending resource submissions found for user ID: "+userID)
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("approve resource failed")
		h.reply(inv.ChannelID, "❌ Error approving resource.")
		return
	}

	e := discord.NewEmbed("✅ Resource Approved!", "Resource submission has been approved and points awarded!", discord.ColorGreen).
		Field("👤 User", discord.Mention(userID), true).
		Field("🎯 Points Awarded", "**"+common.FormatPoints(points)+"**", true).
		Field("👨‍⚖️ Reviewed By", inv.AuthorName, true).
		Field("📝 Description", common.Truncate(sub.Description, 500), false)
	if notes != "" {
		e.Field("📋 Review Notes", notes, false)
	}
	h.replyEmbed(inv.ChannelID, e.Build())
}

// HandleReject serves !rejectresource <user_id> [reason].
func (h *Handler) HandleReject(ctx context.Context, inv *discord.Invocation) {
	userID, ok := discord.ParseUserID(inv.Arg(0))
	if !ok {
		h.reply(inv.ChannelID, "❌ Usage: `!rejectresource <user_id> [reason]`")
		return
	}

	sub, err := h.service.Reject(ctx, userID, inv.AuthorID, inv.ArgsFrom(1))
	if errors.Is(err, common.ErrNoPendingSubmission) {
		h.reply(inv.ChannelID, "❌ No pending resource submissions found for user_id: "+userID)
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("reject resource failed")
		h.reply(inv.ChannelID, "❌ Error rejecting resource.")
		return
	}

	reason := DefaultRejectReason
	if sub.ReviewNotes != nil {
		reason = *sub.ReviewNotes
	}
	embed := discord.NewEmbed("❌ Resource Rejected", "Resource submission has been rejected.", discord.ColorRed).
		Field("👤 User", discord.Mention(userID), true).
		Field("👨‍⚖️ Reviewed By", inv.AuthorName, true).
		Field("📝 Description", common.Truncate(sub.Description, 500), false).
		Field("📋 Reason", reason, false).
		Build()
	h.replyEmbed(inv.ChannelID, embed)
}

// HandlePending serves !pendingresources.
func (h *Handler) HandlePending(ctx context.Context, inv *discord.Invocation) {
	subs, err := h.service.Pending(ctx)
	if err != nil {
		log.WithError(err).Error("list pending resources failed")
		h.reply(inv.ChannelID, "❌ Error fetching pending resources.")
		return
	}
	if len(subs) == 0 {
		h.reply(inv.ChannelID, "✅ No pending resource submissions!")
		return
	}

	e := discord.NewEmbed("📚 Pending Resource Submissions",
		fmt.Sprintf("Found **%d** pending submissions:", len(subs)),
		discord.ColorOrange)
	for _, s := range subs {
		e.Field(
			fmt.Sprintf("#%d %s (`%s`)", s.ID, h.directory.DisplayName(s.UserID), s.UserID),
			fmt.Sprintf("%s\n%s", common.Truncate(s.Description, 200), common.DiscordTimestamp(s.SubmittedAt, "R")),
			false,
		)
	}
	e.Footer("Use !approveresource <user_id> <points> [notes] or !rejectresource <user_id> [reason]")
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
