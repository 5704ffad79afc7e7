package resources

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
)

func newSubmissionEmbed(sub *Submission, authorName string) *discordgo.MessageEmbed {
	return discord.NewEmbed("📚 New Resource Submission",
		fmt.Sprintf("**%s** has submitted a resource for review:", authorName),
		discord.ColorOrange).
		Field("👤 User", discord.Mention(sub.UserID)+" (`"+sub.UserID+"`)", true).
		Field("🆔 Submission", fmt.Sprintf("#%d", sub.ID), true).
		Field("📝 Description", common.Truncate(sub.Description, 1000), false).
		Field("⚡ Actions",
			fmt.Sprintf("`!approveresource %s <points> [notes]`\n`!rejectresource %s [reason]`", sub.UserID, sub.UserID),
			false).
		Build()
}

func approvedEmbed(points int64, notes string) *discordgo.MessageEmbed {
	e := discord.NewEmbed("🎉 Your Resource Was Approved!",
		"Congratulations! Your resource submission has been approved!",
		discord.ColorGreen).
		Field("🎯 Points Awarded", "**"+common.FormatPoints(points)+"**", true)
	if notes != "" {
		e.Field("📋 Admin Notes", notes, false)
	}
	return e.Footer("Thank you for sharing with the community!").Build()
}

func rejectedEmbed(reason string) *discordgo.MessageEmbed {
	return discord.NewEmbed("❌ Resource Submission Rejected",
		"Your resource submission has been reviewed and rejected.",
		discord.ColorRed).
		Field("📋 Reason", reason, false).
		Footer("You're welcome to submit another resource with more detail.").
		Build()
}
