// Package members — welcome.go renders the welcome embed and its plain-text copy.
package members

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/ledger"
	"p2e.club/discord-bot/internal/features/milestones"
)

const (
	welcomeDMDescription      = "You've joined an amazing community of students and professionals!"
	welcomeCommandDescription = "Here's your personalized welcome message!"
)

// WelcomeEmbed builds the welcome card for p.
func WelcomeEmbed(p discord.Profile, description string) *discordgo.MessageEmbed {
	e := discord.NewEmbed(fmt.Sprintf("🎉 Welcome to Propel2Excel, %s!", p.DisplayName), description, discord.ColorGreen).
		Field("🏆 What is P2E?",
			"Propel2Excel is a student-powered professional growth platform where you can network, learn, and grow together!",
			false).
		Field("💰 Points System", "Earn points for activities like:\n"+earningLines(), false).
		Field("🎯 Unlockable Incentives", incentiveLines()+"\n\n*You'll receive a DM when you unlock each incentive!*", false).
		Field("🚀 Getting Started",
			"• Use `!help` to see all commands\n• Use `!points` to check your points\n"+
				"• Use `!milestones` to see available incentives\n• Use `!leaderboard` to see top performers",
			false).
		Footer("Welcome aboard! We're excited to see you grow with us! 🚀").
		Build()
	if p.AvatarURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: p.AvatarURL}
	}
	return e
}

// WelcomeText is the plain-text welcome sent after the embed.
func WelcomeText(displayName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s! 👋\n\n", displayName)
	b.WriteString("Welcome to the Propel2Excel Discord community!\n\n")
	b.WriteString("**You've just joined a community where every interaction helps you grow!**\n\n")
	b.WriteString("Start earning points right away by:\n")
	fmt.Fprintf(&b, "• Sending messages (+%d point each)\n", ledger.ActivityMessage.Points)
	fmt.Fprintf(&b, "• Reacting to posts (+%d points each)\n", ledger.ActivityReaction.Points)
	b.WriteString("• Using commands like `!resume`, `!event`, `!resource`, `!linkedin`\n\n")
	b.WriteString("**Unlock real incentives:**\n")
	for _, m := range milestones.Milestones {
		fmt.Fprintf(&b, "• %d points = %s\n", m.Points, m.Name)
	}
	b.WriteString("\nTry `!help` to see all available commands!\nWelcome aboard! 🚀")
	return b.String()
}

func earningLines() string {
	lines := []string{
		fmt.Sprintf("• Sending messages (+%d pt)", ledger.ActivityMessage.Points),
		fmt.Sprintf("• Reacting to posts (+%d pts)", ledger.ActivityReaction.Points),
		fmt.Sprintf("• Uploading resume (+%d pts)", ledger.ActivityResume.Points),
		fmt.Sprintf("• Attending events (+%d pts)", ledger.ActivityEvent.Points),
		fmt.Sprintf("• Sharing resources (+%d pts)", ledger.ResourceSharePoints),
		fmt.Sprintf("• LinkedIn updates (+%d pts)", ledger.ActivityLinkedIn.Points),
	}
	return strings.Join(lines, "\n")
}

func incentiveLines() string {
	lines := make([]string, 0, len(milestones.Milestones))
	for _, m := range milestones.Milestones {
		lines = append(lines, fmt.Sprintf("**%d points** → %s", m.Points, m.Name))
	}
	return strings.Join(lines, "\n")
}
