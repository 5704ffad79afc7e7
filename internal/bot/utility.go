package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
)

func (b *Bot) latency() time.Duration {
	if b.session == nil {
		return 0
	}
	return b.session.HeartbeatLatency()
}

func (b *Bot) guildCount() int {
	if b.session == nil || b.session.State == nil {
		return 0
	}
	b.session.State.RLock()
	defer b.session.State.RUnlock()
	return len(b.session.State.Guilds)
}

func (b *Bot) handlePing(_ context.Context, inv *discord.Invocation) {
	embed := discord.NewEmbed("🏓 Pong!", "Bot is working!", discord.ColorGreen).
		Field("Latency", fmt.Sprintf("%dms", b.latency().Milliseconds()), true).
		Field("Status", "✅ Online", true).
		Build()
	b.replyEmbed(inv.ChannelID, embed)
}

func (b *Bot) handleStatus(_ context.Context, inv *discord.Invocation) {
	name := "unknown"
	if b.session != nil && b.session.State != nil && b.session.State.User != nil {
		name = b.session.State.User.Username
	}
	embed := discord.NewEmbed("🤖 Bot Status", "Current bot information", discord.ColorBlue).
		Field("Bot Name", name, true).
		Field("Latency", fmt.Sprintf("%dms", b.latency().Milliseconds()), true).
		Field("Servers", fmt.Sprintf("%d", b.guildCount()), true).
		Field("Commands", fmt.Sprintf("%d", len(b.router.Commands())), true).
		Field("Uptime", common.DiscordTimestamp(b.startedAt, "R"), true).
		Build()
	b.replyEmbed(inv.ChannelID, embed)
}

// handleHelp lists commands by category. Admin commands are only shown to
// administrators.
func (b *Bot) handleHelp(_ context.Context, inv *discord.Invocation) {
	showAdmin := b.router.isAdmin(inv)
	sections := map[Category][]string{}
	for _, c := range b.router.Commands() {
		if c.Admin && !showAdmin {
			continue
		}
		usage := b.cfg.CommandPrefix + c.Name
		if c.Usage != "" {
			usage += " " + c.Usage
		}
		sections[c.Category] = append(sections[c.Category], fmt.Sprintf("`%s` - %s", usage, c.Summary))
	}

	e := discord.NewEmbed("🤖 Bot Commands", "Available commands for the P2E Discord Bot", discord.ColorBlue)
	for _, cat := range []Category{CategoryPoints, CategoryShop, CategoryAdmin, CategoryUtility} {
		if lines := sections[cat]; len(lines) > 0 {
			e.Field(categoryTitles[cat], common.Truncate(strings.Join(lines, "\n"), 1024), false)
		}
	}
	e.Footer(fmt.Sprintf("Use %s before each command. Example: %spoints", b.cfg.CommandPrefix, b.cfg.CommandPrefix))
	b.replyEmbed(inv.ChannelID, e.Build())
}

func (b *Bot) replyEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if err := b.messenger.SendEmbed(channelID, embed); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("send embed failed")
	}
}
