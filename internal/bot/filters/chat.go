// Package filters decides which gateway events the bot reacts to.
package filters

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GuildFilter drops events from bots, from the bot itself and, when a guild
// is configured, from every other guild.
type GuildFilter struct {
	guildID string
}

func NewGuildFilter(guildID string) *GuildFilter {
	return &GuildFilter{guildID: guildID}
}

// AllowAuthor rejects missing authors, bots and the bot's own account.
func (f *GuildFilter) AllowAuthor(author *discordgo.User, selfID string) bool {
	if author == nil {
		log.WithField("component", "GuildFilter").Debug("deny: nil author")
		return false
	}
	if author.Bot || author.ID == selfID {
		return false
	}
	return true
}

// AllowGuild accepts direct messages (empty guildID) and the configured guild.
func (f *GuildFilter) AllowGuild(guildID string) bool {
	if guildID == "" || f.guildID == "" || guildID == f.guildID {
		return true
	}
	log.WithFields(log.Fields{
		"component": "GuildFilter",
		"guild_id":  guildID,
	}).Debug("deny: foreign guild")
	return false
}

// AllowMessage combines both checks for a message event.
func (f *GuildFilter) AllowMessage(m *discordgo.MessageCreate, selfID string) bool {
	if m == nil || m.Message == nil {
		return false
	}
	return f.AllowAuthor(m.Author, selfID) && f.AllowGuild(m.GuildID)
}

// AllowActivity reports whether a message or reaction may earn points:
// only inside a guild, never in DMs.
func (f *GuildFilter) AllowActivity(guildID string) bool {
	return guildID != "" && f.AllowGuild(guildID)
}
