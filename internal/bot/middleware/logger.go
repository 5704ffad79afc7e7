// Package middleware contains the cross-cutting pieces of event handling:
// logging, panic recovery, per-command cooldowns and message dedup.
package middleware

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
)

// LogMessage logs an inbound message at debug level with the first 50
// characters of its content.
func LogMessage(m *discordgo.MessageCreate) {
	if m == nil || m.Author == nil {
		return
	}
	log.WithFields(log.Fields{
		"user_id":    m.Author.ID,
		"username":   m.Author.Username,
		"guild_id":   m.GuildID,
		"channel_id": m.ChannelID,
		"text":       common.Truncate(m.Content, 50),
	}).Debug("incoming message")
}
