// Package discord adapts a discordgo session to the small interfaces the
// feature packages depend on: sending messages, resolving display names and
// parsing user mentions.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Messenger sends replies to channels and direct messages to users.
type Messenger interface {
	Send(channelID, text string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	DirectText(userID, text string) error
	DirectEmbed(userID string, embed *discordgo.MessageEmbed) error
}

// Directory resolves Discord user IDs to human-readable names.
type Directory interface {
	DisplayName(userID string) string
}

// Session implements Messenger and Directory on top of a gateway session.
type Session struct {
	s       *discordgo.Session
	guildID string
}

// NewSession wraps s. guildID is used for nickname lookups; it may be empty.
func NewSession(s *discordgo.Session, guildID string) *Session {
	return &Session{s: s, guildID: guildID}
}

func (d *Session) Send(channelID, text string) error {
	if _, err := d.s.ChannelMessageSend(channelID, text); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (d *Session) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := d.s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("send embed: %w", err)
	}
	return nil
}

func (d *Session) DirectText(userID, text string) error {
	ch, err := d.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	return d.Send(ch.ID, text)
}

func (d *Session) DirectEmbed(userID string, embed *discordgo.MessageEmbed) error {
	ch, err := d.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	return d.SendEmbed(ch.ID, embed)
}

// DisplayName prefers the guild nickname, then the global display name, then
// the username. Unknown users render as "User <id>".
func (d *Session) DisplayName(userID string) string {
	if d.guildID != "" {
		if m, err := d.s.State.Member(d.guildID, userID); err == nil && m != nil {
			return MemberName(m)
		}
		if m, err := d.s.GuildMember(d.guildID, userID); err == nil && m != nil {
			return MemberName(m)
		}
	}
	if u, err := d.s.User(userID); err == nil && u != nil {
		return UserName(u)
	}
	log.WithField("user_id", userID).Debug("display name lookup failed")
	return FallbackName(userID)
}

// IsAdministrator reports whether the user holds the Administrator
// permission in the given channel.
func (d *Session) IsAdministrator(userID, channelID string) bool {
	perms, err := d.s.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		perms, err = d.s.UserChannelPermissions(userID, channelID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Debug("permission lookup failed")
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

// MemberName returns the name a guild member is shown under.
func MemberName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return UserName(m.User)
	}
	return "Unknown"
}

// UserName returns the global display name or the username.
func UserName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// FallbackName is used when a user cannot be resolved.
func FallbackName(userID string) string {
	return "User " + userID
}
