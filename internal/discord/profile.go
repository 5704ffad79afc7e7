package discord

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrUnknownMember is returned when a user is not a member of the guild.
var ErrUnknownMember = errors.New("unknown guild member")

// Profile is the member information used for welcomes and registration.
type Profile struct {
	UserID      string
	Username    string
	DisplayName string
	AvatarURL   string
	Bot         bool
	JoinedAt    time.Time
}

// Profiles looks up member profiles.
type Profiles interface {
	Profile(userID string) (Profile, error)
}

// ProfileFromMember converts a gateway member. A zero join time becomes now.
func ProfileFromMember(m *discordgo.Member) Profile {
	p := Profile{DisplayName: MemberName(m), JoinedAt: m.JoinedAt}
	if m.User != nil {
		p.UserID = m.User.ID
		p.Username = m.User.Username
		p.AvatarURL = m.User.AvatarURL("")
		p.Bot = m.User.Bot
	}
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}
	return p
}

func (d *Session) Profile(userID string) (Profile, error) {
	if d.guildID != "" {
		if m, err := d.s.State.Member(d.guildID, userID); err == nil && m != nil {
			return ProfileFromMember(m), nil
		}
		m, err := d.s.GuildMember(d.guildID, userID)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: %s", ErrUnknownMember, userID)
		}
		return ProfileFromMember(m), nil
	}
	u, err := d.s.User(userID)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownMember, userID)
	}
	return Profile{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: UserName(u),
		AvatarURL:   u.AvatarURL(""),
		Bot:         u.Bot,
		JoinedAt:    time.Now(),
	}, nil
}
