// Package discordtest provides in-memory Messenger and Directory fakes.
package discordtest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"p2e.club/discord-bot/internal/discord"
)

// ErrDMBlocked mimics Discord's "cannot send messages to this user".
var ErrDMBlocked = errors.New("cannot send messages to this user")

// Sent is one recorded outbound message.
type Sent struct {
	ChannelID string // empty for DMs
	UserID    string // empty for channel messages
	Text      string
	Embed     *discordgo.MessageEmbed
}

// Messenger records every message. DMs to users in Blocked fail.
type Messenger struct {
	mu      sync.Mutex
	sent    []Sent
	Blocked map[string]bool
	// DMAttempts counts direct-message attempts per user, failed ones included.
	DMAttempts map[string]int
}

var _ discord.Messenger = (*Messenger)(nil)

func NewMessenger() *Messenger {
	return &Messenger{
		Blocked:    map[string]bool{},
		DMAttempts: map[string]int{},
	}
}

func (m *Messenger) Send(channelID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Sent{ChannelID: channelID, Text: text})
	return nil
}

func (m *Messenger) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Sent{ChannelID: channelID, Embed: embed})
	return nil
}

func (m *Messenger) DirectText(userID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DMAttempts[userID]++
	if m.Blocked[userID] {
		return ErrDMBlocked
	}
	m.sent = append(m.sent, Sent{UserID: userID, Text: text})
	return nil
}

func (m *Messenger) DirectEmbed(userID string, embed *discordgo.MessageEmbed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DMAttempts[userID]++
	if m.Blocked[userID] {
		return ErrDMBlocked
	}
	m.sent = append(m.sent, Sent{UserID: userID, Embed: embed})
	return nil
}

// All returns a copy of every recorded message.
func (m *Messenger) All() []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sent(nil), m.sent...)
}

// Last returns the most recent message, or the zero value.
func (m *Messenger) Last() Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return Sent{}
	}
	return m.sent[len(m.sent)-1]
}

// DMs returns the direct messages delivered to userID.
func (m *Messenger) DMs(userID string) []Sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Sent
	for _, s := range m.sent {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// Attempts returns how many DMs were tried for userID.
func (m *Messenger) Attempts(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DMAttempts[userID]
}

// Directory resolves names from a static map.
type Directory map[string]string

func (d Directory) DisplayName(userID string) string {
	if name, ok := d[userID]; ok {
		return name
	}
	return discord.FallbackName(userID)
}

// Profile returns a profile for known users and discord.ErrUnknownMember otherwise.
func (d Directory) Profile(userID string) (discord.Profile, error) {
	name, ok := d[userID]
	if !ok {
		return discord.Profile{}, fmt.Errorf("%w: %s", discord.ErrUnknownMember, userID)
	}
	return discord.Profile{
		UserID:      userID,
		Username:    name,
		DisplayName: name,
		JoinedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

// Admins is a fixed AdminLister. Err, when set, is returned instead.
type Admins struct {
	IDs []string
	Err error
}

func (a Admins) Administrators() ([]string, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return a.IDs, nil
}
