package discord

import "strings"

// Invocation is one parsed command message.
type Invocation struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	IsAdmin    bool

	Command string
	Args    []string
	// RawArgs is everything after the command word, whitespace preserved.
	RawArgs string
}

// Arg returns the i-th argument or "".
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// ArgsFrom joins the arguments starting at i.
func (inv *Invocation) ArgsFrom(i int) string {
	if i >= len(inv.Args) {
		return ""
	}
	return strings.Join(inv.Args[i:], " ")
}
