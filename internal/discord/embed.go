package discord

import "github.com/bwmarrin/discordgo"

// Embed colors.
const (
	ColorGreen  = 0x00ff00
	ColorBlue   = 0x0099ff
	ColorGold   = 0xffd700
	ColorOrange = 0xffaa00
	ColorRed    = 0xff0000
	ColorPurple = 0x9b59b6
)

// Embed is a small builder around discordgo.MessageEmbed.
type Embed struct {
	e *discordgo.MessageEmbed
}

func NewEmbed(title, description string, color int) *Embed {
	return &Embed{e: &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}}
}

func (b *Embed) Field(name, value string, inline bool) *Embed {
	b.e.Fields = append(b.e.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  value,
		Inline: inline,
	})
	return b
}

func (b *Embed) Footer(text string) *Embed {
	b.e.Footer = &discordgo.MessageEmbedFooter{Text: text}
	return b
}

// Build returns the underlying embed.
func (b *Embed) Build() *discordgo.MessageEmbed {
	return b.e
}
