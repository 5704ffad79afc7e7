package filters

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func msg(guildID string, author *discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{GuildID: guildID, Author: author}}
}

func TestGuildFilter(t *testing.T) {
	f := NewGuildFilter("g1")
	human := &discordgo.User{ID: "u1"}

	assert.True(t, f.AllowMessage(msg("g1", human), "self"))
	assert.True(t, f.AllowMessage(msg("", human), "self"), "DMs pass")
	assert.False(t, f.AllowMessage(msg("g2", human), "self"))
	assert.False(t, f.AllowMessage(msg("g1", &discordgo.User{ID: "b", Bot: true}), "self"))
	assert.False(t, f.AllowMessage(msg("g1", &discordgo.User{ID: "self"}), "self"))
	assert.False(t, f.AllowMessage(msg("g1", nil), "self"))

	assert.True(t, f.AllowActivity("g1"))
	assert.False(t, f.AllowActivity(""))
	assert.False(t, f.AllowActivity("g2"))
}

func TestGuildFilterWithoutGuild(t *testing.T) {
	f := NewGuildFilter("")
	assert.True(t, f.AllowGuild("anything"))
	assert.True(t, f.AllowActivity("anything"))
}
