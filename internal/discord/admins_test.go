package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestAdministratorIDs(t *testing.T) {
	guild := &discordgo.Guild{
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "r-admin", Permissions: discordgo.PermissionAdministrator | discordgo.PermissionSendMessages},
			{ID: "r-mod", Permissions: discordgo.PermissionManageMessages},
		},
	}
	member := func(id string, bot bool, roles ...string) *discordgo.Member {
		return &discordgo.Member{User: &discordgo.User{ID: id, Bot: bot}, Roles: roles}
	}
	members := []*discordgo.Member{
		member("owner", false),
		member("alice", false, "r-admin"),
		member("bob", false, "r-mod"),
		member("helper-bot", true, "r-admin"),
		{Roles: []string{"r-admin"}},
		member("carol", false, "r-mod", "r-admin"),
	}

	assert.Equal(t, []string{"owner", "alice", "carol"}, AdministratorIDs(guild, members))
}

func TestSessionWithoutGuildHasNoAdministrators(t *testing.T) {
	ids, err := NewSession(nil, "").Administrators()
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
