package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// memberPageSize is the largest page the members endpoint returns.
const memberPageSize = 1000

// AdminLister lists the users holding the Administrator permission in the guild.
type AdminLister interface {
	Administrators() ([]string, error)
}

// Administrators returns the non-bot guild members that own the guild or hold
// a role with the Administrator permission. It needs the Server Members intent.
func (d *Session) Administrators() ([]string, error) {
	if d.guildID == "" {
		return nil, nil
	}
	guild, err := d.s.State.Guild(d.guildID)
	if err != nil {
		if guild, err = d.s.Guild(d.guildID); err != nil {
			return nil, fmt.Errorf("load guild: %w", err)
		}
	}

	var members []*discordgo.Member
	after := ""
	for {
		page, err := d.s.GuildMembers(d.guildID, after, memberPageSize)
		if err != nil {
			return nil, fmt.Errorf("list guild members: %w", err)
		}
		members = append(members, page...)
		if len(page) < memberPageSize || page[len(page)-1].User == nil {
			break
		}
		after = page[len(page)-1].User.ID
	}
	return AdministratorIDs(guild, members), nil
}

// AdministratorIDs filters members down to the guild owner and holders of an
// Administrator role. Bots are skipped.
func AdministratorIDs(guild *discordgo.Guild, members []*discordgo.Member) []string {
	adminRoles := make(map[string]bool)
	for _, r := range guild.Roles {
		if r.Permissions&discordgo.PermissionAdministrator != 0 {
			adminRoles[r.ID] = true
		}
	}

	var ids []string
	for _, m := range members {
		if m.User == nil || m.User.Bot {
			continue
		}
		if m.User.ID == guild.OwnerID || hasAnyRole(m.Roles, adminRoles) {
			ids = append(ids, m.User.ID)
		}
	}
	return ids
}

func hasAnyRole(roles []string, set map[string]bool) bool {
	for _, id := range roles {
		if set[id] {
			return true
		}
	}
	return false
}
