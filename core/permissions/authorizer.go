// Package permissions decides whether a member may run a command.
package permissions

import (
	"strings"

	"GuildBot/core"
	"GuildBot/core/database"
	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

// Wildcard grants every node.
const Wildcard = "*"

type GrantStore interface {
	FetchPermissionGrants(guildID string) ([]database.PermissionGrant, error)
}

// GuildInspector answers platform questions about a member.
type GuildInspector interface {
	IsGuildOwner(guildID, userID string) bool
	IsAdministrator(member *discordgo.Member) bool
}

// Authorizer grants, in order: bot owners everything; restricted commands nobody else; guild owners
// and administrators everything; default nodes to everyone; then stored role and user grants.
type Authorizer struct {
	owners []string
	grants GrantStore
	guilds GuildInspector
}

func NewAuthorizer(owners []string, grants GrantStore, guilds GuildInspector) *Authorizer {
	return &Authorizer{owners: owners, grants: grants, guilds: guilds}
}

func (a *Authorizer) IsBotOwner(userID string) bool {
	return funk.ContainsString(a.owners, userID)
}

func (a *Authorizer) IsAuthorized(cmd *dispatch.Descriptor, cfg dispatch.GuildConfiguration, member *discordgo.Member) bool {
	if member == nil || member.User == nil {
		return false
	}
	if a.IsBotOwner(member.User.ID) {
		return true
	}
	if cmd.Restricted {
		return false
	}
	guildID := cfg.GuildID
	if guildID == "" {
		guildID = member.GuildID
	}
	if a.guilds != nil && (a.guilds.IsGuildOwner(guildID, member.User.ID) || a.guilds.IsAdministrator(member)) {
		return true
	}
	if cmd.Permission.Default {
		return true
	}

	grants, err := a.grants.FetchPermissionGrants(guildID)
	if err != nil {
		core.LogErrorF("Failed to load permission grants for %s: %v", guildID, err)
		return false
	}
	match := funk.Find(grants, func(g database.PermissionGrant) bool {
		return appliesTo(g, member) && Matches(g.Node, cmd.Permission.Node)
	})
	return match != nil
}

func appliesTo(g database.PermissionGrant, member *discordgo.Member) bool {
	switch g.TargetType {
	case database.TargetUser:
		return g.TargetID == member.User.ID
	case database.TargetRole:
		// The @everyone role shares the guild's id and is never listed on the member.
		return g.TargetID == member.GuildID || funk.ContainsString(member.Roles, g.TargetID)
	}
	return false
}

// Matches reports whether a granted node covers the required one. "*" covers everything and
// "tag.*" covers "tag" and every "tag.<child>".
func Matches(granted, required string) bool {
	granted = strings.ToLower(granted)
	required = strings.ToLower(required)
	switch {
	case granted == Wildcard, granted == required:
		return true
	case strings.HasSuffix(granted, ".*"):
		base := strings.TrimSuffix(granted, ".*")
		return required == base || strings.HasPrefix(required, base+".")
	}
	return false
}
