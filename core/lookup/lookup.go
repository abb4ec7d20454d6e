// Package lookup resolves members, roles and channels from the text users type: a mention, a raw
// id or a name.
package lookup

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

var (
	rawID          = regexp.MustCompile(`^[0-9]{15,21}$`)
	userMention    = regexp.MustCompile(`^<@!?([0-9]{15,21})>$`)
	roleMention    = regexp.MustCompile(`^<@&([0-9]{15,21})>$`)
	channelMention = regexp.MustCompile(`^<#([0-9]{15,21})>$`)
)

// IDFromMention extracts an id from a raw id or a mention of the given pattern.
func IDFromMention(search string, mention *regexp.Regexp) (string, bool) {
	search = strings.TrimSpace(search)
	if rawID.MatchString(search) {
		return search, true
	}
	if m := mention.FindStringSubmatch(search); m != nil {
		return m[1], true
	}
	return "", false
}

func UserID(search string) (string, bool) {
	return IDFromMention(search, userMention)
}

// EffectiveName is the name a member shows up with: guild nickname, then global display name, then username.
func EffectiveName(member *discordgo.Member) string {
	switch {
	case member.Nick != "":
		return member.Nick
	case member.User == nil:
		return ""
	case member.User.GlobalName != "":
		return member.User.GlobalName
	}
	return member.User.Username
}

// FindMember finds a member by mention, id or case-insensitive effective name. A name matching
// more than one member finds nothing.
func FindMember(guild *discordgo.Guild, search string) *discordgo.Member {
	if guild == nil || strings.TrimSpace(search) == "" {
		return nil
	}
	if id, ok := UserID(search); ok {
		for _, m := range guild.Members {
			if m.User != nil && m.User.ID == id {
				return m
			}
		}
	}
	found := funk.Filter(guild.Members, func(m *discordgo.Member) bool {
		return strings.EqualFold(EffectiveName(m), search)
	}).([]*discordgo.Member)
	return single(found)
}

// FindRole finds a role by mention, id or case-insensitive name. An id wins over a role whose
// name happens to look like one.
func FindRole(guild *discordgo.Guild, search string) *discordgo.Role {
	if guild == nil || strings.TrimSpace(search) == "" {
		return nil
	}
	if id, ok := IDFromMention(search, roleMention); ok {
		for _, r := range guild.Roles {
			if r.ID == id {
				return r
			}
		}
	}
	found := funk.Filter(guild.Roles, func(r *discordgo.Role) bool {
		return strings.EqualFold(r.Name, search)
	}).([]*discordgo.Role)
	return single(found)
}

func FindChannel(guild *discordgo.Guild, search string) *discordgo.Channel {
	if guild == nil || strings.TrimSpace(search) == "" {
		return nil
	}
	if id, ok := IDFromMention(search, channelMention); ok {
		for _, c := range guild.Channels {
			if c.ID == id {
				return c
			}
		}
	}
	search = strings.TrimPrefix(search, "#")
	found := funk.Filter(guild.Channels, func(c *discordgo.Channel) bool {
		return strings.EqualFold(c.Name, search)
	}).([]*discordgo.Channel)
	return single(found)
}

func single[T any](found []*T) *T {
	if len(found) != 1 {
		return nil
	}
	return found[0]
}
