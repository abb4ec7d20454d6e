package handlers

import (
	"fmt"
	"strings"

	"GuildBot/core/dispatch"
	"GuildBot/core/lookup"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

func init() {
	register(func(*Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "id",
			Help:       "Return Discord ID for the user, or for every user or #channel named, mentioned or given by id",
			Usage:      "id [user|#channel...]",
			Module:     dispatch.ModuleInformational,
			Permission: dispatch.PermissionNode{Node: "id", Default: true},
			Run:        ident,
		}}
	})
}

func ident(member *discordgo.Member, ctx *dispatch.Context) error {
	var identities []string
	addUser := func(user *discordgo.User) {
		identities = append(identities, fmt.Sprintf("%v has id %s", user.Username, user.ID))
	}
	if len(ctx.Args) == 0 {
		addUser(member.User)
	} else {
		var unknown []string
		for _, search := range ctx.Args {
			if strings.HasPrefix(search, "#") || strings.HasPrefix(search, "<#") {
				if ch := lookup.FindChannel(ctx.Guild, search); ch != nil {
					identities = append(identities, fmt.Sprintf("#%s has id %s", ch.Name, ch.ID))
				} else {
					unknown = append(unknown, search)
				}
			} else if found := lookup.FindMember(ctx.Guild, search); found != nil {
				addUser(found.User)
			} else if user := mentioned(ctx.Message, search); user != nil {
				addUser(user)
			} else {
				unknown = append(unknown, search)
			}
		}
		if len(unknown) > 0 {
			identities = append(identities, "Could not find: "+strings.Join(unknown, ", "))
		}
	}
	identities = funk.UniqString(identities)
	if len(identities) > 0 {
		ctx.Reply("Identities:\n\t%s", strings.Join(identities, "\n\t")).Discard()
	} else {
		ctx.ReplyWarning("No one was identified").Discard()
	}
	return nil
}

// mentioned covers users the message mentions who are missing from the guild's member cache.
func mentioned(msg *discordgo.Message, search string) *discordgo.User {
	id, ok := lookup.UserID(search)
	if !ok {
		return nil
	}
	if user, found := funk.Find(msg.Mentions, func(u *discordgo.User) bool { return u.ID == id }).(*discordgo.User); found {
		return user
	}
	return nil
}
