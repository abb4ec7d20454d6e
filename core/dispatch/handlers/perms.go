package handlers

import (
	"fmt"
	"strings"

	"GuildBot/core/database"
	"GuildBot/core/dispatch"
	"GuildBot/core/lookup"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "perms",
			Aliases:    []string{"permissions"},
			Help:       "List the permission grants of this guild",
			Usage:      "perms [grant|revoke <role|user> <name> <node>]",
			Module:     dispatch.ModuleManagement,
			Permission: dispatch.PermissionNode{Node: "perms"},
			Run:        deps.listGrants,
			SubCommands: []*dispatch.Descriptor{
				{
					Trigger:    "grant",
					Usage:      "perms grant <role|user> <name> <node>",
					Permission: dispatch.PermissionNode{Node: "perms.grant"},
					Run:        deps.grant,
				},
				{
					Trigger:    "revoke",
					Usage:      "perms revoke <role|user> <name> <node>",
					Permission: dispatch.PermissionNode{Node: "perms.revoke"},
					Run:        deps.revoke,
				},
			},
		}}
	})
}

func (deps *Deps) listGrants(_ *discordgo.Member, ctx *dispatch.Context) error {
	grants, err := deps.DB.FetchPermissionGrants(ctx.Config.GuildID)
	if err != nil {
		return err
	}
	if len(grants) == 0 {
		ctx.Reply("No permissions have been granted in this guild").Discard()
		return nil
	}
	lines := funk.Map(grants, func(g database.PermissionGrant) string {
		return fmt.Sprintf("%s %s: `%s`", g.TargetType, describeTarget(ctx.Guild, g), g.Node)
	}).([]string)
	ctx.Reply("**Permission grants**\n%s", strings.Join(lines, "\n")).Discard()
	return nil
}

func (deps *Deps) grant(_ *discordgo.Member, ctx *dispatch.Context) error {
	g, ok := deps.parseGrant(ctx, "grant")
	if !ok {
		return nil
	}
	added, err := deps.DB.AddPermissionGrant(g)
	if err != nil {
		return err
	}
	if added {
		ctx.Reply("Granted `%s` to %s %s", g.Node, g.TargetType, describeTarget(ctx.Guild, g)).Discard()
	} else {
		ctx.ReplyWarning("%s %s already has `%s`", g.TargetType, describeTarget(ctx.Guild, g), g.Node).Discard()
	}
	return nil
}

func (deps *Deps) revoke(_ *discordgo.Member, ctx *dispatch.Context) error {
	g, ok := deps.parseGrant(ctx, "revoke")
	if !ok {
		return nil
	}
	removed, err := deps.DB.RemovePermissionGrant(g)
	if err != nil {
		return err
	}
	if removed {
		ctx.Reply("Revoked `%s` from %s %s", g.Node, g.TargetType, describeTarget(ctx.Guild, g)).Discard()
	} else {
		ctx.ReplyWarning("%s %s does not have `%s`", g.TargetType, describeTarget(ctx.Guild, g), g.Node).Discard()
	}
	return nil
}

// parseGrant reads "<role|user> <name...> <node>". Names may contain spaces.
func (deps *Deps) parseGrant(ctx *dispatch.Context, sub string) (database.PermissionGrant, bool) {
	if len(ctx.Args) < 3 {
		ctx.ReplyUsage(deps.mustResolve("perms", sub)).Discard()
		return database.PermissionGrant{}, false
	}
	node := strings.ToLower(ctx.Args[len(ctx.Args)-1])
	search := strings.Join(ctx.Args[1:len(ctx.Args)-1], " ")
	g := database.PermissionGrant{GuildID: ctx.Config.GuildID, Node: node}

	switch strings.ToLower(ctx.Arg(0)) {
	case "role":
		role := lookup.FindRole(ctx.Guild, search)
		if role == nil {
			ctx.ReplyWarning("Could not find the role `%s`", search).Discard()
			return g, false
		}
		g.TargetType, g.TargetID = database.TargetRole, role.ID
	case "user":
		member := lookup.FindMember(ctx.Guild, search)
		if member == nil {
			ctx.ReplyWarning("Could not find the user `%s`", search).Discard()
			return g, false
		}
		g.TargetType, g.TargetID = database.TargetUser, member.User.ID
	default:
		ctx.ReplyUsage(deps.mustResolve("perms", sub)).Discard()
		return g, false
	}
	return g, true
}

func describeTarget(guild *discordgo.Guild, g database.PermissionGrant) string {
	switch g.TargetType {
	case database.TargetRole:
		if role := lookup.FindRole(guild, g.TargetID); role != nil {
			return role.Name
		}
	case database.TargetUser:
		if member := lookup.FindMember(guild, g.TargetID); member != nil {
			return lookup.EffectiveName(member)
		}
	}
	return g.TargetID
}
