package handlers

import (
	"errors"
	"strings"

	"GuildBot/core/database"
	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "tag",
			Aliases:    []string{"t"},
			Help:       "Recall a text snippet saved in this guild",
			Usage:      "tag <name>",
			Module:     dispatch.ModuleInformational,
			Permission: dispatch.PermissionNode{Node: "tag", Default: true},
			Run:        deps.showTag,
			SubCommands: []*dispatch.Descriptor{
				{
					Trigger:    "add",
					Help:       "Save or replace a tag",
					Usage:      "tag add <name> <text>",
					Permission: dispatch.PermissionNode{Node: "tag.add"},
					Run:        deps.addTag,
				},
				{
					Trigger:    "remove",
					Help:       "Delete a tag",
					Usage:      "tag remove <name>",
					Permission: dispatch.PermissionNode{Node: "tag.remove"},
					Run:        deps.removeTag,
				},
				{
					Trigger:    "list",
					Help:       "List this guild's tags",
					Permission: dispatch.PermissionNode{Node: "tag.list", Default: true},
					Run:        deps.listTags,
				},
			},
		}}
	})
}

func (deps *Deps) showTag(_ *discordgo.Member, ctx *dispatch.Context) error {
	if len(ctx.Args) != 1 {
		ctx.ReplyUsage(deps.mustResolve("tag")).Discard()
		return nil
	}
	tag, err := deps.DB.FetchTag(ctx.Config.GuildID, ctx.Arg(0))
	if errors.Is(err, database.ErrNotFound) {
		ctx.ReplyWarning("There is no tag called `%s`", ctx.Arg(0)).Discard()
		return nil
	} else if err != nil {
		return err
	}
	ctx.Reply("%s", tag.Value).Discard()
	return nil
}

func (deps *Deps) addTag(member *discordgo.Member, ctx *dispatch.Context) error {
	if len(ctx.Args) < 2 {
		ctx.ReplyUsage(deps.mustResolve("tag", "add")).Discard()
		return nil
	}
	isNew, err := deps.DB.UpsertTag(database.Tag{
		GuildID:  ctx.Config.GuildID,
		Name:     ctx.Arg(0),
		Value:    ctx.Rest(1),
		AuthorID: member.User.ID,
	})
	if err != nil {
		return err
	}
	if isNew {
		ctx.Reply("Added tag `%s`", strings.ToLower(ctx.Arg(0))).Discard()
	} else {
		ctx.Reply("Replaced tag `%s`", strings.ToLower(ctx.Arg(0))).Discard()
	}
	return nil
}

func (deps *Deps) removeTag(_ *discordgo.Member, ctx *dispatch.Context) error {
	if len(ctx.Args) != 1 {
		ctx.ReplyUsage(deps.mustResolve("tag", "remove")).Discard()
		return nil
	}
	removed, err := deps.DB.DeleteTag(ctx.Config.GuildID, ctx.Arg(0))
	if err != nil {
		return err
	}
	if removed {
		ctx.Reply("Removed tag `%s`", strings.ToLower(ctx.Arg(0))).Discard()
	} else {
		ctx.ReplyWarning("There is no tag called `%s`", ctx.Arg(0)).Discard()
	}
	return nil
}

func (deps *Deps) listTags(_ *discordgo.Member, ctx *dispatch.Context) error {
	tags, err := deps.DB.FetchTags(ctx.Config.GuildID)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		ctx.Reply("**Tags:**\n\tNone found").Discard()
		return nil
	}
	names := funk.Map(tags, func(t database.Tag) string { return t.Name }).([]string)
	ctx.Reply("**Tags:**\n\t%s", strings.Join(names, ", ")).Discard()
	return nil
}
