package handlers

import (
	"strings"

	"GuildBot/core/database"
	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
)

const maxPrefixLength = 5

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "prefix",
			Help:       "Show the prefix this guild uses",
			Usage:      "prefix [set <prefix>|reset]",
			Module:     dispatch.ModuleCore,
			Permission: dispatch.PermissionNode{Node: "prefix", Default: true},
			Run: func(_ *discordgo.Member, ctx *dispatch.Context) error {
				ctx.Reply("The current prefix is `%s`", ctx.Config.Prefix).Discard()
				return nil
			},
			SubCommands: []*dispatch.Descriptor{
				{
					Trigger:    "set",
					Help:       "Change the guild's prefix",
					Usage:      "prefix set <prefix>",
					Permission: dispatch.PermissionNode{Node: "prefix.set"},
					Run:        deps.setPrefix,
				},
				{
					Trigger:    "reset",
					Help:       "Restore the default prefix",
					Permission: dispatch.PermissionNode{Node: "prefix.reset"},
					Run:        deps.resetPrefix,
				},
			},
		}}
	})
}

func (deps *Deps) setPrefix(_ *discordgo.Member, ctx *dispatch.Context) error {
	prefix := ctx.Arg(0)
	if prefix == "" || len(ctx.Args) > 1 {
		ctx.ReplyUsage(deps.mustResolve("prefix", "set")).Discard()
		return nil
	}
	if len(prefix) > maxPrefixLength {
		ctx.ReplyWarning("A prefix can be at most %d characters long", maxPrefixLength).Discard()
		return nil
	}
	return deps.storePrefix(ctx, prefix)
}

func (deps *Deps) resetPrefix(_ *discordgo.Member, ctx *dispatch.Context) error {
	return deps.storePrefix(ctx, deps.DefaultPrefix)
}

func (deps *Deps) storePrefix(ctx *dispatch.Context, prefix string) error {
	err := deps.Guilds.Update(ctx.Config.GuildID, func(s *database.GuildSettings) {
		s.Prefix = prefix
	})
	if err != nil {
		return err
	}
	ctx.Reply("The prefix is now `%s`", prefix).Discard()
	return nil
}

// mustResolve finds a registered command or sub-command by its path.
func (deps *Deps) mustResolve(path ...string) *dispatch.Descriptor {
	cmd, ok := deps.Registry.Resolve(path[0])
	if !ok {
		panic("command not registered: " + strings.Join(path, " "))
	}
	for _, name := range path[1:] {
		var next *dispatch.Descriptor
		for _, sub := range cmd.SubCommands {
			if strings.EqualFold(sub.Trigger, name) {
				next = sub
			}
		}
		if next == nil {
			panic("command not registered: " + strings.Join(path, " "))
		}
		cmd = next
	}
	return cmd
}
