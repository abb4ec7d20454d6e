package handlers

import (
	"fmt"
	"strings"

	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
)

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		toggle := func(enabled bool) dispatch.Handler {
			return func(_ *discordgo.Member, ctx *dispatch.Context) error {
				return deps.toggleModule(ctx, enabled)
			}
		}
		return []*dispatch.Descriptor{{
			Trigger:    "module",
			Aliases:    []string{"modules"},
			Help:       "List modules and whether they are enabled",
			Usage:      "module [enable|disable <module>]",
			Module:     dispatch.ModuleManagement,
			Permission: dispatch.PermissionNode{Node: "module"},
			Run:        listModules,
			SubCommands: []*dispatch.Descriptor{
				{
					Trigger:    "enable",
					Usage:      "module enable <module>",
					Permission: dispatch.PermissionNode{Node: "module.enable"},
					Run:        toggle(true),
				},
				{
					Trigger:    "disable",
					Usage:      "module disable <module>",
					Permission: dispatch.PermissionNode{Node: "module.disable"},
					Run:        toggle(false),
				},
			},
		}}
	})
}

func listModules(_ *discordgo.Member, ctx *dispatch.Context) error {
	var lines []string
	for _, m := range dispatch.Modules() {
		state := "always on"
		if m.IsPublic() {
			state = onOff(ctx.Config.ModuleEnabled(m))
		}
		lines = append(lines, fmt.Sprintf("**%s**: %s", m, state))
	}
	ctx.Reply("**Modules**\n%s", strings.Join(lines, "\n")).Discard()
	return nil
}

func (deps *Deps) toggleModule(ctx *dispatch.Context, enabled bool) error {
	if len(ctx.Args) != 1 {
		ctx.ReplyUsage(deps.mustResolve("module", ctx.Trigger[strings.LastIndex(ctx.Trigger, " ")+1:])).Discard()
		return nil
	}
	m, ok := dispatch.ParseModule(ctx.Arg(0))
	if !ok {
		ctx.ReplyWarning("There is no module called `%s`", ctx.Arg(0)).Discard()
		return nil
	}
	if !m.IsPublic() {
		ctx.ReplyWarning("The module `%s` can't be switched off", m).Discard()
		return nil
	}
	if err := deps.Guilds.SetModuleEnabled(ctx.Config.GuildID, m, enabled); err != nil {
		return err
	}
	if enabled {
		ctx.Reply("The module `%s` has been enabled", m).Discard()
	} else {
		ctx.Reply("The module `%s` has been disabled", m).Discard()
	}
	return nil
}
