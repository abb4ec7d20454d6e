package handlers

import (
	"fmt"
	"strings"

	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "help",
			Aliases:    []string{"commands"},
			Help:       "List the commands you can run, or describe one",
			Usage:      "help [command]",
			Module:     dispatch.ModuleCore,
			Permission: dispatch.PermissionNode{Node: "help", Default: true},
			Run:        deps.help,
		}}
	})
}

// visible reports whether the member may see cmd listed. Restricted commands stay hidden from
// anyone who can't run them.
func (deps *Deps) visible(cmd *dispatch.Descriptor, member *discordgo.Member, cfg dispatch.GuildConfiguration) bool {
	if cmd.Module.IsPublic() && !cfg.ModuleEnabled(cmd.Module) {
		return false
	}
	if cmd.Restricted || !cmd.Permission.Default {
		return deps.Authorizer.IsAuthorized(cmd, cfg, member)
	}
	return true
}

func (deps *Deps) help(member *discordgo.Member, ctx *dispatch.Context) error {
	if name := ctx.Arg(0); name != "" {
		cmd, ok := deps.Registry.Resolve(name)
		if !ok || (cmd.Restricted && !deps.Authorizer.IsAuthorized(cmd, ctx.Config, member)) {
			ctx.ReplyWarning("There is no command called `%s`", name).Discard()
			return nil
		}
		ctx.Reply("%s", describe(cmd, ctx.Config.Prefix)).Discard()
		return nil
	}

	var sections []string
	for _, m := range dispatch.Modules() {
		cmds := funk.Filter(deps.Registry.CommandsInModule(m), func(cmd *dispatch.Descriptor) bool {
			return deps.visible(cmd, member, ctx.Config)
		}).([]*dispatch.Descriptor)
		if len(cmds) == 0 {
			continue
		}
		lines := funk.Map(cmds, func(cmd *dispatch.Descriptor) string {
			return fmt.Sprintf("\t**%s%s**: %s", ctx.Config.Prefix, cmd.Trigger, cmd.Help)
		}).([]string)
		sections = append(sections, fmt.Sprintf("**%s**\n%s", title(m.String()), strings.Join(lines, "\n")))
	}
	ctx.Reply("%s", strings.Join(sections, "\n")).Discard()
	return nil
}

func describe(cmd *dispatch.Descriptor, prefix string) string {
	usage := cmd.Usage
	if usage == "" {
		usage = cmd.Trigger
	}
	out := []string{fmt.Sprintf("**%s%s**: %s", prefix, cmd.Trigger, cmd.Help), fmt.Sprintf("Usage: `%s%s`", prefix, usage)}
	if len(cmd.Aliases) > 0 {
		out = append(out, "Aliases: "+strings.Join(cmd.Aliases, ", "))
	}
	for _, sub := range cmd.SubCommands {
		line := fmt.Sprintf("\t**%s%s**", prefix, sub.Path())
		if sub.Help != "" {
			line += ": " + sub.Help
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
