package handlers

import (
	"fmt"
	"sort"
	"strings"

	"GuildBot/core/database"
	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
)

// settingFields maps the names users type to the boolean guild settings they change.
var settingFields = map[string]func(s *database.GuildSettings) *bool{
	"mentionprefix":         func(s *database.GuildSettings) *bool { return &s.MentionPrefix },
	"showmoduleerrors":      func(s *database.GuildSettings) *bool { return &s.ShowModuleErrors },
	"showpermissionerrors":  func(s *database.GuildSettings) *bool { return &s.ShowPermissionErrors },
	"deletecommandmessages": func(s *database.GuildSettings) *bool { return &s.DeleteCommandMessages },
	"useembeds":             func(s *database.GuildSettings) *bool { return &s.UseEmbeds },
}

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "settings",
			Help:       "Show this guild's settings",
			Usage:      "settings [set <key> <true|false>]",
			Module:     dispatch.ModuleManagement,
			Permission: dispatch.PermissionNode{Node: "settings"},
			Run:        showSettings,
			SubCommands: []*dispatch.Descriptor{{
				Trigger:    "set",
				Help:       "Change one guild setting",
				Usage:      "settings set <key> <true|false>",
				Permission: dispatch.PermissionNode{Node: "settings.set"},
				Run:        deps.changeSetting,
			}},
		}}
	})
}

func showSettings(_ *discordgo.Member, ctx *dispatch.Context) error {
	cfg := ctx.Config
	values := map[string]bool{
		"mentionprefix":         cfg.MentionPrefix,
		"showmoduleerrors":      cfg.ShowModuleErrors,
		"showpermissionerrors":  cfg.ShowPermissionErrors,
		"deletecommandmessages": cfg.DeleteCommandMessages,
		"useembeds":             cfg.UseEmbeds,
	}
	lines := funk.Map(settingNames(), func(name string) string {
		return fmt.Sprintf("**%s**: %s", name, onOff(values[name]))
	}).([]string)
	ctx.Reply("**Settings** (prefix `%s`)\n%s", cfg.Prefix, strings.Join(lines, "\n")).Discard()
	return nil
}

func (deps *Deps) changeSetting(_ *discordgo.Member, ctx *dispatch.Context) error {
	if len(ctx.Args) != 2 {
		ctx.ReplyUsage(deps.mustResolve("settings", "set")).Discard()
		return nil
	}
	key := strings.ToLower(ctx.Arg(0))
	field, ok := settingFields[key]
	if !ok {
		ctx.ReplyWarning("Unknown setting `%s`. Known settings: %s", ctx.Arg(0), strings.Join(settingNames(), ", ")).Discard()
		return nil
	}
	value, err := parseBool(ctx.Arg(1))
	if err != nil {
		ctx.ReplyWarning("%s", err).Discard()
		return nil
	}
	if err := deps.Guilds.Update(ctx.Config.GuildID, func(s *database.GuildSettings) { *field(s) = value }); err != nil {
		return err
	}
	ctx.Reply("**%s** is now %s", key, onOff(value)).Discard()
	return nil
}

func settingNames() []string {
	names := funk.Keys(settingFields).([]string)
	sort.Strings(names)
	return names
}
