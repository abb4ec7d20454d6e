package handlers

import (
	"strings"

	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
)

func init() {
	register(func(*Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "ping",
			Aliases:    []string{"pong"},
			Help:       "Simple command to check that bot is alive",
			Module:     dispatch.ModuleCore,
			Permission: dispatch.PermissionNode{Node: "ping", Default: true},
			Run:        ping,
		}}
	})
}

func ping(_ *discordgo.Member, ctx *dispatch.Context) error {
	if strings.EqualFold(ctx.Trigger, "pong") {
		ctx.Reply("Ping!").Discard()
	} else {
		ctx.Reply("Pong!").Discard()
	}
	return nil
}
