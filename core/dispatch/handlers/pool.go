package handlers

import (
	"strings"

	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
)

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "pool",
			Help:       "Show the command pool's workers and counters",
			Module:     dispatch.ModuleCore,
			Permission: dispatch.PermissionNode{Node: "pool"},
			Restricted: true,
			Run:        deps.poolStats,
		}}
	})
}

func (deps *Deps) poolStats(_ *discordgo.Member, ctx *dispatch.Context) error {
	if deps.Pool == nil {
		ctx.Reply("Commands are running inline").Discard()
		return nil
	}
	s := deps.Pool.Stats()
	ctx.Reply("**Workers:** %s\n**Queued:** %d\n**Running:** %d\n**Submitted:** %d\n**Completed:** %d\n**Failed:** %d",
		strings.Join(s.Workers, ", "), s.Queued, s.Running, s.Submitted, s.Completed, s.Failed).Discard()
	return nil
}
