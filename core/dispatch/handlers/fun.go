package handlers

import (
	"strconv"

	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultSides = 6
	maxSides     = 1000000
)

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{
			{
				Trigger:    "roll",
				Aliases:    []string{"dice"},
				Help:       "Roll a die",
				Usage:      "roll [sides]",
				Module:     dispatch.ModuleFun,
				Permission: dispatch.PermissionNode{Node: "roll", Default: true},
				Run:        deps.roll,
			},
			{
				Trigger:         "say",
				Aliases:         []string{"echo"},
				Help:            "Repeat the text as the bot",
				Usage:           "say <text>",
				Module:          dispatch.ModuleFun,
				Permission:      dispatch.PermissionNode{Node: "say"},
				DeleteOnSuccess: true,
				Run:             deps.say,
			},
		}
	})
}

func (deps *Deps) roll(_ *discordgo.Member, ctx *dispatch.Context) error {
	sides := defaultSides
	if arg := ctx.Arg(0); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 2 || n > maxSides {
			ctx.ReplyWarning("The number of sides must be between 2 and %d", maxSides).Discard()
			return nil
		}
		sides = n
	}
	ctx.Reply("You rolled a **%d** (d%d)", deps.Roll(sides)+1, sides).Discard()
	return nil
}

func (deps *Deps) say(_ *discordgo.Member, ctx *dispatch.Context) error {
	if len(ctx.Args) == 0 {
		ctx.ReplyUsage(deps.mustResolve("say")).Discard()
		return nil
	}
	ctx.Reply("%s", ctx.Rest(0)).Discard()
	return nil
}
