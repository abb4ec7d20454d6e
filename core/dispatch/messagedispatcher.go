package dispatch

import (
	"GuildBot/core"

	"github.com/bwmarrin/discordgo"
)

// Outcome tells what a dispatch did. None of the non-submitted outcomes are errors.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeConfigFailed
	OutcomeModuleDisabled
	OutcomeDenied
	OutcomeRejected
	OutcomeSubmitted
)

var outcomeNames = map[Outcome]string{
	OutcomeIgnored:        "ignored",
	OutcomeConfigFailed:   "config-failed",
	OutcomeModuleDisabled: "module-disabled",
	OutcomeDenied:         "denied",
	OutcomeRejected:       "rejected",
	OutcomeSubmitted:      "submitted",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

type Options struct {
	Registry   *Registry
	Guilds     GuildConfigurationProvider
	Authorizer PermissionAuthorizer
	Platform   Platform
	Executor   Executor
	// DefaultPrefix is the system prefix that "<prefix>prefix" always answers to.
	DefaultPrefix string
	// Development shows module errors regardless of guild settings.
	Development bool
}

// MessageDispatcher turns guild messages into command executions. It keeps no per-message state,
// so one instance serves every event.
type MessageDispatcher struct {
	registry    *Registry
	guilds      GuildConfigurationProvider
	authorizer  PermissionAuthorizer
	platform    Platform
	executor    Executor
	cleanup     CleanupPolicy
	prefix      string
	development bool
}

func NewDispatcher(opts Options) *MessageDispatcher {
	return &MessageDispatcher{
		registry:    opts.Registry,
		guilds:      opts.Guilds,
		authorizer:  opts.Authorizer,
		platform:    opts.Platform,
		executor:    opts.Executor,
		cleanup:     CleanupPolicy{Platform: opts.Platform},
		prefix:      opts.DefaultPrefix,
		development: opts.Development,
	}
}

// OnMessage is the gateway entry point. member must carry its User.
func (d *MessageDispatcher) OnMessage(message *discordgo.Message, guild *discordgo.Guild, member *discordgo.Member) Outcome {
	// Short-circuit bots, ourselves included, to avoid loops
	if message == nil || message.Author == nil || message.Author.Bot || message.Author.ID == d.platform.SelfID() {
		return OutcomeIgnored
	}
	if guild == nil || member == nil {
		return OutcomeIgnored
	}

	cfg, err := d.guilds.Get(guild.ID)
	if err != nil {
		core.LogErrorF("Failed to load guild settings for %s: %v", guild.ID, err)
		d.platform.ReplyError(message.ChannelID, "We have failed to load your guild settings!", false).Discard()
		return OutcomeConfigFailed
	}

	detector := Detector{DefaultPrefix: d.prefix, SelfID: d.platform.SelfID()}
	inv, ok := detector.Detect(message.Content, cfg)
	if !ok {
		return OutcomeIgnored
	}
	core.LogDebugF("Detected %q with args %v in guild %s", inv.Trigger, inv.Args, guild.ID)
	return d.Dispatch(inv, cfg, message, guild, member)
}

// Dispatch resolves an invocation against the registry and submits it. Unknown triggers are ignored.
func (d *MessageDispatcher) Dispatch(inv Invocation, cfg GuildConfiguration, message *discordgo.Message, guild *discordgo.Guild, member *discordgo.Member) Outcome {
	cmd, ok := d.registry.Resolve(inv.Trigger)
	if !ok {
		return OutcomeIgnored
	}

	// Module gating happens before authorization, so a disabled module wins over a missing permission.
	if cmd.Module.IsPublic() && !cfg.ModuleEnabled(cmd.Module) {
		if cfg.ShowModuleErrors || d.development {
			d.platform.ReplyError(message.ChannelID,
				"The module `"+cmd.Module.String()+"` for command `"+inv.Trigger+"` is disabled!", cfg.UseEmbeds).Discard()
		}
		return OutcomeModuleDisabled
	}

	ctx := &Context{
		Message:   message,
		Guild:     guild,
		Member:    member,
		Trigger:   inv.Trigger,
		Args:      inv.Args,
		Mention:   inv.Mention,
		Config:    cfg,
		messaging: d.platform,
	}

	// One level only: the parent, then at most one of its immediate children.
	if len(ctx.Args) > 0 {
		if sub := cmd.subCommand(ctx.Args[0]); sub != nil {
			cmd, ctx = sub, ctx.child()
		}
	}
	return d.run(cmd, ctx)
}

func (d *MessageDispatcher) run(cmd *Descriptor, ctx *Context) Outcome {
	if !d.authorizer.IsAuthorized(cmd, ctx.Config, ctx.Member) {
		// Restricted commands fail silently so nobody learns they exist.
		if !cmd.Restricted && ctx.Config.ShowPermissionErrors {
			ctx.ReplyDanger("You don't have the permission `%s` to run this command!", cmd.Permission.Node).Discard()
		}
		return OutcomeDenied
	}

	// The context belongs to the execution once submitted; cleanup works from its own copy.
	original := *ctx
	if err := d.executor.Submit(cmd, ctx); err != nil {
		core.LogWarnF("Command %s not submitted: %v", cmd.Path(), err)
		return OutcomeRejected
	}
	d.cleanup.Apply(cmd, &original)
	return OutcomeSubmitted
}
