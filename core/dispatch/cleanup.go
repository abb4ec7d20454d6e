package dispatch

import "GuildBot/core"

type CleanupAction int

const (
	CleanupNone CleanupAction = iota
	CleanupDeleted
	CleanupOwnerNotified
)

const missingManageMessages = "We can't delete guild messages as we don't have the permission manage messages! " +
	"Please either give me this permission or turn off command message deletion!"

// CleanupPolicy deletes trigger messages after a successful submission.
type CleanupPolicy struct {
	Platform Platform
}

// Apply deletes the message only when both the guild and the command opt in. Without permission to
// manage messages the guild owner is told instead. Neither outcome is awaited and failures are dropped.
func (p CleanupPolicy) Apply(cmd *Descriptor, ctx *Context) CleanupAction {
	if !ctx.Config.DeleteCommandMessages || !cmd.DeleteOnSuccess {
		return CleanupNone
	}

	if p.Platform.CanManageMessages(ctx.ChannelID()) {
		p.Platform.DeleteMessage(ctx.ChannelID(), ctx.Message.ID).OnFailure(func(err error) {
			core.LogDebugF("Deleting command message %s failed: %v", ctx.Message.ID, err)
		}).Discard()
		return CleanupDeleted
	}

	if ctx.Guild == nil || ctx.Guild.OwnerID == "" {
		return CleanupNone
	}
	// Owners with direct messages disabled simply don't hear about it.
	p.Platform.DirectMessage(ctx.Guild.OwnerID, missingManageMessages).Discard()
	return CleanupOwnerNotified
}
