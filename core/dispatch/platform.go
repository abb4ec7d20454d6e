package dispatch

import (
	"errors"

	"GuildBot/core/async"

	"github.com/bwmarrin/discordgo"
)

// ErrGuildNotFound is returned by providers that cannot produce a configuration for a guild.
var ErrGuildNotFound = errors.New("guild configuration not found")

type GuildConfigurationProvider interface {
	Get(guildID string) (GuildConfiguration, error)
}

type PermissionAuthorizer interface {
	IsAuthorized(cmd *Descriptor, cfg GuildConfiguration, member *discordgo.Member) bool
}

// Messaging sends replies without waiting for them.
type Messaging interface {
	ReplyPlain(channelID, text string, embed bool) *async.Future
	ReplyWarning(channelID, text string, embed bool) *async.Future
	ReplyError(channelID, text string, embed bool) *async.Future
}

// Platform is everything the router needs from the chat connection.
type Platform interface {
	Messaging
	// SelfID is the bot's own user id, used for mention prefixes.
	SelfID() string
	// CanManageMessages reports whether the bot may delete other members' messages in the channel.
	CanManageMessages(channelID string) bool
	DeleteMessage(channelID, messageID string) *async.Future
	// DirectMessage opens a private channel with the user and sends text to it.
	DirectMessage(userID, text string) *async.Future
}
