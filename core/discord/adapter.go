// Package discord connects the command router to a discordgo session.
package discord

import (
	"GuildBot/core"
	"GuildBot/core/async"
	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
)

const (
	colourPlain   = 0x3498db
	colourWarning = 0xf1c40f
	colourDanger  = 0xe74c3c
)

// Session is the REST surface of *discordgo.Session the adapter calls.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Router receives guild messages.
type Router interface {
	OnMessage(message *discordgo.Message, guild *discordgo.Guild, member *discordgo.Member) dispatch.Outcome
}

// Adapter implements dispatch.Platform and permissions.GuildInspector on top of a session and its state cache.
type Adapter struct {
	session Session
	state   *discordgo.State
}

func NewAdapter(session Session, state *discordgo.State) *Adapter {
	return &Adapter{session: session, state: state}
}

func (a *Adapter) ReplyPlain(channelID, text string, embed bool) *async.Future {
	return a.send(channelID, text, "", colourPlain, embed)
}

func (a *Adapter) ReplyWarning(channelID, text string, embed bool) *async.Future {
	return a.send(channelID, text, ":warning: ", colourWarning, embed)
}

func (a *Adapter) ReplyError(channelID, text string, embed bool) *async.Future {
	return a.send(channelID, text, ":no_entry: ", colourDanger, embed)
}

func (a *Adapter) send(channelID, text, marker string, colour int, embed bool) *async.Future {
	return async.Go(func() error {
		var err error
		if embed {
			_, err = a.session.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{Description: text, Color: colour})
		} else {
			_, err = a.session.ChannelMessageSend(channelID, marker+text)
		}
		if err != nil {
			core.LogErrorF("Failed to send message to channel %s: %v", channelID, err)
		}
		return err
	})
}

func (a *Adapter) SelfID() string {
	if a.state == nil || a.state.User == nil {
		return ""
	}
	return a.state.User.ID
}

func (a *Adapter) CanManageMessages(channelID string) bool {
	selfID := a.SelfID()
	if selfID == "" {
		return false
	}
	perms, err := a.state.UserChannelPermissions(selfID, channelID)
	if err != nil {
		core.LogDebugF("Could not compute permissions in channel %s: %v", channelID, err)
		return false
	}
	return perms&discordgo.PermissionManageMessages != 0
}

func (a *Adapter) DeleteMessage(channelID, messageID string) *async.Future {
	return async.Go(func() error {
		return a.session.ChannelMessageDelete(channelID, messageID)
	})
}

// DirectMessage failures are only logged at debug level: members with closed DMs are common and
// nothing waits on the result.
func (a *Adapter) DirectMessage(userID, text string) *async.Future {
	return async.Go(func() error {
		ch, err := a.session.UserChannelCreate(userID)
		if err == nil {
			_, err = a.session.ChannelMessageSend(ch.ID, text)
		}
		if err != nil {
			core.LogDebugF("Private message to %s not delivered: %v", userID, err)
		}
		return err
	})
}

func (a *Adapter) IsGuildOwner(guildID, userID string) bool {
	guild, err := a.state.Guild(guildID)
	if err != nil {
		return false
	}
	return guild.OwnerID == userID
}

// IsAdministrator checks the member's roles, and the guild's @everyone role, for the administrator bit.
func (a *Adapter) IsAdministrator(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	roles := append([]string{member.GuildID}, member.Roles...)
	for _, id := range roles {
		role, err := a.state.Role(member.GuildID, id)
		if err != nil {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}

// MessageCreate returns the handler to register on the session with AddHandler.
func (a *Adapter) MessageCreate(router Router) func(*discordgo.Session, *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		a.route(router, m.Message)
	}
}

func (a *Adapter) route(router Router, msg *discordgo.Message) {
	// Private messages carry no guild and are not routed.
	if msg == nil || msg.GuildID == "" || msg.Author == nil {
		return
	}
	guild, err := a.state.Guild(msg.GuildID)
	if err != nil {
		core.LogDebugF("Message in unknown guild %s: %v", msg.GuildID, err)
		return
	}

	member := &discordgo.Member{}
	if msg.Member != nil {
		copied := *msg.Member
		member = &copied
	} else if cached, err := a.state.Member(msg.GuildID, msg.Author.ID); err == nil {
		copied := *cached
		member = &copied
	}
	member.User = msg.Author
	member.GuildID = msg.GuildID

	outcome := router.OnMessage(msg, guild, member)
	if core.IsLogDebug() && outcome != dispatch.OutcomeIgnored {
		core.LogDebugF("Message %s in guild %s: %s", msg.ID, msg.GuildID, outcome)
	}
}
