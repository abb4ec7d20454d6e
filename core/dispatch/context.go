package dispatch

import (
	"fmt"
	"strings"

	"GuildBot/core/async"

	"github.com/bwmarrin/discordgo"
)

// GuildConfiguration is one guild's settings, treated as an immutable snapshot for a single dispatch.
type GuildConfiguration struct {
	GuildID               string
	Prefix                string
	MentionPrefix         bool
	EnabledModules        map[Module]bool
	ShowModuleErrors      bool
	ShowPermissionErrors  bool
	DeleteCommandMessages bool
	UseEmbeds             bool
}

// ModuleEnabled reports whether m is switched on. Modules without an entry are on.
func (c GuildConfiguration) ModuleEnabled(m Module) bool {
	enabled, ok := c.EnabledModules[m]
	return !ok || enabled
}

// Clone copies the module map so a snapshot can't be changed through another copy.
func (c GuildConfiguration) Clone() GuildConfiguration {
	modules := make(map[Module]bool, len(c.EnabledModules))
	for m, on := range c.EnabledModules {
		modules[m] = on
	}
	c.EnabledModules = modules
	return c
}

// Context is built for one dispatch attempt and owned by the single execution that consumes it.
type Context struct {
	Message *discordgo.Message
	Guild   *discordgo.Guild
	Member  *discordgo.Member
	// Trigger is the full resolved path, e.g. "tag add".
	Trigger string
	Args    []string
	Mention bool
	Config  GuildConfiguration

	messaging Messaging
}

func (c *Context) ChannelID() string {
	return c.Message.ChannelID
}

func (c *Context) User() *discordgo.User {
	if c.Member != nil && c.Member.User != nil {
		return c.Member.User
	}
	return c.Message.Author
}

// Arg returns the i-th argument or "" when there are fewer.
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Rest joins the arguments from i onwards.
func (c *Context) Rest(i int) string {
	if i >= len(c.Args) {
		return ""
	}
	return strings.Join(c.Args[i:], " ")
}

func (c *Context) Reply(format string, v ...interface{}) *async.Future {
	return c.messaging.ReplyPlain(c.ChannelID(), fmt.Sprintf(format, v...), c.Config.UseEmbeds)
}

func (c *Context) ReplyWarning(format string, v ...interface{}) *async.Future {
	return c.messaging.ReplyWarning(c.ChannelID(), fmt.Sprintf(format, v...), c.Config.UseEmbeds)
}

func (c *Context) ReplyDanger(format string, v ...interface{}) *async.Future {
	return c.messaging.ReplyError(c.ChannelID(), fmt.Sprintf(format, v...), c.Config.UseEmbeds)
}

// ReplyUsage answers with the command's usage line.
func (c *Context) ReplyUsage(d *Descriptor) *async.Future {
	usage := d.Usage
	if usage == "" {
		usage = d.Path()
	}
	return c.ReplyWarning("Usage: `%s%s`", c.Config.Prefix, usage)
}

// child derives the context for a sub-command: the first argument is consumed and appended to the trigger path.
func (c *Context) child() *Context {
	sub := *c
	sub.Trigger = c.Trigger + " " + c.Args[0]
	sub.Args = append([]string(nil), c.Args[1:]...)
	return &sub
}

// NewContext builds a context outside the dispatcher, for handlers that re-enter commands and for tests.
func NewContext(msg *discordgo.Message, guild *discordgo.Guild, member *discordgo.Member, cfg GuildConfiguration, messaging Messaging, trigger string, args []string) *Context {
	return &Context{
		Message:   msg,
		Guild:     guild,
		Member:    member,
		Trigger:   trigger,
		Args:      args,
		Config:    cfg,
		messaging: messaging,
	}
}
