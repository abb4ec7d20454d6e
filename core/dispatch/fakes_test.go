package dispatch

import (
	"errors"
	"sync"

	"GuildBot/core/async"

	"github.com/bwmarrin/discordgo"
)

const (
	botID   = "100"
	ownerID = "200"
	testGuildID = "300"
	chanID  = "400"
)

type reply struct {
	Level   string
	Channel string
	Text    string
}

type fakePlatform struct {
	mu        sync.Mutex
	replies   []reply
	deleted   []string
	dms       []string
	canManage bool
	dmErr     error
}

func (f *fakePlatform) record(level, channel, text string) *async.Future {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, reply{level, channel, text})
	return async.Completed(nil)
}

func (f *fakePlatform) ReplyPlain(channelID, text string, _ bool) *async.Future {
	return f.record("plain", channelID, text)
}

func (f *fakePlatform) ReplyWarning(channelID, text string, _ bool) *async.Future {
	return f.record("warning", channelID, text)
}

func (f *fakePlatform) ReplyError(channelID, text string, _ bool) *async.Future {
	return f.record("error", channelID, text)
}

func (f *fakePlatform) SelfID() string { return botID }

func (f *fakePlatform) CanManageMessages(string) bool { return f.canManage }

func (f *fakePlatform) DeleteMessage(_, messageID string) *async.Future {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return async.Completed(errors.New("unknown message"))
}

func (f *fakePlatform) DirectMessage(userID, _ string) *async.Future {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms = append(f.dms, userID)
	return async.Completed(f.dmErr)
}

func (f *fakePlatform) Replies() []reply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]reply(nil), f.replies...)
}

type fakeGuilds struct {
	cfg GuildConfiguration
	err error
}

func (f fakeGuilds) Get(string) (GuildConfiguration, error) {
	return f.cfg, f.err
}

// fakeAuthorizer denies every permission node listed in deny.
type fakeAuthorizer struct {
	deny map[string]bool
}

func (f fakeAuthorizer) IsAuthorized(cmd *Descriptor, _ GuildConfiguration, _ *discordgo.Member) bool {
	return !f.deny[cmd.Permission.Node]
}

// call records what a command body received.
type call struct {
	Path    string
	Trigger string
	Args    []string
	Mention bool
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) handler(cmd string) Handler {
	return func(_ *discordgo.Member, ctx *Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.calls = append(r.calls, call{Path: cmd, Trigger: ctx.Trigger, Args: ctx.Args, Mention: ctx.Mention})
		return nil
	}
}

func (r *recorder) Calls() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}

func defaultConfig() GuildConfiguration {
	return GuildConfiguration{
		GuildID:              testGuildID,
		Prefix:               "!",
		MentionPrefix:        true,
		EnabledModules:       map[Module]bool{},
		ShowPermissionErrors: true,
		UseEmbeds:            false,
	}
}

func testMessage(content string) (*discordgo.Message, *discordgo.Guild, *discordgo.Member) {
	user := &discordgo.User{ID: "500", Username: "alice"}
	msg := &discordgo.Message{ID: "600", ChannelID: chanID, GuildID: testGuildID, Content: content, Author: user}
	guild := &discordgo.Guild{ID: testGuildID, OwnerID: ownerID}
	member := &discordgo.Member{GuildID: testGuildID, User: user}
	return msg, guild, member
}
