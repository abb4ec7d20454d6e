package handlers

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"GuildBot/core/async"
	"GuildBot/core/database"
	"GuildBot/core/dispatch"
	"GuildBot/core/guilds"
	"GuildBot/core/permissions"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	botID   = "100000000000000001"
	devID   = "100000000000000002"
	ownerID = "100000000000000003"
	aliceID = "100000000000000004"
	bobID   = "100000000000000005"
	guildID = "100000000000000006"
	modsID  = "100000000000000007"
	chanID  = "100000000000000008"
)

type reply struct {
	Level string
	Text  string
}

type platform struct {
	mu      sync.Mutex
	replies []reply
	deleted []string
}

func (p *platform) record(level, text string) *async.Future {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replies = append(p.replies, reply{level, text})
	return async.Completed(nil)
}

func (p *platform) ReplyPlain(_, text string, _ bool) *async.Future   { return p.record("plain", text) }
func (p *platform) ReplyWarning(_, text string, _ bool) *async.Future { return p.record("warning", text) }
func (p *platform) ReplyError(_, text string, _ bool) *async.Future   { return p.record("error", text) }
func (p *platform) SelfID() string                                    { return botID }
func (p *platform) CanManageMessages(string) bool                     { return true }

func (p *platform) DeleteMessage(_, messageID string) *async.Future {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, messageID)
	return async.Completed(nil)
}

func (p *platform) DirectMessage(_, text string) *async.Future {
	return p.record("dm", text)
}

func testMessage() *discordgo.Message {
	return &discordgo.Message{ChannelID: chanID, GuildID: guildID}
}

type inspector struct{}

func (inspector) IsGuildOwner(guild, user string) bool { return guild == guildID && user == ownerID }
func (inspector) IsAdministrator(*discordgo.Member) bool { return false }

type harness struct {
	t          *testing.T
	platform   *platform
	dispatcher *dispatch.MessageDispatcher
	guild      *discordgo.Guild
	messages   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider := guilds.NewProvider(db, guilds.DefaultsFor("!"), time.Minute)
	registry := dispatch.NewRegistry()
	authorizer := permissions.NewAuthorizer([]string{devID}, db, inspector{})
	require.NoError(t, Register(&Deps{
		DB:            db,
		Guilds:        provider,
		Registry:      registry,
		Authorizer:    authorizer,
		DefaultPrefix: "!",
		Roll:          func(n int) int { return n - 1 },
	}))

	p := &platform{}
	return &harness{
		t:        t,
		platform: p,
		dispatcher: dispatch.NewDispatcher(dispatch.Options{
			Registry:      registry,
			Guilds:        provider,
			Authorizer:    authorizer,
			Platform:      p,
			Executor:      dispatch.SyncExecutor{},
			DefaultPrefix: "!",
		}),
		guild: &discordgo.Guild{
			ID:      guildID,
			OwnerID: ownerID,
			Roles: []*discordgo.Role{
				{ID: guildID, Name: "@everyone"},
				{ID: modsID, Name: "Mods"},
			},
			Channels: []*discordgo.Channel{
				{ID: chanID, GuildID: guildID, Name: "general"},
			},
			Members: []*discordgo.Member{
				{GuildID: guildID, User: &discordgo.User{ID: devID, Username: "dev"}},
				{GuildID: guildID, User: &discordgo.User{ID: ownerID, Username: "boss"}},
				{GuildID: guildID, User: &discordgo.User{ID: aliceID, Username: "alice"}},
				{GuildID: guildID, User: &discordgo.User{ID: bobID, Username: "bob"}, Roles: []string{modsID}},
			},
		},
	}
}

// send dispatches content as userID and returns the outcome.
func (h *harness) send(userID, content string) dispatch.Outcome {
	h.t.Helper()
	var member *discordgo.Member
	for _, m := range h.guild.Members {
		if m.User.ID == userID {
			copied := *m
			member = &copied
		}
	}
	require.NotNil(h.t, member, "unknown user %s", userID)
	h.messages++
	msg := &discordgo.Message{
		ID:        "m" + strings.Repeat("0", h.messages),
		ChannelID: chanID,
		GuildID:   guildID,
		Content:   content,
		Author:    member.User,
	}
	return h.dispatcher.OnMessage(msg, h.guild, member)
}

func (h *harness) last() reply {
	h.t.Helper()
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()
	require.NotEmpty(h.t, h.platform.replies)
	return h.platform.replies[len(h.platform.replies)-1]
}

func (h *harness) replyCount() int {
	h.platform.mu.Lock()
	defer h.platform.mu.Unlock()
	return len(h.platform.replies)
}

func TestPing(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, dispatch.OutcomeSubmitted, h.send(aliceID, "!ping"))
	assert.Equal(t, "Pong!", h.last().Text)

	h.send(aliceID, "!PONG")
	assert.Equal(t, "Ping!", h.last().Text)
}

func TestPrefix(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, dispatch.OutcomeDenied, h.send(aliceID, "!prefix set ?"))
	assert.Equal(t, "error", h.last().Level)

	h.send(ownerID, "!prefix set ?")
	assert.Equal(t, "The prefix is now `?`", h.last().Text)

	assert.Equal(t, dispatch.OutcomeIgnored, h.send(aliceID, "!ping"))
	h.send(aliceID, "?ping")
	assert.Equal(t, "Pong!", h.last().Text)

	// The default prefix still finds the prefix command.
	h.send(aliceID, "!prefix")
	assert.Equal(t, "The current prefix is `?`", h.last().Text)

	h.send(ownerID, "?prefix set toolong")
	assert.Equal(t, "warning", h.last().Level)

	h.send(ownerID, "?prefix reset")
	assert.Equal(t, "The prefix is now `!`", h.last().Text)
}

func TestTagsWithGrants(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, dispatch.OutcomeDenied, h.send(bobID, "!tag add rules Be nice"))

	h.send(ownerID, "!perms grant role mods tag.*")
	assert.Equal(t, "Granted `tag.*` to role Mods", h.last().Text)
	h.send(ownerID, "!perms grant role mods tag.*")
	assert.Equal(t, "warning", h.last().Level)

	h.send(bobID, "!tag add rules Be nice")
	assert.Equal(t, "Added tag `rules`", h.last().Text)
	h.send(bobID, "!tag add Rules Be very nice")
	assert.Equal(t, "Replaced tag `rules`", h.last().Text)

	h.send(aliceID, "!t rules")
	assert.Equal(t, "Be very nice", h.last().Text)
	h.send(aliceID, "!tag list")
	assert.Equal(t, "**Tags:**\n\trules", h.last().Text)
	assert.Equal(t, dispatch.OutcomeDenied, h.send(aliceID, "!tag remove rules"))

	h.send(ownerID, "!perms")
	assert.Contains(t, h.last().Text, "role Mods: `tag.*`")

	h.send(bobID, "!tag remove rules")
	assert.Equal(t, "Removed tag `rules`", h.last().Text)
	h.send(aliceID, "!tag rules")
	assert.Equal(t, "There is no tag called `rules`", h.last().Text)

	h.send(ownerID, "!perms revoke role mods tag.*")
	assert.Equal(t, "Revoked `tag.*` from role Mods", h.last().Text)
	assert.Equal(t, dispatch.OutcomeDenied, h.send(bobID, "!tag add rules x"))
}

func TestPermsUserGrantAndBadTarget(t *testing.T) {
	h := newHarness(t)

	h.send(ownerID, "!perms grant user alice say")
	assert.Equal(t, "Granted `say` to user alice", h.last().Text)
	h.send(aliceID, "!say hello there")
	assert.Equal(t, "hello there", h.last().Text)

	h.send(ownerID, "!perms grant role nobody say")
	assert.Equal(t, "Could not find the role `nobody`", h.last().Text)
	h.send(ownerID, "!perms grant channel general say")
	assert.Contains(t, h.last().Text, "Usage:")
}

func TestModules(t *testing.T) {
	h := newHarness(t)

	h.send(ownerID, "!module disable FUN")
	assert.Equal(t, "The module `fun` has been disabled", h.last().Text)
	assert.Equal(t, dispatch.OutcomeModuleDisabled, h.send(aliceID, "!roll"))

	h.send(ownerID, "!module disable core")
	assert.Equal(t, "The module `core` can't be switched off", h.last().Text)
	h.send(ownerID, "!module disable nope")
	assert.Equal(t, "warning", h.last().Level)

	h.send(ownerID, "!modules")
	assert.Contains(t, h.last().Text, "**fun**: off")
	assert.Contains(t, h.last().Text, "**core**: always on")

	h.send(ownerID, "!module enable fun")
	assert.Equal(t, dispatch.OutcomeSubmitted, h.send(aliceID, "!roll"))
}

func TestRoll(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "!roll")
	assert.Equal(t, "You rolled a **6** (d6)", h.last().Text)
	h.send(aliceID, "!dice 20")
	assert.Equal(t, "You rolled a **20** (d20)", h.last().Text)
	h.send(aliceID, "!roll 1")
	assert.Equal(t, "warning", h.last().Level)
}

func TestSayDeletesWhenEnabled(t *testing.T) {
	h := newHarness(t)

	h.send(ownerID, "!say hi")
	assert.Equal(t, "hi", h.last().Text)
	assert.Empty(t, h.platform.deleted)

	h.send(ownerID, "!settings set deleteCommandMessages on")
	assert.Equal(t, "**deletecommandmessages** is now on", h.last().Text)

	h.send(ownerID, "!say hi again")
	assert.Equal(t, "hi again", h.last().Text)
	assert.Len(t, h.platform.deleted, 1)
}

func TestSettings(t *testing.T) {
	h := newHarness(t)

	h.send(ownerID, "!settings")
	assert.Contains(t, h.last().Text, "**useembeds**: on")

	h.send(ownerID, "!settings set colour on")
	assert.Contains(t, h.last().Text, "Unknown setting `colour`")
	h.send(ownerID, "!settings set useembeds maybe")
	assert.Equal(t, "warning", h.last().Level)
	h.send(ownerID, "!settings set useembeds")
	assert.Contains(t, h.last().Text, "Usage:")

	assert.Equal(t, dispatch.OutcomeDenied, h.send(aliceID, "!settings"))
}

func TestIdent(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "!id")
	assert.Equal(t, "Identities:\n\talice has id "+aliceID, h.last().Text)

	h.send(aliceID, "!id bob <@"+ownerID+"> nobody")
	text := h.last().Text
	assert.Contains(t, text, "bob has id "+bobID)
	assert.Contains(t, text, "boss has id "+ownerID)
	assert.Contains(t, text, "Could not find: nobody")

	h.send(aliceID, "!id #general <#"+chanID+"> #random")
	text = h.last().Text
	assert.Equal(t, "Identities:\n\t#general has id "+chanID+"\n\tCould not find: #random", text)
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	h.send(aliceID, "!help")
	text := h.last().Text
	assert.Contains(t, text, "**!ping**")
	assert.Contains(t, text, "**!tag**")
	assert.NotContains(t, text, "**!settings**")
	assert.NotContains(t, text, "**!pool**")

	h.send(devID, "!help")
	assert.Contains(t, h.last().Text, "**!pool**")

	h.send(aliceID, "!help pool")
	assert.Equal(t, "There is no command called `pool`", h.last().Text)

	h.send(aliceID, "!help tag")
	text = h.last().Text
	assert.Contains(t, text, "Usage: `!tag <name>`")
	assert.Contains(t, text, "**!tag add**: Save or replace a tag")
}

func TestPoolIsRestricted(t *testing.T) {
	h := newHarness(t)

	before := h.replyCount()
	assert.Equal(t, dispatch.OutcomeDenied, h.send(ownerID, "!pool"))
	assert.Equal(t, before, h.replyCount())

	h.send(devID, "!pool")
	assert.Equal(t, "Commands are running inline", h.last().Text)
}

func TestPoolStats(t *testing.T) {
	pool := dispatch.NewPool(2)
	pool.Start()
	defer pool.Shutdown(context.Background())

	deps := &Deps{Pool: pool}
	p := &platform{}
	ctx := dispatch.NewContext(testMessage(), nil, nil, dispatch.GuildConfiguration{}, p, "pool", []string{})
	require.NoError(t, deps.poolStats(nil, ctx))
	require.Len(t, p.replies, 1)
	assert.Contains(t, p.replies[0].Text, "Command Pool-1, Command Pool-2")
}
