package dispatch

import (
	"regexp"
	"strings"

	"github.com/thoas/go-funk"
)

var multiSpace = regexp.MustCompile(`\s+`)

// prefixDiscovery is the one trigger that always answers to the default prefix.
const prefixDiscovery = "prefix"

// Invocation is a detected command call before resolution.
type Invocation struct {
	Trigger string
	Args    []string
	Mention bool
}

// Detector decides whether message text invokes a command.
type Detector struct {
	DefaultPrefix string
	// SelfID is the bot's user id; empty disables mention detection.
	SelfID string
}

// Detect tries, in order: the guild prefix, a mention of the bot (when the guild allows it) and
// "<default prefix>prefix" for guilds that changed their prefix.
func (d Detector) Detect(content string, cfg GuildConfiguration) (Invocation, bool) {
	message := CollapseWhitespace(content)

	switch {
	case cfg.Prefix != "" && strings.HasPrefix(message, cfg.Prefix):
		return tokenize(message[len(cfg.Prefix):], false)
	case cfg.MentionPrefix && d.SelfID != "":
		if rest, ok := d.stripMention(message); ok {
			return tokenize(strings.TrimLeft(rest, " "), true)
		}
	}

	if d.DefaultPrefix != "" && cfg.Prefix != d.DefaultPrefix &&
		strings.HasPrefix(message, d.DefaultPrefix+prefixDiscovery) {
		return tokenize(message[len(d.DefaultPrefix):], false)
	}
	return Invocation{}, false
}

func (d Detector) stripMention(message string) (string, bool) {
	for _, mention := range []string{"<@" + d.SelfID + ">", "<@!" + d.SelfID + ">"} {
		if strings.HasPrefix(message, mention) {
			return message[len(mention):], true
		}
	}
	return "", false
}

// CollapseWhitespace replaces every run of whitespace with a single space.
func CollapseWhitespace(s string) string {
	return multiSpace.ReplaceAllString(s, " ")
}

func tokenize(rest string, mention bool) (Invocation, bool) {
	parts := strings.Split(rest, " ")
	if parts[0] == "" {
		return Invocation{}, false
	}
	args := funk.FilterString(parts[1:], func(s string) bool {
		return s != ""
	})
	if args == nil {
		args = []string{}
	}
	return Invocation{Trigger: parts[0], Args: args, Mention: mention}, true
}
