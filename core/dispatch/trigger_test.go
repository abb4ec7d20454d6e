package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	detector := Detector{DefaultPrefix: "-", SelfID: botID}
	custom := GuildConfiguration{Prefix: "!", MentionPrefix: true}
	noMention := GuildConfiguration{Prefix: "!", MentionPrefix: false}
	defaults := GuildConfiguration{Prefix: "-", MentionPrefix: true}

	tests := []struct {
		name    string
		content string
		cfg     GuildConfiguration
		want    Invocation
		ok      bool
	}{
		{"guild prefix", "!ping", custom, Invocation{Trigger: "ping", Args: []string{}}, true},
		{"guild prefix with args", "!tag add x", custom, Invocation{Trigger: "tag", Args: []string{"add", "x"}}, true},
		{"collapsed whitespace", "!cmd   a  b", custom, Invocation{Trigger: "cmd", Args: []string{"a", "b"}}, true},
		{"tabs and newlines", "!cmd\ta\n\nb", custom, Invocation{Trigger: "cmd", Args: []string{"a", "b"}}, true},
		{"trailing space", "!ping ", custom, Invocation{Trigger: "ping", Args: []string{}}, true},
		{"other prefix", "?ping", custom, Invocation{}, false},
		{"prefix alone", "!", custom, Invocation{}, false},
		{"space after prefix", "! ping", custom, Invocation{}, false},
		{"plain text", "hello there", custom, Invocation{}, false},
		{"mention", "<@100> ping a", custom, Invocation{Trigger: "ping", Args: []string{"a"}, Mention: true}, true},
		{"nick mention", "<@!100>   ping", custom, Invocation{Trigger: "ping", Args: []string{}, Mention: true}, true},
		{"mention disabled", "<@100> ping", noMention, Invocation{}, false},
		{"other user mention", "<@101> ping", custom, Invocation{}, false},
		{"default prefix discovery", "-prefix", custom, Invocation{Trigger: "prefix", Args: []string{}}, true},
		{"default prefix discovery with args", "-prefix set ?", custom, Invocation{Trigger: "prefix", Args: []string{"set", "?"}}, true},
		{"default prefix other command", "-ping", custom, Invocation{}, false},
		{"default prefix when guild uses it", "-prefix", defaults, Invocation{Trigger: "prefix", Args: []string{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detector.Detect(tt.content, tt.cfg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetect_WhitespaceInsensitive(t *testing.T) {
	detector := Detector{DefaultPrefix: "-"}
	cfg := GuildConfiguration{Prefix: "!"}
	a, okA := detector.Detect("!cmd   a  b", cfg)
	b, okB := detector.Detect("!cmd a b", cfg)
	assert.True(t, okA)
	assert.True(t, okB)
	assert.Equal(t, b, a)
}

func TestDetect_DistinctPrefixes(t *testing.T) {
	detector := Detector{DefaultPrefix: "-"}
	prefixes := []string{"!", "?", "$$", "bot.", ">>"}
	for _, own := range prefixes {
		cfg := GuildConfiguration{Prefix: own}
		for _, other := range prefixes {
			_, ok := detector.Detect(other+"ping", cfg)
			assert.Equal(t, own == other, ok, "guild prefix %q, message prefix %q", own, other)
		}
	}
}
