package handlers

import (
	"strings"
	"testing"

	"github.com/y4my4my4m/nexus-sync/internal/config"
)

func TestCheckMessageContent(t *testing.T) {
	cfg = &config.ServerConfig{
		Moderation: config.ModerationConfig{
			AutoModerationEnabled: true,
			BlockedWords:          []string{"spam"},
			MessageLengthLimit:    32,
		},
	}

	var tests = []struct {
		name    string
		content string
		ok      bool
	}{
		{"Valid: plain content", "hello there", true},
		{"Valid: content at the limit", strings.Repeat("a", 32), true},
		{"Error: empty content", "", false},
		{"Error: whitespace only", "   \t", false},
		{"Error: content over the limit", strings.Repeat("a", 33), false},
		{"Error: blocked word", "free SPAM here", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := checkMessageContent(tt.content)
			if ok != tt.ok {
				t.Errorf("checkMessageContent(%q) ok = %v, want %v (reason %q)", tt.content, ok, tt.ok, reason)
			}
		})
	}
}

// A zero limit means no length cap, not reject-everything.
func TestCheckMessageContentZeroLimit(t *testing.T) {
	cfg = &config.ServerConfig{}

	if reason, ok := checkMessageContent(strings.Repeat("a", 10000)); !ok {
		t.Errorf("long content rejected under zero limit: %q", reason)
	}
}
