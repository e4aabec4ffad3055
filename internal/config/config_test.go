package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadOrDefaultMaterializesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Error("first load must return the defaults")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}

	// the written file round-trips
	again, err := LoadOrDefault(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(again, cfg) {
		t.Error("reloaded config differs from the defaults")
	}
}

func TestLoadOrDefaultRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected parse error for malformed config")
	}
}

func TestLoadOrDefaultRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Network.Port = 0
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOrDefault(path); err == nil {
		t.Error("expected validation error for zero port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{"defaults pass", func(c *ServerConfig) {}, false},
		{"zero port", func(c *ServerConfig) { c.Network.Port = 0 }, true},
		{"zero max connections", func(c *ServerConfig) { c.Network.MaxConnections = 0 }, true},
		{"zero messages per minute", func(c *ServerConfig) { c.RateLimits.MessagesPerMinute = 0 }, true},
		{"zero login attempts", func(c *ServerConfig) { c.RateLimits.LoginAttemptsPerMinute = 0 }, true},
		{"zero message length limit", func(c *ServerConfig) { c.Moderation.MessageLengthLimit = 0 }, true},
		{"password floor below 4", func(c *ServerConfig) { c.Security.MinPasswordLength = 3 }, true},
		{"password floor exactly 4", func(c *ServerConfig) { c.Security.MinPasswordLength = 4 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
