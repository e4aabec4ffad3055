// Package config loads the persisted server configuration. The file is
// human-editable JSON; a missing file materializes the full default config
// to disk on first run. The core only consumes these values as policy
// inputs, enforcement lives elsewhere.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type ServerConfig struct {
	Network    NetworkConfig    `json:"network"`
	RateLimits RateLimitConfig  `json:"rateLimits"`
	FileUpload FileUploadConfig `json:"fileUpload"`
	Moderation ModerationConfig `json:"moderation"`
	Database   DatabaseConfig   `json:"database"`
	Security   SecurityConfig   `json:"security"`
	Redis      RedisConfig      `json:"redis"`
	LogToFile  bool             `json:"logToFile"`
	LogLevel   string           `json:"logLevel"`
}

type NetworkConfig struct {
	BindAddress              string `json:"bindAddress"`
	Port                     int    `json:"port"`
	MaxConnections           int    `json:"maxConnections"`
	ConnectionTimeoutSeconds int    `json:"connectionTimeoutSeconds"`
	KeepaliveIntervalSeconds int    `json:"keepaliveIntervalSeconds"`
	TlsCert                  string `json:"tlsCert"`
	TlsKey                   string `json:"tlsKey"`
	OutboundQueueSize        int    `json:"outboundQueueSize"`
	SnowflakeWorkerID        int64  `json:"snowflakeWorkerID"`
}

type RateLimitConfig struct {
	MessagesPerMinute           int `json:"messagesPerMinute"`
	RequestsPerSecond           int `json:"requestsPerSecond"`
	FileUploadsPerHour          int `json:"fileUploadsPerHour"`
	RegistrationAttemptsPerHour int `json:"registrationAttemptsPerHour"`
	LoginAttemptsPerMinute      int `json:"loginAttemptsPerMinute"`
	ChannelJoinsPerMinute       int `json:"channelJoinsPerMinute"`
}

type FileUploadConfig struct {
	Enabled              bool     `json:"enabled"`
	MaxFileSizeMB        int      `json:"maxFileSizeMB"`
	AllowedTypes         []string `json:"allowedTypes"`
	MaxFilesPerUser      int      `json:"maxFilesPerUser"`
	StoragePath          string   `json:"storagePath"`
	CleanupIntervalHours int      `json:"cleanupIntervalHours"`
}

type ModerationConfig struct {
	AutoModerationEnabled bool     `json:"autoModerationEnabled"`
	BlockedWords          []string `json:"blockedWords"`
	BlockedPatterns       []string `json:"blockedPatterns"`
	AutoBanThreshold      int      `json:"autoBanThreshold"`
	WarningThreshold      int      `json:"warningThreshold"`
	MessageLengthLimit    int      `json:"messageLengthLimit"`
	ChannelCreationRole   string   `json:"channelCreationRole"`
}

type DatabaseConfig struct {
	Path                string `json:"path"`
	BackupIntervalHours int    `json:"backupIntervalHours"`
	BackupRetentionDays int    `json:"backupRetentionDays"`
	ConnectionPoolSize  int    `json:"connectionPoolSize"`
	QueryTimeoutSeconds int    `json:"queryTimeoutSeconds"`
}

type SecurityConfig struct {
	RequireSecurePasswords bool     `json:"requireSecurePasswords"`
	MinPasswordLength      int      `json:"minPasswordLength"`
	SessionTimeoutHours    int      `json:"sessionTimeoutHours"`
	InviteExpiryHours      int      `json:"inviteExpiryHours"`
	JwtSecret              string   `json:"jwtSecret"`
	AuditLoggingEnabled    bool     `json:"auditLoggingEnabled"`
	IPWhitelist            []string `json:"ipWhitelist"`
	IPBlacklist            []string `json:"ipBlacklist"`
}

// RedisConfig is optional; an empty address keeps the node self-contained
// with local fan-out and caching.
type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func Default() ServerConfig {
	return ServerConfig{
		Network: NetworkConfig{
			BindAddress:              "127.0.0.1",
			Port:                     8080,
			MaxConnections:           1000,
			ConnectionTimeoutSeconds: 30,
			KeepaliveIntervalSeconds: 60,
			OutboundQueueSize:        256,
		},
		RateLimits: RateLimitConfig{
			MessagesPerMinute:           60,
			RequestsPerSecond:           10,
			FileUploadsPerHour:          10,
			RegistrationAttemptsPerHour: 5,
			LoginAttemptsPerMinute:      5,
			ChannelJoinsPerMinute:       20,
		},
		FileUpload: FileUploadConfig{
			Enabled:              true,
			MaxFileSizeMB:        10,
			AllowedTypes:         []string{"image/png", "image/jpeg", "image/gif", "image/webp", "text/plain"},
			MaxFilesPerUser:      100,
			StoragePath:          "./uploads",
			CleanupIntervalHours: 24,
		},
		Moderation: ModerationConfig{
			AutoModerationEnabled: true,
			BlockedWords:          []string{},
			BlockedPatterns:       []string{},
			AutoBanThreshold:      5,
			WarningThreshold:      3,
			MessageLengthLimit:    2000,
			ChannelCreationRole:   "moderator",
		},
		Database: DatabaseConfig{
			Path:                "nexus.db",
			BackupIntervalHours: 6,
			BackupRetentionDays: 30,
			ConnectionPoolSize:  10,
			QueryTimeoutSeconds: 30,
		},
		Security: SecurityConfig{
			RequireSecurePasswords: true,
			MinPasswordLength:      8,
			SessionTimeoutHours:    24,
			InviteExpiryHours:      72,
			AuditLoggingEnabled:    true,
			IPWhitelist:            []string{},
			IPBlacklist:            []string{},
		},
		LogLevel: "debug",
	}
}

// LoadOrDefault reads the config file, materializing the defaults to disk
// when the file doesn't exist yet. A file that exists but fails to parse or
// validate is an error, not a silent fallback.
func LoadOrDefault(path string) (ServerConfig, error) {
	bytes, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := cfg.Save(path); saveErr != nil {
			return cfg, fmt.Errorf("writing default config: %w", saveErr)
		}
		return cfg, nil
	}
	if err != nil {
		return ServerConfig{}, err
	}

	var cfg ServerConfig
	if err := json.Unmarshal(bytes, &cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c ServerConfig) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bytes, 0o644)
}

// Validate is best-effort: it rejects the configs that would wedge the
// server outright rather than proving every field sane.
func (c ServerConfig) Validate() error {
	if c.Network.Port == 0 {
		return fmt.Errorf("network port cannot be 0")
	}
	if c.Network.MaxConnections <= 0 {
		return fmt.Errorf("max connections must be greater than 0")
	}
	if c.RateLimits.MessagesPerMinute <= 0 {
		return fmt.Errorf("messages per minute must be greater than 0")
	}
	if c.RateLimits.LoginAttemptsPerMinute <= 0 {
		return fmt.Errorf("login attempts per minute must be greater than 0")
	}
	if c.Moderation.MessageLengthLimit <= 0 {
		return fmt.Errorf("message length limit must be greater than 0")
	}
	if c.Security.MinPasswordLength < 4 {
		return fmt.Errorf("minimum password length must be at least 4")
	}
	return nil
}
