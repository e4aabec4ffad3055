package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/y4my4my4m/nexus-sync/internal/cache"
	"github.com/y4my4my4m/nexus-sync/internal/config"
	"github.com/y4my4my4m/nexus-sync/internal/handlers"
	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/models"
	"github.com/y4my4my4m/nexus-sync/internal/persist"
	"github.com/y4my4my4m/nexus-sync/internal/protocol"
	"github.com/y4my4my4m/nexus-sync/internal/session"
	"github.com/y4my4my4m/nexus-sync/internal/store"
	"github.com/y4my4my4m/nexus-sync/internal/token"
)

const configPath = "config.json"

func setupLogger(cfg config.ServerConfig) (*zap.SugaredLogger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.LogToFile {
		zapConfig.OutputPaths = []string{"app.log", "stdout"}
	} else {
		zapConfig.OutputPaths = []string{"stdout"}
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = level

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func setupRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}
	return rdb, nil
}

// ensureJwtSecret generates and persists a secret on first run so resume
// tokens survive restarts.
func ensureJwtSecret(cfg *config.ServerConfig) error {
	if cfg.Security.JwtSecret != "" {
		return nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	cfg.Security.JwtSecret = hex.EncodeToString(secret)
	return cfg.Save(configPath)
}

// seedForums installs the default board on an empty node.
func seedForums(st *store.Store) {
	st.Forums.Seed([]models.Forum{
		{
			ID:          uuid.New(),
			Name:        "General",
			Description: "General discussion",
		},
	})
}

// seedServers installs the default public server on an empty node. New
// registrations are enrolled into every public server automatically.
func seedServers(st *store.Store) {
	if st.Servers.Count() > 0 {
		return
	}
	st.Servers.Create(models.Server{
		Name:        "Nexus",
		Description: "The place everyone starts in",
		Public:      true,
		Channels: []models.Channel{
			{Name: "general", Description: "General chat"},
		},
	})
}

// sweepInvites expires pending invites older than the configured window.
// Expiry resolves the invite, so the inviter hears about it the same way
// they would an accept or decline.
func sweepInvites(sugar *zap.SugaredLogger, st *store.Store, h *hub.Hub, expiry time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		expired := st.Invites.ExpireBefore(time.Now().Add(-expiry))
		for _, invite := range expired {
			event := protocol.ServerInviteResponse{InviteID: invite.ID, By: invite.To, Accepted: false}
			if err := h.EmitToUser(invite.From.ID, event); err != nil {
				sugar.Error(err)
			}
		}
		if len(expired) > 0 {
			sugar.Infof("expired %d stale invites", len(expired))
		}
	}
}

func main() {
	fmt.Println("Reading config file...")
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Setting up logger...")
	sugar, err := setupLogger(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sugar.Sync()

	if err := ensureJwtSecret(&cfg); err != nil {
		sugar.Fatal(err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		sugar.Info("Connecting to redis...")
		redisClient, err = setupRedis(cfg.Redis)
		if err != nil {
			sugar.Fatal(err)
		}
	} else {
		sugar.Info("No redis configured, running self-contained")
	}

	sugar.Info("Opening database...")
	db, err := persist.Open(sugar, cfg.Database)
	if err != nil {
		sugar.Fatal(err)
	}
	defer db.Close()

	st := store.New(sugar, db)
	if err := db.Load(st); err != nil {
		sugar.Fatal(err)
	}
	seedForums(st)
	seedServers(st)

	gen, err := session.NewGenerator(cfg.Network.SnowflakeWorkerID)
	if err != nil {
		sugar.Fatal(err)
	}

	h := hub.New(sugar, redisClient, gen, cfg.Network.OutboundQueueSize)
	imgCache := cache.New(sugar, redisClient, time.Duration(cfg.FileUpload.CleanupIntervalHours)*time.Hour)
	issuer := token.NewIssuer(cfg.Security.JwtSecret, time.Duration(cfg.Security.SessionTimeoutHours)*time.Hour)

	go sweepInvites(sugar, st, h, time.Duration(cfg.Security.InviteExpiryHours)*time.Hour)

	sugar.Infof("Listening on %s:%d", cfg.Network.BindAddress, cfg.Network.Port)
	if err := handlers.Setup(&cfg, sugar, st, h, imgCache, issuer); err != nil {
		sugar.Fatal(err)
	}
}
