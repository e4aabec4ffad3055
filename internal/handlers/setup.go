// Package handlers is the gateway between the transport and the
// synchronization core: it upgrades connections, decodes client requests,
// drives the store and the hub, and maps failures onto the protocol's
// error vocabulary. Per-request failures never leave the requesting
// session.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	playground "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/y4my4my4m/nexus-sync/internal/cache"
	"github.com/y4my4my4m/nexus-sync/internal/config"
	"github.com/y4my4my4m/nexus-sync/internal/hub"
	"github.com/y4my4my4m/nexus-sync/internal/store"
	"github.com/y4my4my4m/nexus-sync/internal/token"
)

var (
	sugar    *zap.SugaredLogger
	cfg      *config.ServerConfig
	st       *store.Store
	h        *hub.Hub
	imgCache *cache.Cache
	issuer   *token.Issuer
	validate = playground.New()
)

// Setup wires the handler dependencies and serves the router. Blocks until
// the listener fails.
func Setup(_cfg *config.ServerConfig, _sugar *zap.SugaredLogger, _st *store.Store, _h *hub.Hub, _imgCache *cache.Cache, _issuer *token.Issuer) error {
	sugar = _sugar
	cfg = _cfg
	st = _st
	h = _h
	imgCache = _imgCache
	issuer = _issuer

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/ws", HandleWebSocket)

	address := fmt.Sprintf("%s:%d", cfg.Network.BindAddress, cfg.Network.Port)

	if cfg.Network.TlsCert != "" && cfg.Network.TlsKey != "" {
		return http.ListenAndServeTLS(address, cfg.Network.TlsCert, cfg.Network.TlsKey, r)
	}
	return http.ListenAndServe(address, r)
}
