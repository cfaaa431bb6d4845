package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"licenseguard/pkg/platform/middleware/admin"
	"licenseguard/pkg/platform/middleware/metadata"
	"licenseguard/pkg/platform/middleware/requestid"
	"licenseguard/pkg/platform/middleware/requesttime"
)

// RouterConfig carries the transport-level pieces the router needs.
type RouterConfig struct {
	// AdminToken enables /admin routes; empty leaves them unmounted.
	AdminToken string
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Ready reports dependency health for /healthz.
	Ready  func(r *http.Request) error
	Logger *slog.Logger
}

func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(req); err != nil {
				cfg.Logger.WarnContext(req.Context(), "health check failed", "error", err)
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	h.Register(r)
	if cfg.AdminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminToken(cfg.AdminToken, cfg.Logger))
			h.RegisterAdmin(r)
		})
	}
	return r
}
