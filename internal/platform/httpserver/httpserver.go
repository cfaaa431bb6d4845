package httpserver

import (
	"net/http"

	"licenseguard/internal/platform/config"
)

// New builds the HTTP server from config.
func New(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
