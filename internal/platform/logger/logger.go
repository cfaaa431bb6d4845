package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"licenseguard/internal/platform/config"
)

// New builds the process logger. Format "text" is meant for local runs.
func New(cfg config.LoggingConfig) *slog.Logger {
	return newWithWriter(os.Stdout, cfg)
}

func newWithWriter(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", "licenseguard")
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
