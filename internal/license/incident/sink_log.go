package incident

import (
	"context"
	"log/slog"

	"licenseguard/internal/license/models"
)

// LogSink writes each incident as a structured security log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, batch []*models.Incident) error {
	for _, inc := range batch {
		level := slog.LevelInfo
		if inc.Severity == models.SeverityHigh {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "license incident",
			"log_type", "security",
			"incident_id", inc.ID.String(),
			"license_key", inc.LicenseKey,
			"incident_type", string(inc.Type),
			"severity", string(inc.Severity),
			"description", inc.Description,
			"ip_address", inc.IPAddress,
			"timestamp", inc.Timestamp,
		)
	}
	return nil
}
