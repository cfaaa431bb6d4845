// Package incident records incidents to the durable log and streams them to
// downstream consumers.
package incident

import (
	"context"
	"fmt"
	"log/slog"

	"licenseguard/internal/license/metrics"
	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
)

// Recorder appends incidents to the log before publishing them, so the stream
// never carries an incident the log does not have.
type Recorder struct {
	store     ports.IncidentStore
	publisher *Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type RecorderOption func(*Recorder)

func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithRecorderMetrics(m *metrics.Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// NewRecorder builds a recorder. publisher may be nil when no stream is wired.
func NewRecorder(store ports.IncidentStore, publisher *Publisher, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, publisher: publisher, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) Record(ctx context.Context, incident *models.Incident) error {
	if err := r.store.Append(ctx, incident); err != nil {
		return fmt.Errorf("append incident: %w", err)
	}
	r.metrics.IncrementIncidents(string(incident.Type), string(incident.Severity))
	ports.LogAudit(ctx, r.logger, "incident_recorded",
		"incident_id", incident.ID.String(),
		"license_key", incident.LicenseKey,
		"incident_type", string(incident.Type),
		"severity", string(incident.Severity),
		"ip_address", incident.IPAddress,
	)
	if r.publisher != nil {
		r.publisher.Publish(incident)
	}
	return nil
}
