// Package sweeper clears elapsed throttles and blocks and records each clearance.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"licenseguard/internal/license/metrics"
	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
	"licenseguard/pkg/requestcontext"
)

type Sweeper struct {
	restrictions ports.RestrictionStore
	recorder     ports.IncidentRecorder
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) {
		s.metrics = m
	}
}

func New(restrictions ports.RestrictionStore, recorder ports.IncidentRecorder, opts ...Option) (*Sweeper, error) {
	if restrictions == nil {
		return nil, errors.New("restriction store is required")
	}
	if recorder == nil {
		return nil, errors.New("incident recorder is required")
	}
	s := &Sweeper{restrictions: restrictions, recorder: recorder, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RunOnce clears every restriction that has elapsed as of requestcontext.Now(ctx).
// Each clear is conditional, so a restriction extended after the listing survives.
// Review flags are left for an operator.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	now := requestcontext.Now(ctx)
	expired, err := s.restrictions.ListExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired restrictions: %w", err)
	}

	cleared := 0
	var errs []error
	for _, state := range expired {
		for _, kind := range state.ExpiredKinds(now) {
			ok, expiredAt, err := s.restrictions.ClearExpired(ctx, state.LicenseKey, kind, now)
			if err != nil {
				errs = append(errs, fmt.Errorf("clear %s on %s: %w", kind, state.LicenseKey, err))
				continue
			}
			if !ok {
				continue
			}
			cleared++
			s.metrics.IncrementRestrictionsCleared(string(kind))
			if err := s.record(ctx, state.LicenseKey, kind, expiredAt, now); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return cleared, errors.Join(errs...)
}

func (s *Sweeper) record(ctx context.Context, key string, kind models.RestrictionKind, expiredAt, now time.Time) error {
	inc, err := models.NewIncident(key, models.AutoClearedIncident(kind), models.SeverityLow,
		fmt.Sprintf("%s restriction expired and was cleared", kind), "", now,
		map[string]any{"expired_at": expiredAt.UTC().Format(time.RFC3339)})
	if err != nil {
		return err
	}
	if err := s.recorder.Record(ctx, inc); err != nil {
		return fmt.Errorf("record %s: %w", inc.Type, err)
	}
	return nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cleared, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "restriction sweep failed", "error", err, "cleared", cleared)
				continue
			}
			if cleared > 0 {
				s.logger.InfoContext(ctx, "restriction sweep completed", "cleared", cleared)
			}
		}
	}
}
