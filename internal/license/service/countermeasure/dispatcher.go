// Package countermeasure maps incidents to restrictions on the offending license.
package countermeasure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"licenseguard/internal/license/metrics"
	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
	dErrors "licenseguard/pkg/domain-errors"
	"licenseguard/pkg/requestcontext"
)

// Action is the countermeasure applied for an incident.
type Action string

const (
	ActionNone     Action = "none"
	ActionThrottle Action = "throttle"
	ActionBlock    Action = "block"
	ActionFlag     Action = "flag"
)

// Config holds restriction durations per incident type.
type Config struct {
	ExcessiveChecksThrottle time.Duration
	MultipleIPsBlock        time.Duration
	MultipleDomainsBlock    time.Duration
	ExcessiveFailuresBlock  time.Duration
}

func DefaultConfig() Config {
	return Config{
		ExcessiveChecksThrottle: time.Hour,
		MultipleIPsBlock:        time.Hour,
		MultipleDomainsBlock:    24 * time.Hour,
		ExcessiveFailuresBlock:  30 * time.Minute,
	}
}

type rule struct {
	action   Action
	kind     models.RestrictionKind
	duration time.Duration
}

type Dispatcher struct {
	restrictions ports.RestrictionStore
	recorder     ports.IncidentRecorder
	cfg          Config
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithConfig(cfg Config) Option {
	return func(d *Dispatcher) {
		d.cfg = cfg
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// New builds a dispatcher. recorder is only used by Lift and may be nil when
// administrative overrides are not exposed.
func New(restrictions ports.RestrictionStore, recorder ports.IncidentRecorder, opts ...Option) (*Dispatcher, error) {
	if restrictions == nil {
		return nil, errors.New("restriction store is required")
	}
	d := &Dispatcher{
		restrictions: restrictions,
		recorder:     recorder,
		cfg:          DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Dispatcher) ruleFor(typ models.IncidentType) (rule, bool) {
	switch typ {
	case models.IncidentExcessiveChecks:
		return rule{action: ActionThrottle, kind: models.RestrictionThrottle, duration: d.cfg.ExcessiveChecksThrottle}, true
	case models.IncidentMultipleIPsPerLicense:
		return rule{action: ActionBlock, kind: models.RestrictionBlock, duration: d.cfg.MultipleIPsBlock}, true
	case models.IncidentMultipleDomainsSameIP:
		return rule{action: ActionBlock, kind: models.RestrictionBlock, duration: d.cfg.MultipleDomainsBlock}, true
	case models.IncidentExcessiveFailures:
		return rule{action: ActionBlock, kind: models.RestrictionBlock, duration: d.cfg.ExcessiveFailuresBlock}, true
	case models.IncidentFingerprintMismatch:
		return rule{action: ActionFlag}, true
	}
	return rule{}, false
}

// Dispatch applies the countermeasure for incident to its license. Restrictions
// only ever move later: a shorter countermeasure never shortens a longer one.
func (d *Dispatcher) Dispatch(ctx context.Context, incident *models.Incident) (Action, error) {
	// check-ins without a caller address cannot be attributed to anyone
	if incident.LicenseKey == models.UnknownLicenseBucket {
		return ActionNone, nil
	}
	r, ok := d.ruleFor(incident.Type)
	if !ok {
		d.logger.InfoContext(ctx, "no countermeasure for incident type",
			"incident_type", string(incident.Type),
			"license_key", incident.LicenseKey,
		)
		return ActionNone, nil
	}

	now := requestcontext.Now(ctx)
	switch r.action {
	case ActionFlag:
		if err := d.restrictions.Flag(ctx, incident.LicenseKey, string(incident.Type), now); err != nil {
			return ActionNone, dErrors.Wrap(err, dErrors.CodeInternal, "failed to flag license")
		}
		ports.LogAudit(ctx, d.logger, "license_flagged",
			"license_key", incident.LicenseKey,
			"reason", string(incident.Type),
		)
	default:
		state, err := d.restrictions.Restrict(ctx, incident.LicenseKey, r.kind, now.Add(r.duration))
		if err != nil {
			return ActionNone, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("failed to apply %s", r.action))
		}
		attrs := []any{
			"license_key", incident.LicenseKey,
			"incident_type", string(incident.Type),
			"restriction", string(r.kind),
		}
		if until := state.Until(r.kind); until != nil {
			attrs = append(attrs, "until", until.UTC())
		}
		ports.LogAudit(ctx, d.logger, "license_restricted", attrs...)
	}
	d.metrics.IncrementCountermeasures(string(r.action))
	return r.action, nil
}

// Lift clears every restriction and the review flag on key and records the override.
func (d *Dispatcher) Lift(ctx context.Context, key, reason string) error {
	if key == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "license_key is required")
	}
	if err := d.restrictions.ClearAll(ctx, key); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lift restrictions")
	}
	ports.LogAudit(ctx, d.logger, "restriction_lifted", "license_key", key, "reason", reason)
	if d.recorder == nil {
		return nil
	}
	inc, err := models.NewIncident(key, models.IncidentRestrictionLifted, models.SeverityLow,
		"restrictions lifted by operator", requestcontext.ClientIP(ctx), requestcontext.Now(ctx),
		map[string]any{"reason": reason})
	if err != nil {
		return err
	}
	if err := d.recorder.Record(ctx, inc); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record restriction lift")
	}
	return nil
}
