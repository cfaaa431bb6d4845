// Package engine implements the license validation pipeline.
//
// Every check-in runs the same ordered gates (restriction, lookup, expiry, status,
// product, rate limit, domain class, activation, fingerprint) and stops at the first
// failure. Whatever the outcome, the check-in is recorded and handed to abuse
// monitoring before the result is returned.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"licenseguard/internal/license/domainclass"
	"licenseguard/internal/license/fingerprint"
	"licenseguard/internal/license/metrics"
	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
	"licenseguard/internal/license/service/countermeasure"
	"licenseguard/internal/license/signing"
	dErrors "licenseguard/pkg/domain-errors"
	"licenseguard/pkg/platform/sentinel"
	"licenseguard/pkg/requestcontext"
)

// DefaultRateLimitPerHour is the per-(license, domain) check-in ceiling.
const DefaultRateLimitPerHour = 60

const tracerName = "licenseguard/engine"

// Detector evaluates abuse rules for a recorded check-in.
type Detector interface {
	Evaluate(ctx context.Context, event *models.CheckEvent) ([]*models.Incident, error)
}

// Dispatcher applies countermeasures for incidents.
type Dispatcher interface {
	Dispatch(ctx context.Context, incident *models.Incident) (countermeasure.Action, error)
}

type Service struct {
	licenses     ports.LicenseStore
	policies     ports.PolicyCatalog
	usage        ports.UsageTracker
	restrictions ports.RestrictionStore
	fingerprints *fingerprint.Codec

	signer     *signing.Signer
	detector   Detector
	recorder   ports.IncidentRecorder
	dispatcher Dispatcher

	rateLimit int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSigner attaches a signed token to every successful payload.
func WithSigner(signer *signing.Signer) Option {
	return func(s *Service) {
		s.signer = signer
	}
}

// WithRateLimit sets the per-domain hourly ceiling.
func WithRateLimit(perHour int) Option {
	return func(s *Service) {
		if perHour > 0 {
			s.rateLimit = perHour
		}
	}
}

// WithMonitoring wires abuse detection. Incidents from detector are persisted
// through recorder and then handed to dispatcher, in that order.
func WithMonitoring(detector Detector, recorder ports.IncidentRecorder, dispatcher Dispatcher) Option {
	return func(s *Service) {
		s.detector = detector
		s.recorder = recorder
		s.dispatcher = dispatcher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(
	licenses ports.LicenseStore,
	policies ports.PolicyCatalog,
	usage ports.UsageTracker,
	restrictions ports.RestrictionStore,
	fingerprints *fingerprint.Codec,
	opts ...Option,
) (*Service, error) {
	switch {
	case licenses == nil:
		return nil, errors.New("license store is required")
	case usage == nil:
		return nil, errors.New("usage tracker is required")
	case restrictions == nil:
		return nil, errors.New("restriction store is required")
	case fingerprints == nil:
		return nil, errors.New("fingerprint codec is required")
	}

	svc := &Service{
		licenses:     licenses,
		policies:     policies,
		usage:        usage,
		restrictions: restrictions,
		fingerprints: fingerprints,
		rateLimit:    DefaultRateLimitPerHour,
		logger:       slog.Default(),
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Validate is the periodic check-in. A domain not yet activated is activated if the
// license has room for it.
func (s *Service) Validate(ctx context.Context, req *models.CheckRequest) (*models.Result, error) {
	return s.check(ctx, opValidate, req)
}

// Activate runs the same pipeline as Validate for explicit activation requests.
func (s *Service) Activate(ctx context.Context, req *models.CheckRequest) (*models.Result, error) {
	return s.check(ctx, opActivate, req)
}

// Verify checks a license against a domain without activating it. A domain that is
// not already activated yields DOMAIN_NOT_ACTIVATED.
func (s *Service) Verify(ctx context.Context, req *models.CheckRequest) (*models.Result, error) {
	return s.check(ctx, opVerify, req)
}

// Deactivate removes domain from the license, freeing one activation slot.
func (s *Service) Deactivate(ctx context.Context, key, domain string) (models.DeactivationResult, error) {
	key = strings.TrimSpace(key)
	domain = domainclass.Normalize(domain)
	if key == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "license_key is required")
	}
	if domain == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "domain is required")
	}

	if err := s.admit(ctx, key); err != nil {
		return "", err
	}

	res, err := s.licenses.DeactivateDomain(ctx, key, domain)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate domain")
	}
	if res == models.DeactivationRemoved {
		ports.LogAudit(ctx, s.logger, "domain_deactivated",
			"license_key", maskKey(key),
			"domain", domain,
		)
	}
	return res, nil
}

// Info returns the license, its effective policy and any restriction state.
func (s *Service) Info(ctx context.Context, key string) (*models.LicenseInfo, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "license_key is required")
	}
	if err := s.admit(ctx, key); err != nil {
		return nil, err
	}
	record, err := s.licenses.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load license")
	}
	policy, err := s.policyFor(ctx, record)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load license type")
	}
	restriction, err := s.restrictions.Get(ctx, key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load restriction state")
	}
	return &models.LicenseInfo{License: record, Policy: policy, Restriction: restriction}, nil
}

// gate returns the restricted result for a caller under an active restriction,
// either on the license itself or on the caller's unknown-key bucket. It runs
// before the license lookup so a restricted caller learns nothing about the key.
func (s *Service) gate(ctx context.Context, key, ip string, now time.Time) (*models.Result, error) {
	keys := []string{key}
	if ip != "" {
		keys = append(keys, models.UnknownLicenseKey(ip))
	}
	for _, k := range keys {
		state, err := s.restrictions.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if kind, until, active := state.ActiveAt(now); active {
			return models.Restricted(kind, until), nil
		}
	}
	return nil, nil
}

// admit applies the restriction gate to the non check-in operations.
func (s *Service) admit(ctx context.Context, key string) error {
	restricted, err := s.gate(ctx, key, requestcontext.ClientIP(ctx), requestcontext.Now(ctx))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load restriction state")
	}
	if restricted != nil {
		return dErrors.New(dErrors.CodeRestricted, restricted.Message)
	}
	return nil
}

// policyFor resolves the license type. Licenses without a type, or whose type has
// been removed from the catalog, fall back to the default policy.
func (s *Service) policyFor(ctx context.Context, record *models.LicenseRecord) (*models.LicenseTypePolicy, error) {
	if record.LicenseTypeID == nil || s.policies == nil {
		return models.DefaultPolicy(), nil
	}
	policy, err := s.policies.Get(ctx, *record.LicenseTypeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "license type not found, using default policy",
				"license_key", maskKey(record.Key),
				"license_type_id", *record.LicenseTypeID,
			)
			return models.DefaultPolicy(), nil
		}
		return nil, err
	}
	return policy, nil
}

// maskKey keeps enough of a license key to correlate log lines.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:8] + "****"
}
