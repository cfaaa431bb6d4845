package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"licenseguard/internal/license/domainclass"
	"licenseguard/internal/license/fingerprint"
	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
	dErrors "licenseguard/pkg/domain-errors"
	"licenseguard/pkg/platform/sentinel"
	strs "licenseguard/pkg/platform/strings"
	"licenseguard/pkg/requestcontext"
)

type operation string

const (
	opValidate operation = "validate"
	opActivate operation = "activate"
	opVerify   operation = "verify"
)

// rateWindow is the sliding window for the per-domain ceiling.
const rateWindow = time.Hour

// checkIn carries one request through the pipeline.
type checkIn struct {
	op     operation
	req    *models.CheckRequest
	key    string // usage bucket; the caller's unknown-key bucket once lookup fails
	domain string
	now    time.Time

	// incidents raised by the pipeline itself, recorded alongside detector output
	incidents []*models.Incident
}

func (s *Service) check(ctx context.Context, op operation, req *models.CheckRequest) (*models.Result, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	c := &checkIn{
		op:     op,
		req:    req,
		key:    strings.TrimSpace(req.LicenseKey),
		domain: domainclass.Normalize(req.Domain),
		now:    requestcontext.Now(ctx),
	}
	if c.domain == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "domain is invalid")
	}

	ctx, span := s.tracer.Start(ctx, "license."+string(op), trace.WithAttributes(
		attribute.String("license.operation", string(op)),
		attribute.String("license.key_prefix", maskKey(c.key)),
		attribute.String("license.domain", c.domain),
	))
	defer span.End()

	result := s.run(ctx, c)
	s.finish(ctx, c, result)

	span.SetAttributes(
		attribute.String("license.code", string(result.Code)),
		attribute.Bool("license.valid", result.Valid),
	)
	if result.Code == models.CodeSystemError {
		span.SetStatus(codes.Error, result.Message)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	s.metrics.ObserveCheck(string(op), string(result.Code), time.Since(start))
	return result, nil
}

func (s *Service) run(ctx context.Context, c *checkIn) *models.Result {
	restricted, err := s.gate(ctx, c.key, c.req.Client.IPAddress, c.now)
	if err != nil {
		return s.systemError(ctx, c, "restriction lookup", err)
	}
	if restricted != nil {
		return restricted
	}

	record, err := s.licenses.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.key = models.UnknownLicenseKey(c.req.Client.IPAddress)
			return models.Reject(models.CodeInvalidLicense)
		}
		return s.systemError(ctx, c, "license lookup", err)
	}

	if record.IsExpiredAt(c.now) || record.Status == models.StatusExpired {
		return models.Reject(models.CodeLicenseExpired)
	}
	if record.Status != models.StatusActive {
		return models.Reject(models.CodeLicenseInactive)
	}
	if product := strings.TrimSpace(c.req.ProductID); product != "" && product != record.ProductID {
		return models.Reject(models.CodeProductMismatch)
	}

	recent, err := s.usage.CountSince(ctx, c.key, c.domain, rateWindow)
	if err != nil {
		return s.systemError(ctx, c, "rate limit", err)
	}
	if recent >= s.rateLimit {
		return models.Reject(models.CodeRateLimitExceeded)
	}

	policy, err := s.policyFor(ctx, record)
	if err != nil {
		return s.systemError(ctx, c, "policy lookup", err)
	}
	class := domainclass.Classify(c.domain)
	if class.Kind == domainclass.LocalOrStaging && !policy.AllowsLocal(class.Staging) {
		return models.Reject(models.CodeLocalhostNotAllowed)
	}

	activated := record.HasDomain(c.domain)
	switch {
	case activated:
	case c.op == opVerify:
		return models.Reject(models.CodeDomainNotActivated)
	default:
		s.noteDomainChange(ctx, c, record, policy)
		if class.Kind == domainclass.Subdomain && !policy.SubdomainsUnlimited() &&
			domainclass.SubdomainsOf(class.Apex, record.ActivatedDomains) >= policy.MaxSubdomains {
			return models.Reject(models.CodeSubdomainLimitExceeded)
		}
		if res := s.activate(ctx, c, record, class, policy); res != nil {
			return res
		}
	}

	if res := s.checkFingerprint(ctx, c, record); res != nil {
		return res
	}
	return s.accept(ctx, c, record, policy)
}

// noteDomainChange raises an incident when a single-site license is presented
// for a new domain while another one is still activated.
func (s *Service) noteDomainChange(ctx context.Context, c *checkIn, record *models.LicenseRecord, policy *models.LicenseTypePolicy) {
	if policy.MaxDomains != 1 || len(record.ActivatedDomains) == 0 {
		return
	}
	inc, err := models.NewIncident(c.key, models.IncidentDomainChangeSingleLicense, models.SeverityHigh,
		fmt.Sprintf("single-site license presented for %s while activated on %s", c.domain, strings.Join(record.ActivatedDomains, ", ")),
		c.req.Client.IPAddress, c.now, map[string]any{
			"previous_domains": slices.Clone(record.ActivatedDomains),
			"new_domain":       c.domain,
		})
	if err != nil {
		s.monitoringFailed(ctx, c, err)
		return
	}
	c.incidents = append(c.incidents, inc)
}

// activate adds the domain through the store's atomic primitive and updates the
// local snapshot on success. It returns nil when the pipeline should continue.
func (s *Service) activate(ctx context.Context, c *checkIn, record *models.LicenseRecord, class domainclass.Classification, policy *models.LicenseTypePolicy) *models.Result {
	req := models.ActivationRequest{Domain: c.domain, MaxSubdomains: models.UnlimitedSubdomains}
	if class.Kind == domainclass.Subdomain {
		req.Apex = class.Apex
		req.MaxSubdomains = policy.MaxSubdomains
	}

	res, err := s.licenses.TryActivateDomain(ctx, c.key, req)
	if err != nil {
		return s.systemError(ctx, c, "activation", err)
	}
	switch res {
	case models.ActivationLimitExceeded:
		return models.Reject(models.CodeActivationLimitExceeded)
	case models.ActivationSubdomainLimitExceeded:
		return models.Reject(models.CodeSubdomainLimitExceeded)
	case models.ActivationActivated:
		record.ActivatedDomains = append(record.ActivatedDomains, c.domain)
		ports.LogAudit(ctx, s.logger, "domain_activated",
			"license_key", maskKey(c.key),
			"domain", c.domain,
			"remaining_activations", record.RemainingActivations(),
		)
	case models.ActivationAlreadyActive:
		// a concurrent request activated it first
	}
	return nil
}

// checkFingerprint compares against a bound fingerprint or binds the supplied one.
// A mismatch never undoes the activation; it raises an incident instead.
func (s *Service) checkFingerprint(ctx context.Context, c *checkIn, record *models.LicenseRecord) *models.Result {
	if c.req.SiteMetadata == nil {
		return nil
	}
	meta := fingerprint.SiteMetadata(c.req.SiteMetadata)

	if bound, ok := record.BoundFingerprint(c.domain); ok {
		if s.fingerprints.Verify(bound, c.domain, meta) {
			return nil
		}
		inc, err := models.NewIncident(c.key, models.IncidentFingerprintMismatch, models.SeverityHigh,
			"site fingerprint does not match the fingerprint bound at activation",
			c.req.Client.IPAddress, c.now, map[string]any{"domain": c.domain})
		if err != nil {
			s.monitoringFailed(ctx, c, err)
		} else {
			c.incidents = append(c.incidents, inc)
		}
		return models.Reject(models.CodeFingerprintMismatch)
	}

	err := s.licenses.BindFingerprint(ctx, c.key, c.domain, s.fingerprints.Generate(c.domain, meta))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrInvalidState):
		// deactivated between activation and binding
		return models.Reject(models.CodeDomainNotActivated)
	default:
		return s.systemError(ctx, c, "fingerprint binding", err)
	}
}

func (s *Service) accept(ctx context.Context, c *checkIn, record *models.LicenseRecord, policy *models.LicenseTypePolicy) *models.Result {
	payload := &models.Payload{
		LicenseKey:           record.Key,
		ProductID:            record.ProductID,
		RemainingActivations: record.RemainingActivations(),
		Unlimited:            record.IsUnlimited(),
		ExpiryDate:           record.ExpiryDate,
		Features:             strs.Tokens(policy.Features),
		ServerTime:           c.now.UTC(),
		NextCheckTime:        c.now.UTC().Add(time.Duration(policy.CheckInterval()) * time.Hour),
	}
	if s.signer != nil {
		token, err := s.signer.Sign(c.domain, payload)
		if err != nil {
			return s.systemError(ctx, c, "payload signing", err)
		}
		payload.Signature = token
	}
	return models.Accept(payload)
}

// systemError fails closed: a storage failure never lets a check-in through.
func (s *Service) systemError(ctx context.Context, c *checkIn, stage string, err error) *models.Result {
	s.logger.ErrorContext(ctx, "license check failed",
		"stage", stage,
		"operation", string(c.op),
		"license_key", maskKey(c.key),
		"domain", c.domain,
		"error", err,
	)
	trace.SpanFromContext(ctx).RecordError(err)
	return models.Reject(models.CodeSystemError)
}
