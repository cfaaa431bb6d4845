// Package detector evaluates sliding-window abuse rules after each check-in.
package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mssola/useragent"

	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
)

// Config holds rule thresholds. A rule fires when the measured count is strictly
// greater than its threshold.
type Config struct {
	ExcessiveChecks     int
	ChecksWindow        time.Duration
	DomainsPerIP        int
	DomainsWindow       time.Duration
	IPsPerLicense       int
	IPsWindow           time.Duration
	ExcessiveFailures   int
	FailuresWindow      time.Duration
	UserAgentsPerDomain int
	UserAgentsWindow    time.Duration
	ProductMismatches   int
	MismatchWindow      time.Duration
}

func DefaultConfig() Config {
	return Config{
		ExcessiveChecks:     10,
		ChecksWindow:        time.Hour,
		DomainsPerIP:        5,
		DomainsWindow:       24 * time.Hour,
		IPsPerLicense:       5,
		IPsWindow:           time.Hour,
		ExcessiveFailures:   10,
		FailuresWindow:      time.Hour,
		UserAgentsPerDomain: 3,
		UserAgentsWindow:    24 * time.Hour,
		ProductMismatches:   5,
		MismatchWindow:      24 * time.Hour,
	}
}

// LongestWindow is the retention a usage tracker needs to answer every rule.
func (c Config) LongestWindow() time.Duration {
	longest := c.ChecksWindow
	for _, w := range []time.Duration{c.DomainsWindow, c.IPsWindow, c.FailuresWindow, c.UserAgentsWindow, c.MismatchWindow} {
		longest = max(longest, w)
	}
	return longest
}

type Detector struct {
	usage  ports.UsageTracker
	cfg    Config
	logger *slog.Logger
}

type Option func(*Detector)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		d.logger = logger
	}
}

func WithConfig(cfg Config) Option {
	return func(d *Detector) {
		d.cfg = cfg
	}
}

func New(usage ports.UsageTracker, opts ...Option) (*Detector, error) {
	if usage == nil {
		return nil, errors.New("usage tracker is required")
	}
	d := &Detector{usage: usage, cfg: DefaultConfig(), logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

type rule struct {
	typ       models.IncidentType
	severity  models.Severity
	threshold int
	window    time.Duration
	// applies limits the rule to some check-ins; nil means every check-in
	applies  func(e *models.CheckEvent) bool
	measure  func(ctx context.Context, e *models.CheckEvent, window time.Duration) (int, error)
	describe func(e *models.CheckEvent, count int) string
}

func (d *Detector) rules() []rule {
	return []rule{
		{
			typ: models.IncidentExcessiveChecks, severity: models.SeverityHigh,
			threshold: d.cfg.ExcessiveChecks, window: d.cfg.ChecksWindow,
			measure: func(ctx context.Context, e *models.CheckEvent, w time.Duration) (int, error) {
				return d.usage.CountSince(ctx, e.LicenseKey, e.Domain, w)
			},
			describe: func(e *models.CheckEvent, n int) string {
				return fmt.Sprintf("%d license checks from %s within %s", n, e.Domain, d.cfg.ChecksWindow)
			},
		},
		{
			typ: models.IncidentMultipleDomainsSameIP, severity: models.SeverityMedium,
			threshold: d.cfg.DomainsPerIP, window: d.cfg.DomainsWindow,
			measure: func(ctx context.Context, e *models.CheckEvent, w time.Duration) (int, error) {
				return d.usage.DistinctDomainsForIP(ctx, e.IPAddress, w)
			},
			describe: func(e *models.CheckEvent, n int) string {
				return fmt.Sprintf("IP %s checked in for %d domains within %s", e.IPAddress, n, d.cfg.DomainsWindow)
			},
		},
		{
			typ: models.IncidentMultipleIPsPerLicense, severity: models.SeverityHigh,
			threshold: d.cfg.IPsPerLicense, window: d.cfg.IPsWindow,
			measure: func(ctx context.Context, e *models.CheckEvent, w time.Duration) (int, error) {
				return d.usage.DistinctIPsForLicense(ctx, e.LicenseKey, w)
			},
			describe: func(_ *models.CheckEvent, n int) string {
				return fmt.Sprintf("license used from %d IP addresses within %s", n, d.cfg.IPsWindow)
			},
		},
		{
			typ: models.IncidentExcessiveFailures, severity: models.SeverityMedium,
			threshold: d.cfg.ExcessiveFailures, window: d.cfg.FailuresWindow,
			measure: func(ctx context.Context, e *models.CheckEvent, w time.Duration) (int, error) {
				return d.usage.CountFailuresSince(ctx, e.LicenseKey, w)
			},
			describe: func(_ *models.CheckEvent, n int) string {
				return fmt.Sprintf("%d failed license checks within %s", n, d.cfg.FailuresWindow)
			},
		},
		{
			typ: models.IncidentUserAgentChange, severity: models.SeverityLow,
			threshold: d.cfg.UserAgentsPerDomain, window: d.cfg.UserAgentsWindow,
			applies: func(e *models.CheckEvent) bool { return e.UserAgent != "" },
			measure: func(ctx context.Context, e *models.CheckEvent, w time.Duration) (int, error) {
				return d.usage.DistinctUserAgents(ctx, e.LicenseKey, e.Domain, w)
			},
			describe: func(e *models.CheckEvent, n int) string {
				return fmt.Sprintf("%d different user agents for %s within %s", n, e.Domain, d.cfg.UserAgentsWindow)
			},
		},
		{
			typ: models.IncidentRepeatedProductMismatch, severity: models.SeverityHigh,
			threshold: d.cfg.ProductMismatches, window: d.cfg.MismatchWindow,
			applies: func(e *models.CheckEvent) bool { return e.Outcome == models.CodeProductMismatch },
			measure: func(ctx context.Context, e *models.CheckEvent, w time.Duration) (int, error) {
				return d.usage.CountOutcomeSince(ctx, e.LicenseKey, models.CodeProductMismatch, w)
			},
			describe: func(_ *models.CheckEvent, n int) string {
				return fmt.Sprintf("%d product mismatches within %s", n, d.cfg.MismatchWindow)
			},
		},
	}
}

// Evaluate runs every rule against the recorded check-in. Rules are independent: a
// rule whose query fails is logged and skipped, and the joined query errors are
// returned next to whatever incidents the other rules produced.
func (d *Detector) Evaluate(ctx context.Context, event *models.CheckEvent) ([]*models.Incident, error) {
	var (
		incidents []*models.Incident
		errs      []error
	)
	for _, r := range d.rules() {
		if r.applies != nil && !r.applies(event) {
			continue
		}
		count, err := r.measure(ctx, event, r.window)
		if err != nil {
			d.logger.WarnContext(ctx, "abuse rule evaluation failed",
				"rule", string(r.typ),
				"license_key", event.LicenseKey,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", r.typ, err))
			continue
		}
		if count <= r.threshold {
			continue
		}
		inc, err := models.NewIncident(event.LicenseKey, r.typ, r.severity, r.describe(event, count),
			event.IPAddress, event.At, d.evidence(event, count, r))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.typ, err))
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents, errors.Join(errs...)
}

func (d *Detector) evidence(e *models.CheckEvent, count int, r rule) map[string]any {
	data := map[string]any{
		"count":     count,
		"threshold": r.threshold,
		"window":    r.window.String(),
		"domain":    e.Domain,
		"outcome":   string(e.Outcome),
	}
	for k, v := range ClientDetails(e.UserAgent) {
		data[k] = v
	}
	return data
}

// ClientDetails summarizes a user agent for incident evidence.
func ClientDetails(userAgent string) map[string]any {
	if userAgent == "" {
		return map[string]any{}
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	return map[string]any{
		"user_agent":     userAgent,
		"client_name":    name,
		"client_version": version,
		"client_os":      ua.OS(),
		"client_bot":     ua.Bot(),
	}
}
