// Package ports defines shared interfaces for the license module.
// Interfaces are placed here when consumed by multiple services to avoid duplication.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/requestcontext"
)

// LicenseStore is the License Record Accessor.
type LicenseStore interface {
	// Get returns the license or sentinel.ErrNotFound.
	Get(ctx context.Context, key string) (*models.LicenseRecord, error)

	// TryActivateDomain adds a domain under the activation limit and subdomain quota
	// as one indivisible step.
	TryActivateDomain(ctx context.Context, key string, req models.ActivationRequest) (models.ActivationResult, error)

	// DeactivateDomain removes a domain and its fingerprint.
	DeactivateDomain(ctx context.Context, key, domain string) (models.DeactivationResult, error)

	// BindFingerprint binds hash to an activated domain unless one is already bound.
	BindFingerprint(ctx context.Context, key, domain, hash string) error
}

// PolicyCatalog resolves license type policies.
type PolicyCatalog interface {
	// Get returns the policy or sentinel.ErrNotFound.
	Get(ctx context.Context, id int64) (*models.LicenseTypePolicy, error)
}

// UsageTracker records check-ins and answers sliding-window queries.
// Windows end at requestcontext.Now(ctx). Check-ins rejected by an active
// restriction update the aggregate record but are not counted by any window.
type UsageTracker interface {
	RecordCheck(ctx context.Context, event *models.CheckEvent) (*models.UsageRecord, error)
	Get(ctx context.Context, key, domain string) (*models.UsageRecord, error)

	// CountSince counts check-ins for (key, domain).
	CountSince(ctx context.Context, key, domain string, window time.Duration) (int, error)

	// DistinctDomainsForIP counts distinct domains checked in from ip.
	DistinctDomainsForIP(ctx context.Context, ip string, window time.Duration) (int, error)

	// DistinctIPsForLicense counts distinct caller IPs for key.
	DistinctIPsForLicense(ctx context.Context, key string, window time.Duration) (int, error)

	// CountFailuresSince counts rejected check-ins for key.
	CountFailuresSince(ctx context.Context, key string, window time.Duration) (int, error)

	// DistinctUserAgents counts distinct non-empty user agents for (key, domain).
	DistinctUserAgents(ctx context.Context, key, domain string, window time.Duration) (int, error)

	// CountOutcomeSince counts check-ins for key that ended with outcome.
	CountOutcomeSince(ctx context.Context, key string, outcome models.Code, window time.Duration) (int, error)
}

// RestrictionStore owns RestrictionState. All writes are atomic per license key.
type RestrictionStore interface {
	// Get returns the state or nil when the license has never been restricted.
	Get(ctx context.Context, key string) (*models.RestrictionState, error)

	// Restrict sets kind's timestamp to until unless a later one is already set.
	Restrict(ctx context.Context, key string, kind models.RestrictionKind, until time.Time) (*models.RestrictionState, error)

	// Flag marks the license for manual review.
	Flag(ctx context.Context, key, reason string, at time.Time) error

	// ListExpired returns states with at least one elapsed throttle/block.
	ListExpired(ctx context.Context, now time.Time) ([]*models.RestrictionState, error)

	// ClearExpired clears kind only if it is still elapsed at now, returning the cleared expiry.
	ClearExpired(ctx context.Context, key string, kind models.RestrictionKind, now time.Time) (cleared bool, expiredAt time.Time, err error)

	// ClearAll removes throttle, block and review flag (administrative override).
	ClearAll(ctx context.Context, key string) error
}

// IncidentStore is the append-only incident log.
type IncidentStore interface {
	Append(ctx context.Context, incident *models.Incident) error
	ListByLicense(ctx context.Context, key string, limit int) ([]*models.Incident, error)
}

// IncidentRecorder persists an incident and feeds it to the incident stream.
type IncidentRecorder interface {
	Record(ctx context.Context, incident *models.Incident) error
}

// LogAudit is a shared helper for audit lines across license services.
func LogAudit(ctx context.Context, logger *slog.Logger, event string, attrs ...any) {
	if logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", event, "log_type", "audit")
	logger.InfoContext(ctx, event, args...)
}
