package models

import (
	"time"

	dErrors "licenseguard/pkg/domain-errors"
)

// UsageRecord aggregates check-ins for one (license, domain) pair.
type UsageRecord struct {
	LicenseKey string    `json:"license_key"`
	Domain     string    `json:"domain"`
	LastCheck  time.Time `json:"last_check"`
	CheckCount int64     `json:"check_count"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Status     Code      `json:"status"`
}

// CheckEvent is a single recorded check-in. Sliding-window queries count these.
type CheckEvent struct {
	LicenseKey string
	Domain     string
	IPAddress  string
	UserAgent  string
	Outcome    Code
	At         time.Time
}

// NewCheckEvent creates a CheckEvent with domain invariant validation.
func NewCheckEvent(licenseKey, domain, ip, userAgent string, outcome Code, at time.Time) (*CheckEvent, error) {
	if licenseKey == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "license key cannot be empty")
	}
	if outcome == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "outcome cannot be empty")
	}
	if at.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "check time cannot be zero")
	}
	return &CheckEvent{
		LicenseKey: licenseKey,
		Domain:     domain,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Outcome:    outcome,
		At:         at,
	}, nil
}

// Failed reports whether the check-in was rejected.
func (e *CheckEvent) Failed() bool {
	return e.Outcome != CodeValid
}

// Windowed reports whether the check-in feeds the sliding windows. Rejections
// caused by an active restriction only update the aggregate record, so a
// client that keeps polling while throttled cannot re-arm the rules.
func (e *CheckEvent) Windowed() bool {
	return e.Outcome != CodeLicenseRestricted
}

// Apply folds the event into the aggregate record.
func (r *UsageRecord) Apply(e *CheckEvent) {
	r.LicenseKey = e.LicenseKey
	r.Domain = e.Domain
	r.LastCheck = e.At
	r.CheckCount++
	r.IPAddress = e.IPAddress
	r.UserAgent = e.UserAgent
	r.Status = e.Outcome
}
