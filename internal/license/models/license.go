package models

import (
	"slices"
	"time"

	dErrors "licenseguard/pkg/domain-errors"
)

// UnlimitedActivations is the activation-limit sentinel for licenses without a domain cap.
const UnlimitedActivations = -1

// UnknownLicenseBucket is the usage key that absorbs check-ins for keys that do not exist
// when the caller's address is not known. It is never restricted.
const UnknownLicenseBucket = "__unknown__"

// UnknownLicenseKey is the usage key for check-ins with keys that do not exist,
// partitioned by caller IP so a client guessing keys trips the rules and can be
// restricted like any license.
func UnknownLicenseKey(ip string) string {
	if ip == "" {
		return UnknownLicenseBucket
	}
	return UnknownLicenseBucket + ":" + ip
}

// Status is the lifecycle status of a license.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
)

// IsValid checks if the status is one of the supported enum values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired, StatusSuspended:
		return true
	}
	return false
}

// LicenseRecord is the engine's view of an issued license.
// Issuance and administrative edits happen outside the engine; the engine only
// mutates ActivatedDomains and Fingerprints.
type LicenseRecord struct {
	Key              string            `json:"key"`
	Status           Status            `json:"status"`
	ProductID        string            `json:"product_id"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
	ActivationLimit  int               `json:"activation_limit"`
	ActivatedDomains []string          `json:"activated_domains"`
	Fingerprints     map[string]string `json:"fingerprints,omitempty"`
	LicenseTypeID    *int64            `json:"license_type_id,omitempty"`
	Version          int64             `json:"version"`
}

// NewLicenseRecord creates a LicenseRecord with domain invariant validation.
func NewLicenseRecord(key, productID string, status Status, activationLimit int, expiry *time.Time) (*LicenseRecord, error) {
	if key == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "license key cannot be empty")
	}
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid license status")
	}
	if activationLimit < 1 && activationLimit != UnlimitedActivations {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "activation limit must be at least 1 or unlimited")
	}
	return &LicenseRecord{
		Key:              key,
		Status:           status,
		ProductID:        productID,
		ExpiryDate:       expiry,
		ActivationLimit:  activationLimit,
		ActivatedDomains: []string{},
		Fingerprints:     map[string]string{},
	}, nil
}

// IsUnlimited reports whether the license has no activation cap.
func (l *LicenseRecord) IsUnlimited() bool {
	return l.ActivationLimit == UnlimitedActivations
}

// HasDomain reports whether domain is already activated.
func (l *LicenseRecord) HasDomain(domain string) bool {
	return slices.Contains(l.ActivatedDomains, domain)
}

// HasCapacity reports whether one more distinct domain fits under the limit.
func (l *LicenseRecord) HasCapacity() bool {
	return l.IsUnlimited() || len(l.ActivatedDomains) < l.ActivationLimit
}

// RemainingActivations returns the free slots, or UnlimitedActivations.
func (l *LicenseRecord) RemainingActivations() int {
	if l.IsUnlimited() {
		return UnlimitedActivations
	}
	return max(0, l.ActivationLimit-len(l.ActivatedDomains))
}

// IsExpiredAt reports whether the expiry date lies before now. Perpetual licenses never expire.
func (l *LicenseRecord) IsExpiredAt(now time.Time) bool {
	return l.ExpiryDate != nil && l.ExpiryDate.Before(now)
}

// BoundFingerprint returns the fingerprint bound to domain, if any.
func (l *LicenseRecord) BoundFingerprint(domain string) (string, bool) {
	fp, ok := l.Fingerprints[domain]
	return fp, ok && fp != ""
}

// Clone returns a deep copy so stores never hand out shared mutable state.
func (l *LicenseRecord) Clone() *LicenseRecord {
	if l == nil {
		return nil
	}
	c := *l
	c.ActivatedDomains = slices.Clone(l.ActivatedDomains)
	if c.ActivatedDomains == nil {
		c.ActivatedDomains = []string{}
	}
	c.Fingerprints = make(map[string]string, len(l.Fingerprints))
	for k, v := range l.Fingerprints {
		c.Fingerprints[k] = v
	}
	if l.ExpiryDate != nil {
		t := *l.ExpiryDate
		c.ExpiryDate = &t
	}
	if l.LicenseTypeID != nil {
		id := *l.LicenseTypeID
		c.LicenseTypeID = &id
	}
	return &c
}

// ActivationRequest asks the store to add Domain to a license's activation set.
// Apex is set when Domain is a subdomain; the store then enforces MaxSubdomains for
// that apex in the same atomic step as the activation limit.
type ActivationRequest struct {
	Domain        string
	Apex          string
	MaxSubdomains int
}

// ActivationResult is the outcome of an atomic activation attempt.
type ActivationResult string

const (
	ActivationActivated              ActivationResult = "activated"
	ActivationAlreadyActive          ActivationResult = "already_active"
	ActivationLimitExceeded          ActivationResult = "limit_exceeded"
	ActivationSubdomainLimitExceeded ActivationResult = "subdomain_limit_exceeded"
)

// DeactivationResult is the outcome of removing a domain.
type DeactivationResult string

const (
	DeactivationRemoved    DeactivationResult = "removed"
	DeactivationNotPresent DeactivationResult = "not_present"
)
