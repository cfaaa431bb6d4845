package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "licenseguard/pkg/domain-errors"
)

// IncidentType is open-ended; the constants below are the ones the engine emits.
type IncidentType string

const (
	IncidentExcessiveChecks       IncidentType = "excessive_checks"
	IncidentMultipleDomainsSameIP IncidentType = "multiple_domains_same_ip"
	IncidentMultipleIPsPerLicense IncidentType = "multiple_ips_per_license"
	IncidentFingerprintMismatch   IncidentType = "fingerprint_mismatch"
	IncidentExcessiveFailures     IncidentType = "excessive_failures"

	IncidentDomainChangeSingleLicense IncidentType = "domain_change_single_license"
	IncidentUserAgentChange           IncidentType = "user_agent_change"
	IncidentRepeatedProductMismatch   IncidentType = "repeated_product_mismatch"

	IncidentThrottleAutoCleared IncidentType = "throttle_auto_cleared"
	IncidentBlockAutoCleared    IncidentType = "block_auto_cleared"
	IncidentRestrictionLifted   IncidentType = "restriction_lifted"
)

// AutoClearedIncident returns the audit incident type for a swept restriction.
func AutoClearedIncident(kind RestrictionKind) IncidentType {
	if kind == RestrictionBlock {
		return IncidentBlockAutoCleared
	}
	return IncidentThrottleAutoCleared
}

// Severity grades an incident.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Incident is a write-once audit record of detected anomalous usage.
type Incident struct {
	ID             uuid.UUID      `json:"id"`
	LicenseKey     string         `json:"license_key"`
	Type           IncidentType   `json:"type"`
	Severity       Severity       `json:"severity"`
	Description    string         `json:"description"`
	IPAddress      string         `json:"ip_address"`
	Timestamp      time.Time      `json:"timestamp"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

// NewIncident creates an Incident with domain invariant validation.
func NewIncident(licenseKey string, typ IncidentType, severity Severity, description, ip string, at time.Time, data map[string]any) (*Incident, error) {
	if licenseKey == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "license key cannot be empty")
	}
	if typ == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "incident type cannot be empty")
	}
	if !severity.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid incident severity")
	}
	if data == nil {
		data = map[string]any{}
	}
	return &Incident{
		ID:             uuid.New(),
		LicenseKey:     licenseKey,
		Type:           typ,
		Severity:       severity,
		Description:    description,
		IPAddress:      ip,
		Timestamp:      at,
		AdditionalData: data,
	}, nil
}
