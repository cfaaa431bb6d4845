package models

import (
	"strings"

	dErrors "licenseguard/pkg/domain-errors"
)

// ClientMeta describes the remote caller of a check-in.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// CheckRequest is the engine input for validate/activate/verify.
// SiteMetadata is the fingerprint input; nil means the caller sent none.
type CheckRequest struct {
	LicenseKey   string
	Domain       string
	ProductID    string
	SiteMetadata map[string]string
	Client       ClientMeta
}

// Validate checks required fields.
func (r *CheckRequest) Validate() error {
	if strings.TrimSpace(r.LicenseKey) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "license_key is required")
	}
	if strings.TrimSpace(r.Domain) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "domain is required")
	}
	return nil
}

// LicenseInfo is the read-only snapshot returned by the info operation.
type LicenseInfo struct {
	License     *LicenseRecord     `json:"license"`
	Policy      *LicenseTypePolicy `json:"policy"`
	Restriction *RestrictionState  `json:"restriction,omitempty"`
}
