package models

// UnlimitedSubdomains disables the per-apex subdomain quota.
const UnlimitedSubdomains = -1

// DefaultCheckIntervalHours applies when a license has no type or the type sets no interval.
const DefaultCheckIntervalHours = 24

// LicenseTypePolicy is a read-only policy owned by the license type catalog.
type LicenseTypePolicy struct {
	ID                 int64    `json:"id"`
	Slug               string   `json:"slug"`
	Name               string   `json:"name"`
	MaxDomains         int      `json:"max_domains"`
	MaxSubdomains      int      `json:"max_subdomains"`
	AllowLocalhost     bool     `json:"allow_localhost"`
	AllowStaging       bool     `json:"allow_staging"`
	CheckIntervalHours int      `json:"check_interval_hours"`
	Features           []string `json:"features"`
}

// DefaultPolicy is applied to licenses without a license type.
func DefaultPolicy() *LicenseTypePolicy {
	return &LicenseTypePolicy{
		Slug:               "default",
		Name:               "Default",
		MaxDomains:         UnlimitedActivations,
		MaxSubdomains:      UnlimitedSubdomains,
		CheckIntervalHours: DefaultCheckIntervalHours,
		Features:           []string{"updates", "support"},
	}
}

// SubdomainsUnlimited reports whether the subdomain quota is disabled.
func (p *LicenseTypePolicy) SubdomainsUnlimited() bool {
	return p.MaxSubdomains < 0
}

// CheckInterval returns the configured interval in hours, falling back to the default.
func (p *LicenseTypePolicy) CheckInterval() int {
	if p.CheckIntervalHours <= 0 {
		return DefaultCheckIntervalHours
	}
	return p.CheckIntervalHours
}

// AllowsLocal reports whether a local or staging domain may activate under this policy.
func (p *LicenseTypePolicy) AllowsLocal(staging bool) bool {
	if staging {
		return p.AllowStaging
	}
	return p.AllowLocalhost
}
