package policy

import (
	"context"
	"slices"
	"sync"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
)

// Seed IDs of the built-in license types.
const (
	PersonalID int64 = iota + 1
	BusinessID
	DeveloperID
	LifetimeID
)

// Defaults returns the built-in license type catalog.
func Defaults() []*models.LicenseTypePolicy {
	return []*models.LicenseTypePolicy{
		{
			ID: PersonalID, Slug: "personal", Name: "Personal",
			MaxDomains: 1, MaxSubdomains: 0,
			AllowLocalhost: true, AllowStaging: true,
			CheckIntervalHours: 24,
			Features:           []string{"updates", "support"},
		},
		{
			ID: BusinessID, Slug: "business", Name: "Business",
			MaxDomains: 5, MaxSubdomains: 2,
			AllowLocalhost: true, AllowStaging: true,
			CheckIntervalHours: 24,
			Features:           []string{"updates", "support", "premium_addons"},
		},
		{
			ID: DeveloperID, Slug: "developer", Name: "Developer",
			MaxDomains: models.UnlimitedActivations, MaxSubdomains: models.UnlimitedSubdomains,
			AllowLocalhost: true, AllowStaging: true,
			CheckIntervalHours: 24,
			Features:           []string{"updates", "support", "premium_addons", "white_label"},
		},
		{
			ID: LifetimeID, Slug: "lifetime", Name: "Lifetime",
			MaxDomains: 3, MaxSubdomains: 1,
			AllowLocalhost: true, AllowStaging: true,
			CheckIntervalHours: 168,
			Features:           []string{"updates", "support", "lifetime_access"},
		},
	}
}

// InMemoryCatalog is a read-mostly catalog keyed by license type ID.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	policies map[int64]*models.LicenseTypePolicy
}

// NewInMemory returns a catalog seeded with policies; pass Defaults() for the built-in set.
func NewInMemory(policies ...*models.LicenseTypePolicy) *InMemoryCatalog {
	c := &InMemoryCatalog{policies: make(map[int64]*models.LicenseTypePolicy, len(policies))}
	for _, p := range policies {
		c.policies[p.ID] = clonePolicy(p)
	}
	return c
}

func (c *InMemoryCatalog) Put(_ context.Context, p *models.LicenseTypePolicy) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies[p.ID] = clonePolicy(p)
	return nil
}

func (c *InMemoryCatalog) Get(_ context.Context, id int64) (*models.LicenseTypePolicy, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.policies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clonePolicy(p), nil
}

func clonePolicy(p *models.LicenseTypePolicy) *models.LicenseTypePolicy {
	c := *p
	c.Features = slices.Clone(p.Features)
	return &c
}
