package license

import (
	"context"
	"slices"
	"sync"

	"licenseguard/internal/license/domainclass"
	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
)

// InMemoryStore keeps license records in a map guarded by one mutex, so the
// activation check-and-append is a single critical section.
type InMemoryStore struct {
	mu       sync.RWMutex
	licenses map[string]*models.LicenseRecord
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{licenses: make(map[string]*models.LicenseRecord)}
}

// Put inserts or replaces a license record.
func (s *InMemoryStore) Put(_ context.Context, record *models.LicenseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.licenses[record.Key] = record.Clone()
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, key string) (*models.LicenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.licenses[key]; ok {
		return record.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) TryActivateDomain(_ context.Context, key string, req models.ActivationRequest) (models.ActivationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.licenses[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if record.HasDomain(req.Domain) {
		return models.ActivationAlreadyActive, nil
	}
	if !record.HasCapacity() {
		return models.ActivationLimitExceeded, nil
	}
	if req.Apex != "" && req.MaxSubdomains >= 0 &&
		domainclass.SubdomainsOf(req.Apex, record.ActivatedDomains) >= req.MaxSubdomains {
		return models.ActivationSubdomainLimitExceeded, nil
	}

	record.ActivatedDomains = append(record.ActivatedDomains, req.Domain)
	record.Version++
	return models.ActivationActivated, nil
}

func (s *InMemoryStore) DeactivateDomain(_ context.Context, key, domain string) (models.DeactivationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.licenses[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	idx := slices.Index(record.ActivatedDomains, domain)
	if idx < 0 {
		return models.DeactivationNotPresent, nil
	}
	record.ActivatedDomains = slices.Delete(record.ActivatedDomains, idx, idx+1)
	delete(record.Fingerprints, domain)
	record.Version++
	return models.DeactivationRemoved, nil
}

func (s *InMemoryStore) BindFingerprint(_ context.Context, key, domain, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.licenses[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !record.HasDomain(domain) {
		return sentinel.ErrInvalidState
	}
	if _, bound := record.BoundFingerprint(domain); bound {
		return nil
	}
	if record.Fingerprints == nil {
		record.Fingerprints = make(map[string]string)
	}
	record.Fingerprints[domain] = hash
	record.Version++
	return nil
}
