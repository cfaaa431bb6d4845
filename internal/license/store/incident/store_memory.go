package incident

import (
	"context"
	"sync"

	"licenseguard/internal/license/models"
)

// InMemoryStore is an append-only incident log.
type InMemoryStore struct {
	mu        sync.RWMutex
	incidents []*models.Incident
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, incident *models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *incident
	s.incidents = append(s.incidents, &c)
	return nil
}

// ListByLicense returns the newest incidents for key first; limit <= 0 returns all.
func (s *InMemoryStore) ListByLicense(_ context.Context, key string, limit int) ([]*models.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Incident
	for i := len(s.incidents) - 1; i >= 0; i-- {
		if s.incidents[i].LicenseKey != key {
			continue
		}
		c := *s.incidents[i]
		out = append(out, &c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// All returns every recorded incident in append order.
func (s *InMemoryStore) All() []*models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Incident, len(s.incidents))
	for i, inc := range s.incidents {
		c := *inc
		out[i] = &c
	}
	return out
}
