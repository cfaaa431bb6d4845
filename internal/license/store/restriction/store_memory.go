package restriction

import (
	"context"
	"sync"
	"time"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/requestcontext"
)

// InMemoryStore keeps restriction state per license key.
type InMemoryStore struct {
	mu     sync.RWMutex
	states map[string]*models.RestrictionState
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{states: make(map[string]*models.RestrictionState)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (*models.RestrictionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[key].Clone(), nil
}

func (s *InMemoryStore) Restrict(ctx context.Context, key string, kind models.RestrictionKind, until time.Time) (*models.RestrictionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getOrCreate(key)
	slot := &state.ThrottledUntil
	if kind == models.RestrictionBlock {
		slot = &state.BlockedUntil
	}
	if *slot == nil || until.After(**slot) {
		t := until
		*slot = &t
	}
	state.UpdatedAt = requestcontext.Now(ctx)
	return state.Clone(), nil
}

func (s *InMemoryStore) Flag(_ context.Context, key, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.getOrCreate(key)
	state.FlaggedForReview = true
	state.FlagReason = reason
	t := at
	state.FlaggedAt = &t
	state.UpdatedAt = at
	return nil
}

func (s *InMemoryStore) ListExpired(_ context.Context, now time.Time) ([]*models.RestrictionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.RestrictionState
	for _, state := range s.states {
		if len(state.ExpiredKinds(now)) > 0 {
			out = append(out, state.Clone())
		}
	}
	return out, nil
}

func (s *InMemoryStore) ClearExpired(_ context.Context, key string, kind models.RestrictionKind, now time.Time) (bool, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[key]
	if !ok {
		return false, time.Time{}, nil
	}
	slot := &state.ThrottledUntil
	if kind == models.RestrictionBlock {
		slot = &state.BlockedUntil
	}
	if *slot == nil || (*slot).After(now) {
		return false, time.Time{}, nil
	}
	expiredAt := **slot
	*slot = nil
	state.UpdatedAt = now
	return true, expiredAt, nil
}

func (s *InMemoryStore) ClearAll(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

// getOrCreate must be called while holding s.mu.
func (s *InMemoryStore) getOrCreate(key string) *models.RestrictionState {
	state, ok := s.states[key]
	if !ok {
		state = &models.RestrictionState{LicenseKey: key}
		s.states[key] = state
	}
	return state
}
