package usage

import (
	"context"
	"slices"
	"sync"
	"time"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
	"licenseguard/pkg/requestcontext"
)

// DefaultRetention covers the longest detector window.
const DefaultRetention = 24 * time.Hour

// InMemoryTracker keeps the aggregate usage records and a time-ordered check log.
// The log is pruned past the retention horizon on every write.
type InMemoryTracker struct {
	mu        sync.RWMutex
	retention time.Duration
	records   map[usageKey]*models.UsageRecord
	events    []models.CheckEvent
}

type usageKey struct {
	license string
	domain  string
}

type Option func(*InMemoryTracker)

// WithRetention overrides how long check events are kept.
func WithRetention(d time.Duration) Option {
	return func(t *InMemoryTracker) {
		if d > 0 {
			t.retention = d
		}
	}
}

func NewInMemory(opts ...Option) *InMemoryTracker {
	t := &InMemoryTracker{
		retention: DefaultRetention,
		records:   make(map[usageKey]*models.UsageRecord),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *InMemoryTracker) RecordCheck(_ context.Context, event *models.CheckEvent) (*models.UsageRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := usageKey{license: event.LicenseKey, domain: event.Domain}
	record, ok := t.records[k]
	if !ok {
		record = &models.UsageRecord{}
		t.records[k] = record
	}
	record.Apply(event)

	if event.Windowed() {
		t.events = append(t.events, *event)
	}
	t.prune(event.At)

	out := *record
	return &out, nil
}

func (t *InMemoryTracker) Get(_ context.Context, key, domain string) (*models.UsageRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	record, ok := t.records[usageKey{license: key, domain: domain}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *record
	return &out, nil
}

func (t *InMemoryTracker) CountSince(ctx context.Context, key, domain string, window time.Duration) (int, error) {
	n := 0
	t.scan(ctx, window, func(e *models.CheckEvent) {
		if e.LicenseKey == key && e.Domain == domain {
			n++
		}
	})
	return n, nil
}

func (t *InMemoryTracker) DistinctDomainsForIP(ctx context.Context, ip string, window time.Duration) (int, error) {
	seen := make(map[string]struct{})
	t.scan(ctx, window, func(e *models.CheckEvent) {
		if e.IPAddress == ip {
			seen[e.Domain] = struct{}{}
		}
	})
	return len(seen), nil
}

func (t *InMemoryTracker) DistinctIPsForLicense(ctx context.Context, key string, window time.Duration) (int, error) {
	seen := make(map[string]struct{})
	t.scan(ctx, window, func(e *models.CheckEvent) {
		if e.LicenseKey == key {
			seen[e.IPAddress] = struct{}{}
		}
	})
	return len(seen), nil
}

func (t *InMemoryTracker) CountFailuresSince(ctx context.Context, key string, window time.Duration) (int, error) {
	n := 0
	t.scan(ctx, window, func(e *models.CheckEvent) {
		if e.LicenseKey == key && e.Failed() {
			n++
		}
	})
	return n, nil
}

func (t *InMemoryTracker) DistinctUserAgents(ctx context.Context, key, domain string, window time.Duration) (int, error) {
	seen := make(map[string]struct{})
	t.scan(ctx, window, func(e *models.CheckEvent) {
		if e.LicenseKey == key && e.Domain == domain && e.UserAgent != "" {
			seen[e.UserAgent] = struct{}{}
		}
	})
	return len(seen), nil
}

func (t *InMemoryTracker) CountOutcomeSince(ctx context.Context, key string, outcome models.Code, window time.Duration) (int, error) {
	n := 0
	t.scan(ctx, window, func(e *models.CheckEvent) {
		if e.LicenseKey == key && e.Outcome == outcome {
			n++
		}
	})
	return n, nil
}

// scan visits events inside [now-window, now]. Events may arrive slightly out of
// order under concurrency, so the whole log is walked.
func (t *InMemoryTracker) scan(ctx context.Context, window time.Duration, visit func(*models.CheckEvent)) {
	now := requestcontext.Now(ctx)
	cutoff := now.Add(-window)

	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.events {
		e := &t.events[i]
		if e.At.Before(cutoff) || e.At.After(now) {
			continue
		}
		visit(e)
	}
}

// prune drops events older than the retention horizon.
// Must be called while holding t.mu.
func (t *InMemoryTracker) prune(now time.Time) {
	cutoff := now.Add(-t.retention)
	t.events = slices.DeleteFunc(t.events, func(e models.CheckEvent) bool {
		return e.At.Before(cutoff)
	})
}
