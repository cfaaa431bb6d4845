package license

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) seed(key string, limit int) {
	record, err := models.NewLicenseRecord(key, "plugin-pro", models.StatusActive, limit, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(s.ctx, record))
}

func (s *InMemoryStoreSuite) TestGet() {
	s.Run("missing key returns not found", func() {
		_, err := s.store.Get(s.ctx, "missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned record is a copy", func() {
		s.seed("LIC-COPY", 2)
		got, err := s.store.Get(s.ctx, "LIC-COPY")
		s.Require().NoError(err)
		got.ActivatedDomains = append(got.ActivatedDomains, "tampered.com")

		again, err := s.store.Get(s.ctx, "LIC-COPY")
		s.Require().NoError(err)
		s.Empty(again.ActivatedDomains)
	})
}

func (s *InMemoryStoreSuite) TestTryActivateDomain() {
	s.seed("LIC-1", 2)

	s.Run("activates until the limit", func() {
		res, err := s.store.TryActivateDomain(s.ctx, "LIC-1", models.ActivationRequest{Domain: "a.com"})
		s.Require().NoError(err)
		s.Equal(models.ActivationActivated, res)

		res, err = s.store.TryActivateDomain(s.ctx, "LIC-1", models.ActivationRequest{Domain: "b.com"})
		s.Require().NoError(err)
		s.Equal(models.ActivationActivated, res)

		res, err = s.store.TryActivateDomain(s.ctx, "LIC-1", models.ActivationRequest{Domain: "c.com"})
		s.Require().NoError(err)
		s.Equal(models.ActivationLimitExceeded, res)
	})

	s.Run("already active is idempotent at the limit", func() {
		res, err := s.store.TryActivateDomain(s.ctx, "LIC-1", models.ActivationRequest{Domain: "a.com"})
		s.Require().NoError(err)
		s.Equal(models.ActivationAlreadyActive, res)

		got, err := s.store.Get(s.ctx, "LIC-1")
		s.Require().NoError(err)
		s.Equal([]string{"a.com", "b.com"}, got.ActivatedDomains)
	})

	s.Run("enforces subdomain quota per apex", func() {
		s.seed("LIC-SUB", models.UnlimitedActivations)
		req := func(domain string) models.ActivationRequest {
			return models.ActivationRequest{Domain: domain, Apex: "example.com", MaxSubdomains: 1}
		}
		res, err := s.store.TryActivateDomain(s.ctx, "LIC-SUB", req("a.example.com"))
		s.Require().NoError(err)
		s.Equal(models.ActivationActivated, res)

		res, err = s.store.TryActivateDomain(s.ctx, "LIC-SUB", req("b.example.com"))
		s.Require().NoError(err)
		s.Equal(models.ActivationSubdomainLimitExceeded, res)
	})

	s.Run("unknown license", func() {
		_, err := s.store.TryActivateDomain(s.ctx, "missing", models.ActivationRequest{Domain: "a.com"})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestDeactivateDomain() {
	s.seed("LIC-D", 1)
	_, err := s.store.TryActivateDomain(s.ctx, "LIC-D", models.ActivationRequest{Domain: "a.com"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.BindFingerprint(s.ctx, "LIC-D", "a.com", "hash"))

	res, err := s.store.DeactivateDomain(s.ctx, "LIC-D", "a.com")
	s.Require().NoError(err)
	s.Equal(models.DeactivationRemoved, res)

	got, err := s.store.Get(s.ctx, "LIC-D")
	s.Require().NoError(err)
	s.Empty(got.ActivatedDomains)
	s.Empty(got.Fingerprints)

	res, err = s.store.DeactivateDomain(s.ctx, "LIC-D", "a.com")
	s.Require().NoError(err)
	s.Equal(models.DeactivationNotPresent, res)

	// freed slot is reusable
	act, err := s.store.TryActivateDomain(s.ctx, "LIC-D", models.ActivationRequest{Domain: "b.com"})
	s.Require().NoError(err)
	s.Equal(models.ActivationActivated, act)
}

func (s *InMemoryStoreSuite) TestBindFingerprint() {
	s.seed("LIC-FP", 1)
	_, err := s.store.TryActivateDomain(s.ctx, "LIC-FP", models.ActivationRequest{Domain: "a.com"})
	s.Require().NoError(err)

	s.Run("first bind wins", func() {
		s.Require().NoError(s.store.BindFingerprint(s.ctx, "LIC-FP", "a.com", "first"))
		s.Require().NoError(s.store.BindFingerprint(s.ctx, "LIC-FP", "a.com", "second"))

		got, err := s.store.Get(s.ctx, "LIC-FP")
		s.Require().NoError(err)
		fp, ok := got.BoundFingerprint("a.com")
		s.True(ok)
		s.Equal("first", fp)
	})

	s.Run("domain must be activated", func() {
		err := s.store.BindFingerprint(s.ctx, "LIC-FP", "other.com", "x")
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func TestInMemoryStore_ConcurrentActivation(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	const limit = 3
	const goroutines = limit + 20

	record, err := models.NewLicenseRecord("LIC-RACE", "", models.StatusActive, limit, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, record))

	var wg sync.WaitGroup
	var activated, exceeded atomic.Int32
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.TryActivateDomain(ctx, "LIC-RACE", models.ActivationRequest{Domain: fmt.Sprintf("site%d.com", i)})
			assert.NoError(t, err)
			switch res {
			case models.ActivationActivated:
				activated.Add(1)
			case models.ActivationLimitExceeded:
				exceeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(limit), activated.Load())
	assert.Equal(t, int32(goroutines-limit), exceeded.Load())

	got, err := store.Get(ctx, "LIC-RACE")
	require.NoError(t, err)
	assert.Len(t, got.ActivatedDomains, limit)
}
