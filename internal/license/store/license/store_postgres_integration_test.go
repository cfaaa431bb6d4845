//go:build integration

package license_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"licenseguard/internal/license/models"
	"licenseguard/internal/license/store/license"
	"licenseguard/pkg/platform/sentinel"
	"licenseguard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *license.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = license.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "license_activations", "licenses")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) seed(key string, limit int) {
	record, err := models.NewLicenseRecord(key, "plugin-pro", models.StatusActive, limit, nil)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(context.Background(), record))
}

func (s *PostgresStoreSuite) TestGetRoundTrip() {
	ctx := context.Background()
	s.seed("LIC-PG", 2)

	_, err := s.store.TryActivateDomain(ctx, "LIC-PG", models.ActivationRequest{Domain: "example.com"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.BindFingerprint(ctx, "LIC-PG", "example.com", "abc"))

	got, err := s.store.Get(ctx, "LIC-PG")
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status)
	s.Equal([]string{"example.com"}, got.ActivatedDomains)
	s.Equal("abc", got.Fingerprints["example.com"])
	s.Equal(2, got.RemainingActivations()+len(got.ActivatedDomains))

	_, err = s.store.Get(ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSubdomainQuota() {
	ctx := context.Background()
	s.seed("LIC-SUB", models.UnlimitedActivations)

	req := func(domain string) models.ActivationRequest {
		return models.ActivationRequest{Domain: domain, Apex: "example.com", MaxSubdomains: 2}
	}
	for _, d := range []string{"a.example.com", "b.example.com"} {
		res, err := s.store.TryActivateDomain(ctx, "LIC-SUB", req(d))
		s.Require().NoError(err)
		s.Equal(models.ActivationActivated, res)
	}
	res, err := s.store.TryActivateDomain(ctx, "LIC-SUB", req("c.example.com"))
	s.Require().NoError(err)
	s.Equal(models.ActivationSubdomainLimitExceeded, res)

	// apex activations do not count against the quota
	res, err = s.store.TryActivateDomain(ctx, "LIC-SUB", models.ActivationRequest{Domain: "example.com"})
	s.Require().NoError(err)
	s.Equal(models.ActivationActivated, res)
}

func (s *PostgresStoreSuite) TestDeactivateFreesSlot() {
	ctx := context.Background()
	s.seed("LIC-DEACT", 1)

	_, err := s.store.TryActivateDomain(ctx, "LIC-DEACT", models.ActivationRequest{Domain: "a.com"})
	s.Require().NoError(err)

	res, err := s.store.DeactivateDomain(ctx, "LIC-DEACT", "a.com")
	s.Require().NoError(err)
	s.Equal(models.DeactivationRemoved, res)

	res, err = s.store.DeactivateDomain(ctx, "LIC-DEACT", "a.com")
	s.Require().NoError(err)
	s.Equal(models.DeactivationNotPresent, res)

	act, err := s.store.TryActivateDomain(ctx, "LIC-DEACT", models.ActivationRequest{Domain: "b.com"})
	s.Require().NoError(err)
	s.Equal(models.ActivationActivated, act)
}

// TestConcurrentActivationRespectsLimit races more distinct domains than the limit allows.
func (s *PostgresStoreSuite) TestConcurrentActivationRespectsLimit() {
	ctx := context.Background()
	const limit = 3
	const goroutines = 25
	s.seed("LIC-RACE", limit)

	var wg sync.WaitGroup
	var activated atomic.Int32
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.store.TryActivateDomain(ctx, "LIC-RACE",
				models.ActivationRequest{Domain: fmt.Sprintf("site%d.com", i)})
			if err == nil && res == models.ActivationActivated {
				activated.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(limit), activated.Load())
	got, err := s.store.Get(ctx, "LIC-RACE")
	s.Require().NoError(err)
	s.Len(got.ActivatedDomains, limit)
}
