package usage

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
	"licenseguard/pkg/platform/sentinel"
	"licenseguard/pkg/requestcontext"
)

// trackerSuite holds window behavior shared by every UsageTracker implementation.
type trackerSuite struct {
	suite.Suite
	tracker ports.UsageTracker
	base    time.Time
}

func (s *trackerSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.base.Add(offset))
}

func (s *trackerSuite) record(key, domain, ip string, outcome models.Code, offset time.Duration) {
	s.recordAs(key, domain, ip, "WordPress/6.5; https://"+domain, outcome, offset)
}

func (s *trackerSuite) recordAs(key, domain, ip, userAgent string, outcome models.Code, offset time.Duration) {
	event, err := models.NewCheckEvent(key, domain, ip, userAgent, outcome, s.base.Add(offset))
	s.Require().NoError(err)
	_, err = s.tracker.RecordCheck(s.at(offset), event)
	s.Require().NoError(err)
}

func (s *trackerSuite) TestRecordCheckAggregates() {
	s.record("LIC-A", "example.com", "198.51.100.1", models.CodeValid, 0)
	s.record("LIC-A", "example.com", "198.51.100.2", models.CodeRateLimitExceeded, time.Minute)

	got, err := s.tracker.Get(s.at(time.Minute), "LIC-A", "example.com")
	s.Require().NoError(err)
	s.Equal(int64(2), got.CheckCount)
	s.Equal("198.51.100.2", got.IPAddress)
	s.Equal(models.CodeRateLimitExceeded, got.Status)
	s.True(got.LastCheck.Equal(s.base.Add(time.Minute)))

	_, err = s.tracker.Get(s.at(0), "LIC-A", "other.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *trackerSuite) TestCountSinceSlides() {
	for i := range 3 {
		s.record("LIC-W", "example.com", "198.51.100.1", models.CodeValid, time.Duration(i)*10*time.Minute)
	}

	n, err := s.tracker.CountSince(s.at(20*time.Minute), "LIC-W", "example.com", time.Hour)
	s.Require().NoError(err)
	s.Equal(3, n)

	// first check falls out 61 minutes after it happened
	n, err = s.tracker.CountSince(s.at(61*time.Minute), "LIC-W", "example.com", time.Hour)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.tracker.CountSince(s.at(20*time.Minute), "LIC-W", "other.com", time.Hour)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *trackerSuite) TestDistinctCounts() {
	s.record("LIC-D", "a.com", "198.51.100.1", models.CodeValid, 0)
	s.record("LIC-D", "a.com", "198.51.100.1", models.CodeValid, time.Minute)
	s.record("LIC-D", "b.com", "198.51.100.1", models.CodeValid, 2*time.Minute)
	s.record("LIC-E", "c.com", "198.51.100.1", models.CodeValid, 3*time.Minute)
	s.record("LIC-D", "a.com", "198.51.100.9", models.CodeValid, 4*time.Minute)

	domains, err := s.tracker.DistinctDomainsForIP(s.at(5*time.Minute), "198.51.100.1", 24*time.Hour)
	s.Require().NoError(err)
	s.Equal(3, domains)

	ips, err := s.tracker.DistinctIPsForLicense(s.at(5*time.Minute), "LIC-D", time.Hour)
	s.Require().NoError(err)
	s.Equal(2, ips)
}

func (s *trackerSuite) TestCountFailures() {
	s.record("LIC-F", "a.com", "198.51.100.1", models.CodeValid, 0)
	s.record("LIC-F", "a.com", "198.51.100.1", models.CodeFingerprintMismatch, time.Minute)
	s.record("LIC-F", "b.com", "198.51.100.1", models.CodeLocalhostNotAllowed, 2*time.Minute)

	n, err := s.tracker.CountFailuresSince(s.at(3*time.Minute), "LIC-F", time.Hour)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *trackerSuite) TestRestrictedChecksStayOutOfWindows() {
	s.record("LIC-R", "a.com", "198.51.100.1", models.CodeValid, 0)
	for i := range 5 {
		s.record("LIC-R", "a.com", "198.51.100.7", models.CodeLicenseRestricted, time.Duration(i+1)*time.Minute)
	}
	s.record("LIC-R", "b.com", "198.51.100.8", models.CodeLicenseRestricted, 6*time.Minute)

	ctx := s.at(7 * time.Minute)
	n, err := s.tracker.CountSince(ctx, "LIC-R", "a.com", time.Hour)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.tracker.CountFailuresSince(ctx, "LIC-R", time.Hour)
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.tracker.DistinctIPsForLicense(ctx, "LIC-R", time.Hour)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.tracker.DistinctDomainsForIP(ctx, "198.51.100.8", time.Hour)
	s.Require().NoError(err)
	s.Zero(n)

	// the aggregate still reflects every check-in
	got, err := s.tracker.Get(ctx, "LIC-R", "a.com")
	s.Require().NoError(err)
	s.Equal(int64(6), got.CheckCount)
	s.Equal(models.CodeLicenseRestricted, got.Status)
	s.Equal("198.51.100.7", got.IPAddress)
}

func (s *trackerSuite) TestDistinctUserAgents() {
	s.recordAs("LIC-UA", "a.com", "198.51.100.1", "WordPress/6.5", models.CodeValid, 0)
	s.recordAs("LIC-UA", "a.com", "198.51.100.1", "WordPress/6.5", models.CodeValid, time.Minute)
	s.recordAs("LIC-UA", "a.com", "198.51.100.1", "curl/8.4.0", models.CodeValid, 2*time.Minute)
	s.recordAs("LIC-UA", "a.com", "198.51.100.1", "", models.CodeValid, 3*time.Minute)
	s.recordAs("LIC-UA", "b.com", "198.51.100.1", "python-requests/2.31", models.CodeValid, 4*time.Minute)

	n, err := s.tracker.DistinctUserAgents(s.at(5*time.Minute), "LIC-UA", "a.com", 24*time.Hour)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.tracker.DistinctUserAgents(s.at(5*time.Minute), "LIC-UA", "b.com", 24*time.Hour)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *trackerSuite) TestCountOutcome() {
	s.record("LIC-O", "a.com", "198.51.100.1", models.CodeProductMismatch, 0)
	s.record("LIC-O", "b.com", "198.51.100.2", models.CodeProductMismatch, time.Minute)
	s.record("LIC-O", "a.com", "198.51.100.1", models.CodeLicenseInactive, 2*time.Minute)
	s.record("LIC-X", "a.com", "198.51.100.1", models.CodeProductMismatch, 3*time.Minute)

	n, err := s.tracker.CountOutcomeSince(s.at(4*time.Minute), "LIC-O", models.CodeProductMismatch, 24*time.Hour)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.tracker.CountOutcomeSince(s.at(4*time.Minute), "LIC-O", models.CodeValid, 24*time.Hour)
	s.Require().NoError(err)
	s.Zero(n)
}
