package restriction

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports"
)

// storeSuite holds behavior shared by every RestrictionStore implementation.
type storeSuite struct {
	suite.Suite
	store ports.RestrictionStore
	now   time.Time
}

func (s *storeSuite) TestGetUnknownIsNil() {
	state, err := s.store.Get(context.Background(), "never-restricted")
	s.Require().NoError(err)
	s.Nil(state)
}

func (s *storeSuite) TestRestrictKeepsLaterExpiry() {
	ctx := context.Background()
	later := s.now.Add(24 * time.Hour)
	sooner := s.now.Add(time.Hour)

	_, err := s.store.Restrict(ctx, "LIC-M", models.RestrictionBlock, later)
	s.Require().NoError(err)
	state, err := s.store.Restrict(ctx, "LIC-M", models.RestrictionBlock, sooner)
	s.Require().NoError(err)
	s.Require().NotNil(state.BlockedUntil)
	s.True(state.BlockedUntil.Equal(later), "a shorter block must not shorten an active one")

	state, err = s.store.Restrict(ctx, "LIC-M", models.RestrictionThrottle, sooner)
	s.Require().NoError(err)
	s.Require().NotNil(state.ThrottledUntil)
	s.True(state.ThrottledUntil.Equal(sooner))

	kind, until, ok := state.ActiveAt(s.now)
	s.True(ok)
	s.Equal(models.RestrictionBlock, kind)
	s.True(until.Equal(later))
}

func (s *storeSuite) TestFlag() {
	ctx := context.Background()
	s.Require().NoError(s.store.Flag(ctx, "LIC-F", "fingerprint_mismatch", s.now))

	state, err := s.store.Get(ctx, "LIC-F")
	s.Require().NoError(err)
	s.Require().NotNil(state)
	s.True(state.FlaggedForReview)
	s.Equal("fingerprint_mismatch", state.FlagReason)
	_, _, active := state.ActiveAt(s.now)
	s.False(active, "flagging alone does not restrict")
}

func (s *storeSuite) TestExpiryLifecycle() {
	ctx := context.Background()
	throttleEnd := s.now.Add(-time.Minute)
	blockEnd := s.now.Add(time.Hour)

	_, err := s.store.Restrict(ctx, "LIC-E", models.RestrictionThrottle, throttleEnd)
	s.Require().NoError(err)
	_, err = s.store.Restrict(ctx, "LIC-E", models.RestrictionBlock, blockEnd)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Flag(ctx, "LIC-E", "review", s.now))

	expired, err := s.store.ListExpired(ctx, s.now)
	s.Require().NoError(err)
	s.Require().Len(expired, 1)
	s.Equal([]models.RestrictionKind{models.RestrictionThrottle}, expired[0].ExpiredKinds(s.now))

	s.Run("still-active kind is not cleared", func() {
		cleared, _, err := s.store.ClearExpired(ctx, "LIC-E", models.RestrictionBlock, s.now)
		s.Require().NoError(err)
		s.False(cleared)
	})

	s.Run("elapsed kind is cleared once", func() {
		cleared, expiredAt, err := s.store.ClearExpired(ctx, "LIC-E", models.RestrictionThrottle, s.now)
		s.Require().NoError(err)
		s.True(cleared)
		s.True(expiredAt.Equal(throttleEnd))

		cleared, _, err = s.store.ClearExpired(ctx, "LIC-E", models.RestrictionThrottle, s.now)
		s.Require().NoError(err)
		s.False(cleared)
	})

	state, err := s.store.Get(ctx, "LIC-E")
	s.Require().NoError(err)
	s.Nil(state.ThrottledUntil)
	s.NotNil(state.BlockedUntil)
	s.True(state.FlaggedForReview, "sweeping never clears the review flag")

	s.Run("clear all removes everything", func() {
		s.Require().NoError(s.store.ClearAll(ctx, "LIC-E"))
		state, err := s.store.Get(ctx, "LIC-E")
		s.Require().NoError(err)
		if state != nil {
			s.Nil(state.BlockedUntil)
			s.False(state.FlaggedForReview)
		}
	})
}
