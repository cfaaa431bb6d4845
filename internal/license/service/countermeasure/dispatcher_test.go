package countermeasure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"licenseguard/internal/license/models"
	"licenseguard/internal/license/ports/mocks"
	"licenseguard/internal/license/store/restriction"
	dErrors "licenseguard/pkg/domain-errors"
	"licenseguard/pkg/requestcontext"
)

type DispatcherSuite struct {
	suite.Suite
	store      *restriction.InMemoryStore
	dispatcher *Dispatcher
	now        time.Time
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.store = restriction.NewInMemory()
	d, err := New(s.store, nil, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
	s.dispatcher = d
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *DispatcherSuite) incident(key string, typ models.IncidentType) *models.Incident {
	inc, err := models.NewIncident(key, typ, models.SeverityHigh, "test", "203.0.113.1", s.now, nil)
	s.Require().NoError(err)
	return inc
}

func (s *DispatcherSuite) TestActionTable() {
	cases := []struct {
		typ    models.IncidentType
		action Action
		kind   models.RestrictionKind
		until  time.Duration
	}{
		{models.IncidentExcessiveChecks, ActionThrottle, models.RestrictionThrottle, time.Hour},
		{models.IncidentMultipleIPsPerLicense, ActionBlock, models.RestrictionBlock, time.Hour},
		{models.IncidentMultipleDomainsSameIP, ActionBlock, models.RestrictionBlock, 24 * time.Hour},
		{models.IncidentExcessiveFailures, ActionBlock, models.RestrictionBlock, 30 * time.Minute},
	}
	for _, tc := range cases {
		s.Run(string(tc.typ), func() {
			key := "LIC-" + string(tc.typ)
			action, err := s.dispatcher.Dispatch(s.ctx, s.incident(key, tc.typ))
			s.Require().NoError(err)
			s.Equal(tc.action, action)

			state, err := s.store.Get(s.ctx, key)
			s.Require().NoError(err)
			s.Require().NotNil(state.Until(tc.kind))
			s.True(state.Until(tc.kind).Equal(s.now.Add(tc.until)))
		})
	}
}

func (s *DispatcherSuite) TestFingerprintMismatchFlags() {
	action, err := s.dispatcher.Dispatch(s.ctx, s.incident("LIC-FP", models.IncidentFingerprintMismatch))
	s.Require().NoError(err)
	s.Equal(ActionFlag, action)

	state, err := s.store.Get(s.ctx, "LIC-FP")
	s.Require().NoError(err)
	s.True(state.FlaggedForReview)
	s.Equal(string(models.IncidentFingerprintMismatch), state.FlagReason)
	_, _, active := state.ActiveAt(s.now)
	s.False(active, "flagging does not restrict")
}

func (s *DispatcherSuite) TestUnknownTypeIsLoggedOnly() {
	action, err := s.dispatcher.Dispatch(s.ctx, s.incident("LIC-X", models.IncidentType("geo_anomaly")))
	s.Require().NoError(err)
	s.Equal(ActionNone, action)

	state, err := s.store.Get(s.ctx, "LIC-X")
	s.Require().NoError(err)
	s.Nil(state)
}

func (s *DispatcherSuite) TestUnknownLicenseBucketIsNeverRestricted() {
	action, err := s.dispatcher.Dispatch(s.ctx, s.incident(models.UnknownLicenseBucket, models.IncidentExcessiveChecks))
	s.Require().NoError(err)
	s.Equal(ActionNone, action)

	state, err := s.store.Get(s.ctx, models.UnknownLicenseBucket)
	s.Require().NoError(err)
	s.Nil(state)
}

func (s *DispatcherSuite) TestPerClientUnknownBucketIsRestricted() {
	key := models.UnknownLicenseKey("203.0.113.1")
	action, err := s.dispatcher.Dispatch(s.ctx, s.incident(key, models.IncidentExcessiveFailures))
	s.Require().NoError(err)
	s.Equal(ActionBlock, action)

	state, err := s.store.Get(s.ctx, key)
	s.Require().NoError(err)
	kind, _, active := state.ActiveAt(s.now)
	s.True(active)
	s.Equal(models.RestrictionBlock, kind)
}

func (s *DispatcherSuite) TestReviewOnlyIncidentsDoNotRestrict() {
	for _, typ := range []models.IncidentType{
		models.IncidentDomainChangeSingleLicense,
		models.IncidentUserAgentChange,
		models.IncidentRepeatedProductMismatch,
	} {
		s.Run(string(typ), func() {
			key := "LIC-" + string(typ)
			action, err := s.dispatcher.Dispatch(s.ctx, s.incident(key, typ))
			s.Require().NoError(err)
			s.Equal(ActionNone, action)

			state, err := s.store.Get(s.ctx, key)
			s.Require().NoError(err)
			s.Nil(state)
		})
	}
}

func (s *DispatcherSuite) TestShorterCountermeasureKeepsLongerBlock() {
	_, err := s.dispatcher.Dispatch(s.ctx, s.incident("LIC-1", models.IncidentMultipleDomainsSameIP))
	s.Require().NoError(err)
	_, err = s.dispatcher.Dispatch(s.ctx, s.incident("LIC-1", models.IncidentExcessiveFailures))
	s.Require().NoError(err)

	state, err := s.store.Get(s.ctx, "LIC-1")
	s.Require().NoError(err)
	s.True(state.BlockedUntil.Equal(s.now.Add(24 * time.Hour)))
}

func (s *DispatcherSuite) TestStoreFailure() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockRestrictionStore(ctrl)
	store.EXPECT().Restrict(gomock.Any(), "LIC-1", models.RestrictionThrottle, s.now.Add(time.Hour)).
		Return(nil, errors.New("connection reset"))

	d, err := New(store, nil, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)

	action, err := d.Dispatch(s.ctx, s.incident("LIC-1", models.IncidentExcessiveChecks))
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Equal(ActionNone, action)
}

func (s *DispatcherSuite) TestLiftClearsAndRecords() {
	ctrl := gomock.NewController(s.T())
	recorder := mocks.NewMockIncidentRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, inc *models.Incident) error {
		s.Equal(models.IncidentRestrictionLifted, inc.Type)
		s.Equal(models.SeverityLow, inc.Severity)
		s.Equal("false positive", inc.AdditionalData["reason"])
		return nil
	})

	d, err := New(s.store, recorder, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)

	_, err = d.Dispatch(s.ctx, s.incident("LIC-1", models.IncidentExcessiveFailures))
	s.Require().NoError(err)
	_, err = d.Dispatch(s.ctx, s.incident("LIC-1", models.IncidentFingerprintMismatch))
	s.Require().NoError(err)

	s.Require().NoError(d.Lift(s.ctx, "LIC-1", "false positive"))

	state, err := s.store.Get(s.ctx, "LIC-1")
	s.Require().NoError(err)
	_, _, active := state.ActiveAt(s.now)
	s.False(active)
	s.False(state != nil && state.FlaggedForReview)
}

func (s *DispatcherSuite) TestLiftRequiresKey() {
	err := s.dispatcher.Lift(s.ctx, "", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
