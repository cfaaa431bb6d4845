package incident

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"licenseguard/internal/license/ports/mocks"
	incidentstore "licenseguard/internal/license/store/incident"
)

type RecorderSuite struct {
	suite.Suite
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) TestRecordAppendsThenPublishes() {
	store := incidentstore.NewInMemory()
	sink := &captureSink{name: "capture"}
	publisher := NewPublisher(NewRingBuffer(4), []Sink{sink}, WithPublisherLogger(discardLogger()))
	recorder := NewRecorder(store, publisher, WithRecorderLogger(discardLogger()))

	inc := newTestIncident(s.T(), "LIC-R")
	s.Require().NoError(recorder.Record(context.Background(), inc))

	logged, err := store.ListByLicense(context.Background(), "LIC-R", 0)
	s.Require().NoError(err)
	s.Require().Len(logged, 1)
	s.Equal(inc.ID, logged[0].ID)

	publisher.Flush(context.Background())
	s.Len(sink.delivered(), 1)
}

func (s *RecorderSuite) TestAppendFailureSkipsStream() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockIncidentStore(ctrl)
	store.EXPECT().Append(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	publisher := NewPublisher(NewRingBuffer(4), nil, WithPublisherLogger(discardLogger()))
	recorder := NewRecorder(store, publisher, WithRecorderLogger(discardLogger()))

	err := recorder.Record(context.Background(), newTestIncident(s.T(), "LIC-R"))
	s.Error(err)
	s.Zero(publisher.buffer.Len())
}

func (s *RecorderSuite) TestNilPublisher() {
	recorder := NewRecorder(incidentstore.NewInMemory(), nil, WithRecorderLogger(discardLogger()))
	s.NoError(recorder.Record(context.Background(), newTestIncident(s.T(), "LIC-R")))
}
