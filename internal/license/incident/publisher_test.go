package incident

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/circuit"
)

type captureSink struct {
	mu    sync.Mutex
	name  string
	err   error
	items []*models.Incident
}

func (s *captureSink) Name() string { return s.name }

func (s *captureSink) Deliver(_ context.Context, batch []*models.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, batch...)
	return s.err
}

func (s *captureSink) delivered() []*models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Incident(nil), s.items...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherFlushDeliversToEverySink(t *testing.T) {
	failing := &captureSink{name: "failing", err: errors.New("broker down")}
	healthy := &captureSink{name: "healthy"}
	p := NewPublisher(NewRingBuffer(8), []Sink{failing, healthy},
		WithPublisherLogger(discardLogger()), WithBatchSize(2))

	for _, k := range []string{"a", "b", "c"} {
		p.Publish(newTestIncident(t, k))
	}
	p.Flush(context.Background())

	assert.Len(t, healthy.delivered(), 3, "a failing sink must not starve the others")
	assert.Len(t, failing.delivered(), 3)
	assert.Zero(t, p.buffer.Len())
}

func TestPublisherSkipsSinkWithOpenCircuit(t *testing.T) {
	failing := &captureSink{name: "failing", err: errors.New("broker down")}
	healthy := &captureSink{name: "healthy"}
	p := NewPublisher(NewRingBuffer(8), []Sink{failing, healthy},
		WithPublisherLogger(discardLogger()),
		WithBatchSize(1),
		WithSinkBreaker(circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour)),
	)

	for _, k := range []string{"a", "b", "c", "d"} {
		p.Publish(newTestIncident(t, k))
	}
	p.Flush(context.Background())

	assert.Len(t, failing.delivered(), 2, "open circuit stops further attempts")
	assert.Len(t, healthy.delivered(), 4)
	assert.True(t, p.breakers["failing"].IsOpen())
	assert.False(t, p.breakers["healthy"].IsOpen())
}

func TestPublisherRunDeliversAndStops(t *testing.T) {
	sink := &captureSink{name: "capture"}
	p := NewPublisher(NewRingBuffer(8), []Sink{sink},
		WithPublisherLogger(discardLogger()), WithFlushInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	p.Publish(newTestIncident(t, "LIC-1"))
	assert.Eventually(t, func() bool { return len(sink.delivered()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop")
	}
}

func TestPublisherSubscribe(t *testing.T) {
	p := NewPublisher(NewRingBuffer(8), nil, WithPublisherLogger(discardLogger()))
	feed, unsubscribe := p.Subscribe(4)

	p.Publish(newTestIncident(t, "LIC-SUB"))
	p.Flush(context.Background())

	select {
	case inc := <-feed:
		assert.Equal(t, "LIC-SUB", inc.LicenseKey)
	case <-time.After(time.Second):
		t.Fatal("no incident on subscription")
	}

	unsubscribe()
	unsubscribe()
	_, open := <-feed
	assert.False(t, open)
}
