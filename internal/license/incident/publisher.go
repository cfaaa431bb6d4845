package incident

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"licenseguard/internal/license/metrics"
	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/circuit"
)

// Sink receives batches of incidents from the stream.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, batch []*models.Incident) error
}

const (
	defaultBatchSize    = 64
	defaultFlushEvery   = time.Second
	defaultDeliverLimit = 10 * time.Second
)

// Publisher fans incidents out to sinks and subscribers from a background loop, so
// a slow or failing consumer never blocks a check-in.
type Publisher struct {
	buffer      *RingBuffer
	sinks       []Sink
	breakers    map[string]*circuit.Breaker
	breakerOpts []circuit.Option
	batchSize   int
	flushEvery  time.Duration
	notify      chan struct{}
	logger      *slog.Logger
	metrics     *metrics.Metrics

	subMu       sync.RWMutex
	subscribers map[int]chan models.Incident
	nextSubID   int
}

type PublisherOption func(*Publisher)

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func WithBatchSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		if d > 0 {
			p.flushEvery = d
		}
	}
}

// WithSinkBreaker configures the breaker that guards each sink.
func WithSinkBreaker(opts ...circuit.Option) PublisherOption {
	return func(p *Publisher) {
		p.breakerOpts = opts
	}
}

func NewPublisher(buffer *RingBuffer, sinks []Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		buffer:      buffer,
		sinks:       sinks,
		batchSize:   defaultBatchSize,
		flushEvery:  defaultFlushEvery,
		notify:      make(chan struct{}, 1),
		logger:      slog.Default(),
		subscribers: make(map[int]chan models.Incident),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.breakers = make(map[string]*circuit.Breaker, len(sinks))
	for _, sink := range sinks {
		p.breakers[sink.Name()] = circuit.New(sink.Name(), p.breakerOpts...)
	}
	return p
}

// Publish enqueues an incident for delivery. It never blocks.
func (p *Publisher) Publish(incident *models.Incident) {
	if p.buffer.Enqueue(incident) {
		p.metrics.AddIncidentsDropped(1)
	}
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Subscribe returns a feed of published incidents. Incidents are dropped for a
// subscriber whose channel is full. Call the returned func to unsubscribe.
func (p *Publisher) Subscribe(size int) (<-chan models.Incident, func()) {
	if size <= 0 {
		size = defaultBatchSize
	}
	ch := make(chan models.Incident, size)

	p.subMu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = ch
	p.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subscribers, id)
			p.subMu.Unlock()
			close(ch)
		})
	}
}

// Run drains the buffer until ctx is cancelled, then flushes what is left.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Flush(context.WithoutCancel(ctx))
			return nil
		case <-p.notify:
			p.Flush(ctx)
		case <-ticker.C:
			p.Flush(ctx)
		}
	}
}

// Flush delivers everything currently buffered.
func (p *Publisher) Flush(ctx context.Context) {
	for {
		batch := p.buffer.DequeueBatch(p.batchSize)
		if len(batch) == 0 {
			return
		}
		p.deliver(ctx, batch)
	}
}

func (p *Publisher) deliver(ctx context.Context, batch []*models.Incident) {
	for _, sink := range p.sinks {
		breaker := p.breakers[sink.Name()]
		if !breaker.Allow(time.Now()) {
			p.metrics.AddSinkSkipped(sink.Name(), len(batch))
			continue
		}
		deliverCtx, cancel := context.WithTimeout(ctx, defaultDeliverLimit)
		err := sink.Deliver(deliverCtx, batch)
		cancel()
		if err != nil {
			p.metrics.IncrementSinkFailures(sink.Name())
			_, change := breaker.RecordFailure()
			p.logger.ErrorContext(ctx, "incident sink delivery failed",
				"sink", sink.Name(),
				"batch_size", len(batch),
				"circuit_opened", change.Opened,
				"error", err,
			)
			continue
		}
		if _, change := breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "incident sink recovered", "sink", sink.Name())
		}
	}

	p.subMu.RLock()
	defer p.subMu.RUnlock()
	for _, ch := range p.subscribers {
		for _, inc := range batch {
			select {
			case ch <- *inc:
			default:
			}
		}
	}
}
