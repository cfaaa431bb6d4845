package incident

import (
	"sync"

	"licenseguard/internal/license/models"
)

const defaultBufferCapacity = 1024

// RingBuffer is a bounded, thread-safe FIFO of incidents awaiting delivery.
// When full, the oldest incident is dropped to make room.
type RingBuffer struct {
	mu       sync.Mutex
	items    []*models.Incident
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int
	dropped  int64
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}
	return &RingBuffer{
		items:    make([]*models.Incident, capacity),
		capacity: capacity,
	}
}

// Enqueue adds an incident and reports whether an older one was dropped.
func (b *RingBuffer) Enqueue(incident *models.Incident) (dropped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count >= b.capacity {
		b.items[b.tail] = nil
		b.tail = (b.tail + 1) % b.capacity
		b.count--
		b.dropped++
		dropped = true
	}
	b.items[b.head] = incident
	b.head = (b.head + 1) % b.capacity
	b.count++
	return dropped
}

// DequeueBatch removes up to n incidents, oldest first.
func (b *RingBuffer) DequeueBatch(n int) []*models.Incident {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 || n <= 0 {
		return nil
	}
	n = min(n, b.count)
	out := make([]*models.Incident, n)
	for i := range n {
		out[i] = b.items[b.tail]
		b.items[b.tail] = nil
		b.tail = (b.tail + 1) % b.capacity
	}
	b.count -= n
	return out
}

func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns the total number of dropped incidents.
func (b *RingBuffer) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
