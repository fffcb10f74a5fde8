package events

import (
	"sync"
	"time"
)

// Handler receives events from a Bus
type Handler func(Event)

// Bus provides event distribution across components.
// Handlers run on a single dispatch goroutine, in subscription order.
type Bus struct {
	Capacity int

	hmu      sync.Mutex
	handlers []Handler

	mu     sync.RWMutex // guards closed and sends on events
	events chan Event
	closed bool
	done   chan struct{}
}

// NewBus creates a new event bus with the specified capacity
func NewBus(capacity int) *Bus {
	b := &Bus{
		Capacity: capacity,
		events:   make(chan Event, capacity),
		done:     make(chan struct{}),
	}
	go b.dispatch()
	return b
}

// Subscribe registers a handler for all subsequent events
func (b *Bus) Subscribe(h Handler) {
	b.hmu.Lock()
	defer b.hmu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit stamps the event time and queues it for delivery.
// Events emitted after Close are dropped.
func (b *Bus) Emit(e Event) {
	if b == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	b.events <- e
}

func (b *Bus) dispatch() {
	defer close(b.done)
	for e := range b.events {
		b.hmu.Lock()
		handlers := make([]Handler, len(b.handlers))
		copy(handlers, b.handlers)
		b.hmu.Unlock()

		for _, h := range handlers {
			h(e)
		}
	}
}

// Close stops accepting events and waits until queued ones are delivered
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return nil
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	<-b.done
	return nil
}
