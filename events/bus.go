package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler reacts to one committed event
type Handler func(ctx context.Context, event Event)

// Bus fans committed events out to subscribers. Each handler call runs on its
// own goroutine; Drain waits for the ones still running.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	inflight sync.WaitGroup
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers handler for every future event of eventType
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	count := len(b.handlers[eventType])
	b.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": count,
	}).Debug("Subscribed handler")
}

// Emit hands event to its subscribers without waiting for them
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	subscribers := append([]Handler(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	if len(subscribers) == 0 {
		return
	}

	b.inflight.Add(len(subscribers))
	for i, h := range subscribers {
		go b.dispatch(ctx, event, h, i)
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event, h Handler, index int) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": index,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()
	h(ctx, event)
}

// Drain blocks until every running handler returns or ctx ends
func (b *Bus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TransactionalBus queues the events raised by one unit of work. Flush runs
// after commit and Discard after rollback, so subscribers never observe
// state that did not persist.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

func (b *TransactionalBus) Flush(_ context.Context) error {
	if len(b.pending) > 0 {
		log.WithField("eventCount", len(b.pending)).Debug("Emitting committed events")
	}

	// handlers outlive the request, so they do not inherit its context
	for _, ev := range b.pending {
		b.real.Emit(context.Background(), ev)
	}
	b.pending = nil
	return nil
}

func (b *TransactionalBus) Discard() {
	if len(b.pending) > 0 {
		log.WithField("eventCount", len(b.pending)).Debug("Dropped events of rolled back action")
	}
	b.pending = nil
}

// Pending is the number of events waiting for commit
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
