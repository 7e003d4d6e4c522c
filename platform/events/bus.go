package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"safari_crm_backend/platform/logger"
)

// asyncHandlerTimeout bounds how long a detached handler may run.
const asyncHandlerTimeout = 30 * time.Second

// InMemoryBus dispatches events to handlers within the same process.
// Subscribe is expected to happen during startup; Publish is safe for
// concurrent use afterwards.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously. Handler
// errors are logged, never propagated to the publisher.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("event handler panic",
						"event", event.EventName(),
						"panic", r,
					)
				}
			}()

			// Detach from the request context so in-flight handlers
			// survive the originating request.
			hctx, cancel := context.WithTimeout(context.Background(), asyncHandlerTimeout)
			defer cancel()

			if err := h.Handle(hctx, event); err != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(),
					"error", err.Error(),
				)
			}
		}(h)
	}
}

// PublishSync dispatches the event and waits for all handlers. Errors
// from individual handlers are joined.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until all in-flight asynchronous handlers have finished.
// Used during graceful shutdown.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}
