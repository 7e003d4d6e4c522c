// Package events defines the bus contract modules use to talk to each
// other without importing one another. Event types themselves live
// with the module that emits them.
package events

import (
	"context"
	"time"
)

// Event is anything a module can publish.
type Event interface {
	// EventName identifies the event type; subscribers key on it.
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the timestamp so event structs only add their
// own payload fields.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a new event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes published events.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events from publishers to subscribers.
type Bus interface {
	// Publish delivers asynchronously; the caller does not wait for
	// handlers and handler errors are logged, not returned.
	Publish(ctx context.Context, event Event)

	// PublishSync waits for every handler and joins their errors.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers handler for events whose EventName matches.
	Subscribe(eventName string, handler Handler)
}
