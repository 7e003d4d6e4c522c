package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"safari_crm_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var calls int32
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, ev Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, ev Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 handler calls, got %d", got)
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	wantErr := errors.New("handler broke")
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, ev Event) error {
		return wantErr
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, ev Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.event"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected joined error to contain %v, got %v", wantErr, err)
	}
}

func TestPublishIsAsynchronousAndIsolated(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	done := make(chan struct{})
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, ev Event) error {
		close(done)
		return nil
	}))
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, ev Event) error {
		panic("handler panic must not crash the bus")
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "test.event"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
	bus.Wait()
}

func TestPublishNoHandlersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"})
	bus.Wait()
}
