package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// asyncDispatcher runs handlers off the publisher's goroutine so a slow
// subscriber (an external delivery channel) cannot delay the request
// that published the event.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	wg        sync.WaitGroup
}

// NewAsyncDispatcher creates a dispatcher instance.
func NewAsyncDispatcher() Dispatcher {
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish schedules handlers for the event and returns immediately.
// Handlers receive a detached context: once dispatched they run to
// completion regardless of the originating request's lifetime.
func (d *asyncDispatcher) Publish(_ context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		h := handler
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			// handler errors are the subscriber's concern
			_ = h(context.Background(), event)
		}()
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Wait blocks until in-flight handlers finish. Used in tests and on
// shutdown.
func (d *asyncDispatcher) Wait() {
	d.wg.Wait()
}
