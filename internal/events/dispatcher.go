package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler reacts to a published event. A failing handler never affects the
// publisher or sibling handlers.
type Handler func(ctx context.Context, event Event) error

// Dispatcher publishes events to statically registered handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler Handler)
}

// inMemoryDispatcher delivers events synchronously on the publisher's
// goroutine, in handler registration order. At-most-once, in-process only.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	logger    *zap.Logger
	listeners map[EventType][]Handler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	return &inMemoryDispatcher{
		logger:    logger,
		listeners: make(map[EventType][]Handler),
	}
}

// Publish invokes handlers registered for the event's type, then handlers
// registered for EventAny. Handler errors and panics are logged and
// swallowed so the remaining handlers and the publishing call proceed.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := make([]Handler, 0, len(d.listeners[event.Type])+len(d.listeners[EventAny]))
	handlers = append(handlers, d.listeners[event.Type]...)
	if event.Type != EventAny {
		handlers = append(handlers, d.listeners[EventAny]...)
	}
	d.mu.RUnlock()

	for _, handler := range handlers {
		d.dispatch(ctx, event, handler)
	}
}

func (d *inMemoryDispatcher) dispatch(ctx context.Context, event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()

	if err := handler(ctx, event); err != nil {
		d.logger.Error("event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

// Subscribe registers a handler for the given event type. Registration
// happens once during process initialization; the listener table is
// read-only afterwards.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
