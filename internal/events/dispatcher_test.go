package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
)

func TestPublishInvokesHandlersInRegistrationOrder(t *testing.T) {
	bus := events.NewInMemoryDispatcher(zap.NewNop())

	var calls []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
			calls = append(calls, i)
			return nil
		})
	}

	bus.Publish(context.Background(), events.NewEvent(events.EventOrderCreated, "john", nil))
	require.Equal(t, []int{1, 2, 3}, calls)
}

func TestPublishDeliversToSupertypeSubscribers(t *testing.T) {
	bus := events.NewInMemoryDispatcher(zap.NewNop())

	typed := 0
	catchAll := 0
	bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
		typed++
		return nil
	})
	bus.Subscribe(events.EventAny, func(ctx context.Context, event events.Event) error {
		catchAll++
		return nil
	})

	bus.Publish(context.Background(), events.NewEvent(events.EventOrderCreated, "john", nil))
	require.Equal(t, 1, typed)
	require.Equal(t, 1, catchAll)

	bus.Publish(context.Background(), events.NewEvent(events.EventUserLoggedOut, "john", nil))
	require.Equal(t, 1, typed, "typed handler must not see unrelated events")
	require.Equal(t, 2, catchAll, "supertype handler sees every event")
}

func TestPublishSkipsUnrelatedTypes(t *testing.T) {
	bus := events.NewInMemoryDispatcher(zap.NewNop())

	invoked := false
	bus.Subscribe(events.EventUserCreated, func(ctx context.Context, event events.Event) error {
		invoked = true
		return nil
	})

	bus.Publish(context.Background(), events.NewEvent(events.EventOrderUpdated, "john", nil))
	require.False(t, invoked)
}

func TestFailingHandlerDoesNotStopSiblings(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := events.NewInMemoryDispatcher(zap.New(core))

	var calls []string
	bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "first")
		return errors.New("handler exploded")
	})
	bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "second")
		return nil
	})

	bus.Publish(context.Background(), events.NewEvent(events.EventOrderCreated, "john", nil))

	require.Equal(t, []string{"first", "second"}, calls)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := events.NewInMemoryDispatcher(zap.New(core))

	var calls []string
	bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "first")
		panic("handler panicked")
	})
	bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "second")
		return nil
	})

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), events.NewEvent(events.EventOrderCreated, "john", nil))
	})
	require.Equal(t, []string{"first", "second"}, calls)
	require.Equal(t, 1, logs.FilterMessage("event handler panicked").Len())
}

func TestHandlersReceiveTheSameEvent(t *testing.T) {
	bus := events.NewInMemoryDispatcher(zap.NewNop())

	published := events.NewEvent(events.EventOrderCreated, "john", events.OrderPayload{
		Order: domain.Order{ID: 1, ProductName: "Laptop", Quantity: 2, Price: 1500},
	})

	seen := make([]events.Event, 0, 2)
	for i := 0; i < 2; i++ {
		bus.Subscribe(events.EventOrderCreated, func(ctx context.Context, event events.Event) error {
			seen = append(seen, event)
			return nil
		})
	}

	bus.Publish(context.Background(), published)
	require.Len(t, seen, 2)
	require.Equal(t, published, seen[0])
	require.Equal(t, published, seen[1])
}
