package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/order-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventAny is the supertype marker: handlers subscribed to it receive
	// every published event.
	EventAny EventType = "*"

	EventUserCreated   EventType = "user_created"
	EventUserLoggedOut EventType = "user_logged_out"
	EventOrderCreated  EventType = "order_created"
	EventOrderUpdated  EventType = "order_updated"
)

// Event is an immutable record of a state change. Events are not persisted;
// their lifetime ends once all matching handlers have run.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent builds an event with a fresh ID and timestamp.
func NewEvent(eventType EventType, actor string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// UserLoggedOutPayload payload.
type UserLoggedOutPayload struct {
	UserID string `json:"user_id"`
}

// OrderPayload carries the order snapshot for order events.
type OrderPayload struct {
	Order domain.Order `json:"order"`
}
