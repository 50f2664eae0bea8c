package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Handler consumes a dispatched event.
type Handler func(ctx context.Context, event Event)

// Dispatcher fans events out to registered handlers in-process.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[EventType][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event type.
func (d *Dispatcher) Subscribe(eventType EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Publish builds an event and delivers it to every subscribed handler.
// Delivery is synchronous so handlers observe a consistent ticket state.
func (d *Dispatcher) Publish(ctx context.Context, eventType EventType, ticketID string, actor Actor, payload interface{}) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[eventType]...)
	d.mu.RUnlock()

	d.logger.Debug("dispatching event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(eventType)),
		zap.String("ticket_id", ticketID),
		zap.Int("handlers", len(handlers)),
	)

	for _, handler := range handlers {
		handler(ctx, event)
	}
}

// SystemActor builds an actor for background-originated events.
func SystemActor() Actor {
	return Actor{Type: domain.ActorTypeSystem}
}

// UserActor builds an actor for customer-originated events.
func UserActor(userID string) Actor {
	return Actor{Type: domain.ActorTypeUser, UserID: &userID}
}

// StaffActor builds an actor for staff-originated events.
func StaffActor(staffID string) Actor {
	return Actor{Type: domain.ActorTypeStaff, StaffID: &staffID}
}
