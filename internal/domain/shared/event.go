package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to a product, order or user.
// Services publish events after the aggregate that raised them is saved.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent is embedded by every concrete event
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"type"`
	At            time.Time `json:"occurredAt"`
	Aggregate     uuid.UUID `json:"aggregateId"`
	AggregateKind string    `json:"aggregateType"`
}

// NewBaseDomainEvent stamps a new event for the aggregate kind/id pair
func NewBaseDomainEvent(eventType, aggregateKind string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Name:          eventType,
		At:            time.Now().UTC(),
		Aggregate:     aggregateID,
		AggregateKind: aggregateKind,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID { return e.ID }
func (e *BaseDomainEvent) EventType() string { return e.Name }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e *BaseDomainEvent) AggregateType() string { return e.AggregateKind }

// EventHandler reacts to published events. An empty EventTypes result
// subscribes the handler to every event.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services publish through
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus fans published events out to subscribed handlers.
// Subscribe falls back to handler.EventTypes when no types are given.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
