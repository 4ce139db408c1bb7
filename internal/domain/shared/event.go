package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is raised by aggregates when something business-relevant happens
type DomainEvent interface {
	GetEventID() uuid.UUID
	GetEventType() string
	GetAggregateID() uuid.UUID
	GetOccurredAt() time.Time
}

// BaseDomainEvent provides common fields for domain events
type BaseDomainEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID uuid.UUID `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// GetEventID returns the unique event ID
func (e BaseDomainEvent) GetEventID() uuid.UUID {
	return e.EventID
}

// GetEventType returns the event type name
func (e BaseDomainEvent) GetEventType() string {
	return e.EventType
}

// GetAggregateID returns the ID of the aggregate that raised the event
func (e BaseDomainEvent) GetAggregateID() uuid.UUID {
	return e.AggregateID
}

// GetOccurredAt returns when the event occurred
func (e BaseDomainEvent) GetOccurredAt() time.Time {
	return e.OccurredAt
}

// NewBaseDomainEvent creates a base event for the given aggregate
func NewBaseDomainEvent(eventType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		EventID:     uuid.New(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now(),
	}
}
