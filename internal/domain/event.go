package domain

import "time"

// EventType names a marketplace event.
type EventType string

// Marketplace event types.
const (
	EventParticipationJoined    EventType = "participation.joined"
	EventParticipationConfirmed EventType = "participation.confirmed"
	EventParticipationCancelled EventType = "participation.cancelled"
	EventStatusChanged          EventType = "status.changed"
)

// Aggregate names the kind of aggregate an event refers to.
type Aggregate string

// Aggregate kinds.
const (
	AggregateGroupOrder Aggregate = "group_order"
	AggregateTransport  Aggregate = "transport"
	AggregateDelivery   Aggregate = "delivery"
	AggregateOrder      Aggregate = "order"
)

// Event is emitted after a committed mutation.
type Event struct {
	ID              string
	Type            EventType
	Aggregate       Aggregate
	AggregateID     int64
	ParticipationID int64
	ActorID         int64
	Status          string
	OccurredAt      time.Time
}
