package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vendorconnect/internal/domain"
)

// EventDTO is the wire form of domain.Event on the marketplace topic.
type EventDTO struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Aggregate       string    `json:"aggregate"`
	AggregateID     int64     `json:"aggregate_id"`
	ParticipationID int64     `json:"participation_id,omitempty"`
	ActorID         int64     `json:"actor_id,omitempty"`
	Status          string    `json:"status,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// FromDomain converts ev to its wire form, assigning an id when ev has none.
func FromDomain(ev domain.Event) EventDTO {
	id := ev.ID
	if id == "" {
		id = uuid.NewString()
	}
	return EventDTO{
		ID:              id,
		Type:            string(ev.Type),
		Aggregate:       string(ev.Aggregate),
		AggregateID:     ev.AggregateID,
		ParticipationID: ev.ParticipationID,
		ActorID:         ev.ActorID,
		Status:          ev.Status,
		OccurredAt:      ev.OccurredAt.UTC(),
	}
}

// ToDomain converts EventDTO to domain.Event
func ToDomain(dto EventDTO) domain.Event {
	return domain.Event{
		ID:              strings.TrimSpace(dto.ID),
		Type:            domain.EventType(strings.TrimSpace(dto.Type)),
		Aggregate:       domain.Aggregate(strings.TrimSpace(dto.Aggregate)),
		AggregateID:     dto.AggregateID,
		ParticipationID: dto.ParticipationID,
		ActorID:         dto.ActorID,
		Status:          strings.TrimSpace(dto.Status),
		OccurredAt:      dto.OccurredAt,
	}
}

// MessageKey partitions events by aggregate so one aggregate's events stay ordered.
func MessageKey(ev domain.Event) string {
	return fmt.Sprintf("%s:%d", ev.Aggregate, ev.AggregateID)
}
