package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the wire form of a domain event: the metadata carried by
// BaseEvent plus the event itself as the data payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Data          json.RawMessage `json:"data"`
}

// NewEnvelope wraps a DomainEvent. The data payload is produced by
// JSON-marshalling the event itself.
func NewEnvelope(event DomainEvent) (Envelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	return Envelope{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Data:          data,
	}, nil
}

// Marshal encodes the envelope.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
