package events

import (
	"encoding/json"
	"testing"
	"time"
)

type amountEvent struct {
	BaseEvent
	Amount string `json:"amount"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "agg-123"
	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	event := NewBaseEvent("installment.paid", aggregateID, "Portfolio", at)

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}
	if event.EventType() != "installment.paid" {
		t.Errorf("expected event type %q, got %q", "installment.paid", event.EventType())
	}
	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}
	if event.AggregateType() != "Portfolio" {
		t.Errorf("expected aggregate type %q, got %q", "Portfolio", event.AggregateType())
	}
	if !event.OccurredAt().Equal(at) {
		t.Errorf("expected occurredAt %v, got %v", at, event.OccurredAt())
	}
}

func TestNewBaseEventUniqueIDs(t *testing.T) {
	a := NewBaseEvent("E", "agg", "Aggregate", time.Now())
	b := NewBaseEvent("E", "agg", "Aggregate", time.Now())
	if a.EventID() == b.EventID() {
		t.Error("expected distinct event IDs")
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestNewEnvelope(t *testing.T) {
	event := amountEvent{
		BaseEvent: NewBaseEvent("installment.payment.applied", "agg-789", "Portfolio", time.Now()),
		Amount:    "10.00",
	}

	env, err := NewEnvelope(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.EventID != event.EventID() {
		t.Errorf("expected envelope ID %v, got %v", event.EventID(), env.EventID)
	}
	if env.AggregateID != "agg-789" {
		t.Errorf("expected aggregate ID agg-789, got %v", env.AggregateID)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("expected valid JSON data, got error: %v", err)
	}
	if data["amount"] != "10.00" {
		t.Errorf("expected amount 10.00 in data, got %v", data["amount"])
	}

	raw, err := env.Marshal()
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("expected valid JSON envelope, got error: %v", err)
	}
	if parsed["event_type"] != "installment.payment.applied" {
		t.Errorf("unexpected event_type %v", parsed["event_type"])
	}
}

func TestEventCollectorRecord(t *testing.T) {
	collector := &EventCollector{}
	now := time.Now()

	collector.Record(NewBaseEvent("Event1", "agg-test", "Aggregate", now))
	collector.Record(NewBaseEvent("Event2", "agg-test", "Aggregate", now))

	events := collector.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType() != "Event1" {
		t.Errorf("expected first event type %q, got %q", "Event1", events[0].EventType())
	}
	if events[1].EventType() != "Event2" {
		t.Errorf("expected second event type %q, got %q", "Event2", events[1].EventType())
	}
}

func TestEventCollectorClearEvents(t *testing.T) {
	collector := &EventCollector{}
	collector.Record(NewBaseEvent("Event1", "agg-clear", "Aggregate", time.Now()))
	collector.Record(NewBaseEvent("Event2", "agg-clear", "Aggregate", time.Now()))

	cleared := collector.ClearEvents()

	if len(cleared) != 2 {
		t.Fatalf("expected ClearEvents to return 2 events, got %d", len(cleared))
	}
	if len(collector.Events()) != 0 {
		t.Errorf("expected internal slice to be empty after ClearEvents, got %d events", len(collector.Events()))
	}
}

func TestEventCollectorClearEventsOnEmpty(t *testing.T) {
	collector := &EventCollector{}
	if cleared := collector.ClearEvents(); cleared != nil {
		t.Errorf("expected nil from ClearEvents on empty collector, got %v", cleared)
	}
}
