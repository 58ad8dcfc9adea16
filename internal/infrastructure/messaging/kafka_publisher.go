package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bibbank/installments/internal/domain/event"
	"github.com/bibbank/installments/pkg/events"
	"github.com/bibbank/installments/pkg/kafka"
)

// Producer is satisfied by *kafka.Producer.
type Producer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// KafkaEventPublisher implements port.EventPublisher by writing event
// envelopes to one Kafka topic. Messages are keyed by portfolio id so that
// the events of a portfolio keep their order within a partition.
type KafkaEventPublisher struct {
	producer Producer
	topic    string
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher targeting the given producer and topic.
func NewKafkaEventPublisher(producer Producer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		breaker:  newBreaker("kafka:"+topic, logger),
		logger:   logger,
	}
}

// newBreaker opens after five consecutive failed publishes and probes the
// broker again after ten seconds.
func newBreaker(name string, logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// Publish serialises and sends domain events to Kafka.
func (p *KafkaEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	messages := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}
		payload, err := env.Marshal()
		if err != nil {
			return fmt.Errorf("marshal envelope %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload_size", len(payload),
		)

		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"event_id":   evt.EventID(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.producer.Publish(ctx, p.topic, messages...)
	})
	if err != nil {
		return fmt.Errorf("publish %d events to %s: %w", len(messages), p.topic, err)
	}
	return nil
}
