// Package kafka publishes domain events to a Kafka topic. Events are keyed
// by the order identifier so all events of one order land on one partition
// and stay in emit order for per-order consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/pkg/errs"

	kafkago "github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event-type"

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// EventPublisher implements the EventPublisher port on a Kafka writer.
type EventPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewEventPublisher creates a publisher on an already configured writer.
// The writer owns topic, balancing, and ack settings.
func NewEventPublisher(writer messageWriter, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		writer: writer,
		logger: logger.With("component", "kafka_publisher"),
	}
}

// NewWriter builds the production Kafka writer. Hash balancing keeps the
// per-order partition affinity the message key establishes.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
}

// Publish serializes the event and writes it keyed by the aggregate ID, with
// the event type in a header so consumers can route without decoding.
func (p *EventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.EventType(), err)
	}

	message := kafkago.Message{
		Key:   []byte(event.AggregateID()),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: eventTypeHeader, Value: []byte(event.EventType())},
		},
	}

	if err = p.writer.WriteMessages(ctx, message); err != nil {
		p.logger.ErrorContext(ctx, "event publish failed",
			"eventType", event.EventType(), "aggregateId", event.AggregateID(), "error", err)
		return errs.NewEventSinkUnavailableError(event.EventType(), err)
	}

	return nil
}
