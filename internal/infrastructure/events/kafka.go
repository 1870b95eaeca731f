// Package events forwards item change events from the outbox to Kafka.
package events

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"hobbyshop/internal/config"
	"hobbyshop/internal/core/id"
	"hobbyshop/internal/infrastructure/storage/postgres"
)

// Message headers set on every event.
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
	HeaderMessageID     = "message_id"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Compile-time check that KafkaPublisher implements postgres.OutboxHandler interface.
var _ postgres.OutboxHandler = (*KafkaPublisher)(nil)

// KafkaPublisher delivers outbox messages to a Kafka topic. Messages are
// keyed by aggregate id so events of one item keep their order.
type KafkaPublisher struct {
	writer MessageWriter
}

// NewKafkaWriter creates a writer for the configured topic.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaPublisher creates a publisher over w.
func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Handle implements postgres.OutboxHandler.
func (p *KafkaPublisher) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	if err := p.writer.WriteMessages(ctx, ToKafkaMessage(msg)); err != nil {
		return fmt.Errorf("write %s for %s %d: %w", msg.EventType, msg.AggregateType, msg.AggregateID, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// ToKafkaMessage maps an outbox row to a Kafka message.
func ToKafkaMessage(msg *postgres.OutboxMessage) kafka.Message {
	return kafka.Message{
		Key:   []byte(id.String(msg.AggregateID)),
		Value: msg.Payload,
		Time:  msg.CreatedAt,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(msg.EventType)},
			{Key: HeaderAggregateType, Value: []byte(msg.AggregateType)},
			{Key: HeaderMessageID, Value: []byte(msg.ID.String())},
		},
	}
}
