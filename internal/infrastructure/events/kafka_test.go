package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbyshop/internal/config"
	"hobbyshop/internal/infrastructure/storage/postgres"
)

type fakeWriter struct {
	written []kafka.Message
	err     error
	closed  bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func outboxMessage() *postgres.OutboxMessage {
	return &postgres.OutboxMessage{
		ID:            uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e"),
		AggregateType: postgres.ItemAggregate,
		AggregateID:   42,
		EventType:     "ItemArchived",
		Payload:       []byte(`{"action":"historical","historical":true}`),
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaPublisher_Handle(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	require.NoError(t, p.Handle(context.Background(), outboxMessage()))
	require.Len(t, w.written, 1)

	m := w.written[0]
	assert.Equal(t, "42", string(m.Key))
	assert.JSONEq(t, `{"action":"historical","historical":true}`, string(m.Value))
	assert.Equal(t, "ItemArchived", header(m, HeaderEventType))
	assert.Equal(t, "Item", header(m, HeaderAggregateType))
	assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", header(m, HeaderMessageID))
	assert.True(t, m.Time.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_HandleError(t *testing.T) {
	broker := errors.New("leader not available")
	p := NewKafkaPublisher(&fakeWriter{err: broker})

	err := p.Handle(context.Background(), outboxMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, broker)
	assert.Contains(t, err.Error(), "ItemArchived for Item 42")
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter(config.KafkaConfig{
		Brokers:      []string{"k1:9092", "k2:9092"},
		Topic:        "hobbyshop.items",
		WriteTimeout: 3 * time.Second,
	})
	assert.Equal(t, "hobbyshop.items", w.Topic)
	assert.Contains(t, w.Addr.String(), "k1:9092")
	assert.Equal(t, 3*time.Second, w.WriteTimeout)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
