package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafkago.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type auditPublisher struct {
	writer MessageWriter
	topic  string
}

// NewAuditPublisher returns an audit sink that publishes each event to topic,
// keyed by entity so events of one record stay ordered within a partition.
func NewAuditPublisher(writer MessageWriter, topic string) audit.Sink {
	return &auditPublisher{writer: writer, topic: topic}
}

func (p *auditPublisher) Write(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := kafkago.Message{
		Topic: p.topic,
		Key:   []byte(string(event.EntityType) + ":" + event.EntityID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(event.Action)},
			{Key: "entity_type", Value: []byte(event.EntityType)},
			{Key: "actor", Value: []byte(event.Actor.String())},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}
	return nil
}

// NewWriter builds a writer for brokers. Topic is left unset because each
// message carries its own.
func NewWriter(brokers []string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}
