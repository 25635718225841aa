package events

import (
	"context"
	"encoding/json"
	"fmt"

	"pinecove/internal/pkg/config"
	"pinecove/internal/usecase"

	kafkaGo "github.com/segmentio/kafka-go"
)

// Publisher emits booking lifecycle events for the downstream notification
// pipeline (email, operator alerts). Publishing is best-effort: callers log
// failures and move on, a broker outage never fails a booking.
type Publisher struct {
	writer  *kafkaGo.Writer
	enabled bool
}

func NewPublisher(cfg config.KafkaConfig) *Publisher {
	if !cfg.Enabled {
		return &Publisher{}
	}
	return &Publisher{
		enabled: true,
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			AllowAutoTopicCreation: true,
			Async:                  true,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event usecase.BookingEvent) error {
	if !p.enabled {
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkaGo.Message{
		Key:   []byte(event.BookingID.String()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
