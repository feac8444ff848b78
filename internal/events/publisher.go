package events

import (
	"context"
	"encoding/json"
	"time"

	"duka/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Topic carries catalog change notifications from the API to the worker.
const Topic = "catalog-events"

const (
	TypeProductCreated  = "product.created"
	TypeProductUpdated  = "product.updated"
	TypeProductDeleted  = "product.deleted"
	TypeCategoryChanged = "category.changed"
	TypeCurationChanged = "curation.changed"
)

type Event struct {
	Type      string    `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits catalog events best-effort: a publish failure is logged
// and never fails the admin write that triggered it.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, eventType, entityID string) {
	event := Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("events: failed to marshal event: %v", err)
		return
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entityID),
		Value: payload,
	}); err != nil {
		p.logger.Error("events: failed to publish %s for %s: %v", eventType, entityID, err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
