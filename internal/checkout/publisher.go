package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	OrdersTopic          = "storefront.orders"
	EventTypeOrderPlaced = "order_placed"
)

// OrderPlaced announces a simulated order to whoever handles fulfilment by hand.
type OrderPlaced struct {
	OrderNumber int               `json:"order_number"`
	SessionID   string            `json:"session_id"`
	Customer    domain.Customer   `json:"customer"`
	Items       []domain.CartItem `json:"items"`
	Total       float64           `json:"total"`
	PlacedAt    time.Time         `json:"placed_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event OrderPlaced) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event OrderPlaced) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderNumber)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventTypeOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order %d: %w", event.OrderNumber, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderPlaced) error { return nil }

func (NopPublisher) Close() error { return nil }
