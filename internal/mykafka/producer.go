package mykafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/storefront/internal/events"
)

const (
	TopicCatalog = "catalog_events"
	TopicCart    = "cart_events"
	TopicAuth    = "auth_events"

	publishTimeout = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

// NewProducer returns an async producer; delivery errors are logged.
func NewProducer(brokers []string, log *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Error("kafka_delivery_failed", "messages", len(msgs), "error", err)
			}
		},
	}
	return &Producer{writer: w}
}

func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type message struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	ProductID int            `json:"product_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	At        time.Time      `json:"at"`
}

// Listener publishes every store event to the topic of its store.
func Listener(p *Producer, log *slog.Logger) events.Listener {
	return func(e events.Event) {
		topic, ok := topicFor(e.Store)
		if !ok {
			return
		}
		key := e.SessionID
		if key == "" {
			key = strconv.Itoa(e.ProductID)
		}

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		msg := message{
			Type:      e.Type,
			SessionID: e.SessionID,
			ProductID: e.ProductID,
			Payload:   e.Payload,
			At:        time.Now().UTC(),
		}
		if err := p.PublishEvent(ctx, topic, key, msg); err != nil {
			log.Error("kafka_publish_failed", "topic", topic, "type", e.Type, "error", err)
		}
	}
}

func topicFor(store string) (string, bool) {
	switch store {
	case events.StoreCatalog:
		return TopicCatalog, true
	case events.StoreCart:
		return TopicCart, true
	case events.StoreAuth:
		return TopicAuth, true
	default:
		return "", false
	}
}
