// Package kafka publishes committed order events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

// OrderChangedMessage is the JSON value of every published message. The
// message key is the order id, so events of one order keep their order
// within a partition.
type OrderChangedMessage struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	CustomerID  string    `json:"customerId,omitempty"`
	Total       string    `json:"total"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to,omitempty"`
	Hard        bool      `json:"hard,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventPublisher writes order events to a single topic.
type OrderEventPublisher struct {
	writer messageWriter
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	brokers := []string{}
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

const (
	batchTimeout = 10 * time.Millisecond
	writeTimeout = time.Second
	maxAttempts  = 3
)

// NewOrderEventPublisher creates a synchronous publisher. Events of one
// commit are flushed right away instead of waiting for a full batch.
func NewOrderEventPublisher(brokers []string, topic string) *OrderEventPublisher {
	return &OrderEventPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
		MaxAttempts:            maxAttempts,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes the events in one batch.
func (p *OrderEventPublisher) Publish(ctx context.Context, events ...order.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := newMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order events: %w", len(msgs), err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(e order.Event) (kafka.Message, error) {
	payload := OrderChangedMessage{
		Type:        string(e.Type),
		OrderID:     e.OrderID.String(),
		OrderNumber: e.Number.String(),
		Total:       e.Total.String(),
		From:        e.From,
		To:          e.To,
		Hard:        e.Hard,
		OccurredAt:  e.OccurredAt.UTC(),
	}
	if e.CustomerID != nil {
		payload.CustomerID = e.CustomerID.String()
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:     []byte(payload.OrderID),
		Value:   value,
		Time:    payload.OccurredAt,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(payload.Type)}},
	}, nil
}
