// Package kafka appends restock requests to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/YelzhanWeb/restaurant/internal/config"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

// Producer is the part of *kafka.Writer the restock writer needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type RestockWriter struct {
	producer Producer
}

// NewWriter builds a kafka-go writer for the configured topic.
func NewWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

func NewRestockWriter(producer Producer) *RestockWriter {
	return &RestockWriter{producer: producer}
}

// Request writes the request keyed by ingredient, so requests for the same
// ingredient stay ordered within a partition. The trace context of ctx is
// carried in the message headers.
func (w *RestockWriter) Request(ctx context.Context, req interfaces.RestockRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(req.Ingredient),
		Value: body,
		Time:  req.RequestedAt,
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{msg: &msg})

	if err := w.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write restock request: %w", err)
	}
	return nil
}

func (w *RestockWriter) Close() error {
	return w.producer.Close()
}

// headerCarrier adapts kafka message headers to propagation.TextMapCarrier.
type headerCarrier struct {
	msg *kafka.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}
