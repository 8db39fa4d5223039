package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

// RestockPublisher broadcasts restock requests on a fanout exchange.
type RestockPublisher struct {
	conn     Connection
	exchange string
}

func NewRestockPublisher(conn Connection, exchange string) *RestockPublisher {
	return &RestockPublisher{conn: conn, exchange: exchange}
}

func (p *RestockPublisher) Request(ctx context.Context, req interfaces.RestockRequest) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	// Declare exchange
	if err := ch.ExchangeDeclare(p.exchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    req.ID,
		Timestamp:    req.RequestedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}
