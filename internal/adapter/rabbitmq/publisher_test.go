package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/restaurant/internal/config"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

func TestRestockPublisher(t *testing.T) {
	ch := &fakeChannel{}
	p := NewRestockPublisher(&fakeConnection{ch: ch}, "restock_fanout")

	req := interfaces.RestockRequest{
		ID:          "run-1-restock-1",
		Ingredient:  "Bun",
		Quantity:    20,
		Threshold:   5,
		Amount:      4,
		RequestedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.Request(context.Background(), req))

	assert.Equal(t, []string{"restock_fanout:fanout"}, ch.declared)
	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, "restock_fanout", msg.exchange)
	assert.Equal(t, "", msg.key)
	assert.Equal(t, amqp.Persistent, msg.msg.DeliveryMode)
	assert.Equal(t, "run-1-restock-1", msg.msg.MessageId)
	assert.True(t, ch.closed)

	var got interfaces.RestockRequest
	require.NoError(t, json.Unmarshal(msg.msg.Body, &got))
	assert.Equal(t, req, got)
}

func TestRestockPublisherErrors(t *testing.T) {
	conn := &fakeConnection{ch: &fakeChannel{}, closed: true}
	assert.Error(t, NewRestockPublisher(conn, "x").Request(context.Background(), interfaces.RestockRequest{}))

	boom := errors.New("boom")
	conn = &fakeConnection{ch: &fakeChannel{publishErr: boom}}
	assert.ErrorIs(t, NewRestockPublisher(conn, "x").Request(context.Background(), interfaces.RestockRequest{}), boom)
}

func TestURL(t *testing.T) {
	assert.Equal(t, "amqp://guest:secret@mq:5672/", URL(config.RabbitMQConfig{User: "guest", Password: "secret", Host: "mq", Port: 5672}))
}
