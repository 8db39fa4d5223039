package interfaces

import (
	"context"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/domain"
)

// Сообщения о пополнении склада
type RestockRequest struct {
	ID          string    `json:"id"`
	Ingredient  string    `json:"ingredient"`
	Quantity    int       `json:"quantity"`
	Threshold   int       `json:"threshold"`
	Amount      int       `json:"amount"`
	Initial     bool      `json:"initial"`
	RequestedAt time.Time `json:"requested_at"`
}

// RestockRequester delivers a restock request to one external system. It
// never feeds anything back into the simulation.
type RestockRequester interface {
	Request(ctx context.Context, req RestockRequest) error
}

type RestockRequesterFunc func(ctx context.Context, req RestockRequest) error

func (f RestockRequesterFunc) Request(ctx context.Context, req RestockRequest) error {
	return f(ctx, req)
}

// EventHandler reacts to domain events drained from the restaurant.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

type EventHandlerFunc func(ctx context.Context, ev domain.Event) error

func (f EventHandlerFunc) Handle(ctx context.Context, ev domain.Event) error {
	return f(ctx, ev)
}
