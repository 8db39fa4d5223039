package restock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type recorder struct {
	got []interfaces.RestockRequest
	err error
}

func (r *recorder) Request(_ context.Context, req interfaces.RestockRequest) error {
	r.got = append(r.got, req)
	return r.err
}

func TestServiceFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	svc := NewService(20, logger.NewNop(), a, b)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	ctx := interfaces.WithRunID(context.Background(), "run-7")
	require.NoError(t, svc.Handle(ctx, domain.RestockNeeded{Ingredient: "Bun", Threshold: 5, Amount: 3}))
	require.NoError(t, svc.Handle(ctx, domain.RestockNeeded{Ingredient: "Patty", Threshold: 4, Amount: 1, Initial: true}))

	want := []interfaces.RestockRequest{
		{ID: "run-7-restock-1", Ingredient: "Bun", Quantity: 20, Threshold: 5, Amount: 3, RequestedAt: fixed},
		{ID: "run-7-restock-2", Ingredient: "Patty", Quantity: 20, Threshold: 4, Amount: 1, Initial: true, RequestedAt: fixed},
	}
	assert.Equal(t, want, a.got)
	assert.Equal(t, want, b.got)
}

func TestServiceIgnoresOtherEvents(t *testing.T) {
	a := &recorder{}
	svc := NewService(20, logger.NewNop(), a)
	require.NoError(t, svc.Handle(context.Background(), domain.OrderReady{}))
	assert.Empty(t, a.got)
}

func TestServiceTriesEveryRequester(t *testing.T) {
	broken := &recorder{err: errors.New("broker down")}
	ok := &recorder{}
	svc := NewService(20, logger.NewNop(), broken, ok)

	err := svc.Handle(context.Background(), domain.RestockNeeded{Ingredient: "Bun"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Len(t, ok.got, 1)
}

func TestRequesterFunc(t *testing.T) {
	var called bool
	var r interfaces.RestockRequester = interfaces.RestockRequesterFunc(func(context.Context, interfaces.RestockRequest) error {
		called = true
		return nil
	})
	require.NoError(t, r.Request(context.Background(), interfaces.RestockRequest{}))
	assert.True(t, called)
}
