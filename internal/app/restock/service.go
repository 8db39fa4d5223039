package restock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

// Service turns restock signals into requests and hands each request to every
// configured requester.
type Service struct {
	quantity   int
	requesters []interfaces.RestockRequester
	logger     logger.Logger
	now        func() time.Time

	mu  sync.Mutex
	seq int
}

func NewService(quantity int, logger logger.Logger, requesters ...interfaces.RestockRequester) *Service {
	return &Service{
		quantity:   quantity,
		requesters: requesters,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle ignores every event except domain.RestockNeeded.
func (s *Service) Handle(ctx context.Context, ev domain.Event) error {
	signal, ok := ev.(domain.RestockNeeded)
	if !ok {
		return nil
	}
	_, err := s.Request(ctx, signal)
	return err
}

// Request builds a request from the signal and fans it out. All requesters
// are tried; their failures are joined.
func (s *Service) Request(ctx context.Context, signal domain.RestockNeeded) (interfaces.RestockRequest, error) {
	runID := interfaces.RunID(ctx)

	// 1. Формирование запроса
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	req := interfaces.RestockRequest{
		ID:          fmt.Sprintf("%s-restock-%d", runID, seq),
		Ingredient:  signal.Ingredient,
		Quantity:    s.quantity,
		Threshold:   signal.Threshold,
		Amount:      signal.Amount,
		Initial:     signal.Initial,
		RequestedAt: s.now().UTC(),
	}

	// 2. Отправка всем получателям
	var errs error
	for _, r := range s.requesters {
		if err := r.Request(ctx, req); err != nil {
			s.logger.Error("restock_request_failed", "Failed to deliver restock request", runID, map[string]interface{}{
				"request_id": req.ID,
				"ingredient": req.Ingredient,
			}, err)
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return req, fmt.Errorf("restock %q: %w", req.Ingredient, errs)
	}

	s.logger.Debug("restock_requested", "Restock request delivered", runID, map[string]interface{}{
		"request_id": req.ID,
		"ingredient": req.Ingredient,
		"quantity":   req.Quantity,
		"requesters": len(s.requesters),
	})
	return req, nil
}
