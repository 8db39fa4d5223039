package postgres

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

const schema = `
CREATE TABLE IF NOT EXISTS restock_requests (
	id           BIGSERIAL PRIMARY KEY,
	request_id   TEXT NOT NULL UNIQUE,
	ingredient   TEXT NOT NULL,
	quantity     INTEGER NOT NULL,
	threshold    INTEGER NOT NULL,
	amount       INTEGER NOT NULL,
	initial      BOOLEAN NOT NULL DEFAULT FALSE,
	requested_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS restock_totals (
	ingredient TEXT PRIMARY KEY,
	requested  INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL
);
`

type restockRepository struct {
	db DB
}

func NewRestockRepository(db DB) interfaces.RestockRepository {
	return &restockRepository{db: db}
}

func (r *restockRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create restock schema: %w", err)
	}
	return nil
}

// Save stores the request and adds its quantity to the ingredient's running
// total in one transaction.
func (r *restockRepository) Save(ctx context.Context, req interfaces.RestockRequest) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO restock_requests (request_id, ingredient, quantity, threshold, amount, initial, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err = tx.QueryRow(ctx, query,
		req.ID, req.Ingredient, req.Quantity, req.Threshold, req.Amount, req.Initial, req.RequestedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert restock request: %w", err)
	}

	totalQuery := `
		INSERT INTO restock_totals (ingredient, requested, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (ingredient)
		DO UPDATE SET requested = restock_totals.requested + EXCLUDED.requested, updated_at = EXCLUDED.updated_at
	`
	tag, err := tx.Exec(ctx, totalQuery, req.Ingredient, req.Quantity, req.RequestedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to update restock total: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return 0, fmt.Errorf("restock total for %q: %d rows affected", req.Ingredient, tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit restock request: %w", err)
	}
	return id, nil
}

// Requester adapts a repository to interfaces.RestockRequester.
func Requester(repo interfaces.RestockRepository) interfaces.RestockRequester {
	return interfaces.RestockRequesterFunc(func(ctx context.Context, req interfaces.RestockRequest) error {
		_, err := repo.Save(ctx, req)
		return err
	})
}
