package interfaces

import "context"

// Интерфейсы Репозиториев (Adapter/Postgres)
type RestockRepository interface {
	EnsureSchema(ctx context.Context) error
	Save(ctx context.Context, req RestockRequest) (int64, error)
}
