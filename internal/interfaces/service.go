package interfaces

import (
	"context"
	"io/fs"
)

// Интерфейсы Сервисов (Business Logic)
type SimulationService interface {
	Run(ctx context.Context, fsys fs.FS, inputs RunInputs) (*RunSummary, error)
}

// RunInputs names the four input files inside the run's file system.
type RunInputs struct {
	Restaurant  string
	Ingredients string
	Menu        string
	Events      string
}

// RunSummary reports what a finished run did.
type RunSummary struct {
	RunID          string
	EventsApplied  int
	DomainEvents   int
	RestockSignals int
	HandlerErrors  int
}

type runIDKey struct{}

// WithRunID attaches the run id that handlers use as their request id.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
