// Package simulation runs the four input files of a restaurant through the
// domain model and hands every recorded event to the configured handlers.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/app/descriptor"
	"github.com/YelzhanWeb/restaurant/internal/app/events"
	"github.com/YelzhanWeb/restaurant/internal/domain"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

type Service struct {
	logger   logger.Logger
	tracer   trace.Tracer
	handlers []interfaces.EventHandler
	now      func() time.Time
}

func NewService(logger logger.Logger, tracer trace.Tracer, handlers ...interfaces.EventHandler) interfaces.SimulationService {
	return &Service{
		logger:   logger,
		tracer:   tracer,
		handlers: handlers,
		now:      time.Now,
	}
}

// Run loads the restaurant, ingredients and menu, then applies the event
// stream. It stops at the first parse or domain error. Handler failures are
// logged and counted but never stop the run.
func (s *Service) Run(ctx context.Context, fsys fs.FS, inputs interfaces.RunInputs) (*interfaces.RunSummary, error) {
	runID := fmt.Sprintf("run-%d", s.now().UnixNano())
	ctx = interfaces.WithRunID(ctx, runID)
	summary := &interfaces.RunSummary{RunID: runID}

	ctx, span := s.tracer.Start(ctx, "simulation.run", trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	s.logger.Info("run_started", "Simulation started", runID, map[string]interface{}{
		"restaurant":  inputs.Restaurant,
		"ingredients": inputs.Ingredients,
		"menu":        inputs.Menu,
		"events":      inputs.Events,
	})

	if err := s.run(ctx, fsys, inputs, summary); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		details := map[string]interface{}{"events_applied": summary.EventsApplied}
		var le *descriptor.LineError
		if errors.As(err, &le) {
			details["file"] = le.File
			details["line"] = le.Line
		}
		s.logger.Error("run_failed", "Simulation stopped", runID, details, err)
		return summary, err
	}

	s.logger.Info("run_completed", "Simulation completed", runID, map[string]interface{}{
		"events_applied":  summary.EventsApplied,
		"domain_events":   summary.DomainEvents,
		"restock_signals": summary.RestockSignals,
		"handler_errors":  summary.HandlerErrors,
	})
	return summary, nil
}

func (s *Service) run(ctx context.Context, fsys fs.FS, inputs interfaces.RunInputs, summary *interfaces.RunSummary) error {
	// 1. Загрузка ресторана
	var rest *domain.Restaurant
	err := withFile(fsys, inputs.Restaurant, func(r io.Reader) error {
		var err error
		rest, err = descriptor.ParseRestaurant(inputs.Restaurant, r)
		return err
	})
	if err != nil {
		return err
	}

	// 2. Склад и меню
	err = withFile(fsys, inputs.Ingredients, func(r io.Reader) error {
		return descriptor.LoadIngredients(inputs.Ingredients, r, rest)
	})
	if err != nil {
		return err
	}
	err = withFile(fsys, inputs.Menu, func(r io.Reader) error {
		return descriptor.LoadMenu(inputs.Menu, r, rest)
	})
	if err != nil {
		return err
	}
	s.dispatch(ctx, rest.Drain(), summary)

	// 3. События
	var lines []string
	err = withFile(fsys, inputs.Events, func(r io.Reader) error {
		var err error
		lines, err = descriptor.ReadLines(r)
		return err
	})
	if err != nil {
		return err
	}

	in := events.New(inputs.Events, lines, rest)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		stop, err := s.step(ctx, in, rest, summary)
		if err != nil || stop {
			return err
		}
	}
}

// step applies one event block inside its own span. Events recorded before a
// failure are still dispatched.
func (s *Service) step(ctx context.Context, in *events.Interpreter, rest *domain.Restaurant, summary *interfaces.RunSummary) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "simulation.event")
	defer span.End()

	applied, err := in.Step()
	defer s.dispatch(ctx, rest.Drain(), summary)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return true, err
	}

	summary.EventsApplied++
	span.SetAttributes(
		attribute.String("event.label", string(applied.Label)),
		attribute.Int("event.line", applied.Line),
	)
	s.logger.Debug("event_applied", fmt.Sprintf("%s block applied", applied.Label), interfaces.RunID(ctx), map[string]interface{}{
		"label": applied.Label,
		"line":  applied.Line,
	})
	return false, nil
}

func (s *Service) dispatch(ctx context.Context, recorded []domain.Event, summary *interfaces.RunSummary) {
	for _, ev := range recorded {
		summary.DomainEvents++
		if ev.Kind() == domain.KindRestockNeeded {
			summary.RestockSignals++
		}
		for _, h := range s.handlers {
			if err := h.Handle(ctx, ev); err != nil {
				summary.HandlerErrors++
				s.logger.Error("handler_failed", "Event handler failed", interfaces.RunID(ctx), map[string]interface{}{
					"event": ev.Kind(),
				}, err)
			}
		}
	}
}

func withFile(fsys fs.FS, name string, fn func(io.Reader) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("could not find %s: %w", name, err)
		}
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	return fn(f)
}
