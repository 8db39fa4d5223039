package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/YelzhanWeb/restaurant/internal/adapter/console"
	"github.com/YelzhanWeb/restaurant/internal/adapter/kafka"
	"github.com/YelzhanWeb/restaurant/internal/adapter/logger"
	"github.com/YelzhanWeb/restaurant/internal/adapter/observability"
	"github.com/YelzhanWeb/restaurant/internal/adapter/postgres"
	"github.com/YelzhanWeb/restaurant/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/restaurant/internal/adapter/requestfile"
	"github.com/YelzhanWeb/restaurant/internal/app/restock"
	"github.com/YelzhanWeb/restaurant/internal/app/simulation"
	"github.com/YelzhanWeb/restaurant/internal/config"
	"github.com/YelzhanWeb/restaurant/internal/interfaces"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command-line flags
	configPath := pflag.String("config", "config.yaml", "Path to the YAML configuration")
	dir := pflag.String("dir", "", "Directory holding the input files (overrides inputs.dir)")
	logLevel := pflag.String("log-level", "", "Log level: debug, info, error (overrides logging.level)")
	quiet := pflag.Bool("quiet", false, "Do not print restaurant messages to stdout")
	pflag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *dir != "" {
		cfg.Inputs.Dir = *dir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize logger
	lgr, err := logger.New(cfg.Tracing.ServiceName, cfg.Logging.Level)
	if err != nil {
		return err
	}

	tracer, shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			lgr.Error("tracing_shutdown_failed", "Failed to flush traces", "shutdown", nil, err)
		}
	}()

	requesters, closers, err := restockRequesters(ctx, cfg.Restock, lgr)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				lgr.Error("close_failed", "Failed to close restock requester", "shutdown", nil, err)
			}
		}
	}()
	if err != nil {
		return err
	}

	handlers := []interfaces.EventHandler{
		restock.NewService(cfg.Restock.Quantity, lgr, requesters...),
	}
	if !*quiet {
		handlers = append([]interfaces.EventHandler{console.NewReporter(os.Stdout)}, handlers...)
	}

	svc := simulation.NewService(lgr, tracer, handlers...)
	_, err = svc.Run(ctx, os.DirFS(cfg.Inputs.Dir), interfaces.RunInputs{
		Restaurant:  cfg.Inputs.Restaurant,
		Ingredients: cfg.Inputs.Ingredients,
		Menu:        cfg.Inputs.Menu,
		Events:      cfg.Inputs.Events,
	})
	return err
}

// restockRequesters opens every enabled restock destination. Closers are
// returned even on error so the caller can release what was opened.
func restockRequesters(ctx context.Context, cfg config.RestockConfig, lgr logger.Logger) ([]interfaces.RestockRequester, []io.Closer, error) {
	var requesters []interfaces.RestockRequester
	var closers []io.Closer

	if cfg.File.Path != "" {
		w, err := requestfile.Create(cfg.File.Path)
		if err != nil {
			return nil, closers, err
		}
		requesters = append(requesters, w)
		closers = append(closers, w)
	}

	// Connect to RabbitMQ
	if cfg.RabbitMQ.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, conn)
		requesters = append(requesters, rabbitmq.NewRestockPublisher(conn, cfg.RabbitMQ.Exchange))
		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host":     cfg.RabbitMQ.Host,
			"exchange": cfg.RabbitMQ.Exchange,
		})
	}

	if cfg.Kafka.Enabled {
		w := kafka.NewRestockWriter(kafka.NewWriter(cfg.Kafka))
		closers = append(closers, w)
		requesters = append(requesters, w)
		lgr.Info("kafka_configured", "Kafka restock writer ready", "startup", map[string]interface{}{
			"brokers": cfg.Kafka.Brokers,
			"topic":   cfg.Kafka.Topic,
		})
	}

	// Connect to PostgreSQL
	if cfg.Postgres.Enabled {
		db, err := postgres.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, closers, err
		}
		closers = append(closers, closerFunc(func() error { db.Close(); return nil }))
		repo := postgres.NewRestockRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, closers, err
		}
		requesters = append(requesters, postgres.Requester(repo))
		lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
			"host": cfg.Postgres.Host,
			"db":   cfg.Postgres.Database,
		})
	}

	if len(requesters) == 0 {
		lgr.Info("restock_disabled", "No restock destination configured", "startup", nil)
	}
	return requesters, closers, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
