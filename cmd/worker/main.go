package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	"github.com/felixgeelhaar/lifecycles/internal/app"
	"github.com/felixgeelhaar/lifecycles/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/lifecycles/pkg/config"
	"github.com/felixgeelhaar/lifecycles/pkg/observability"
)

// The worker keeps a registry in sync with changes made by other
// processes: every lifecycle event on the exchange triggers a reload.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		app.NewLogger(&config.Config{AppEnv: "development"}, os.Stdout, cli.Version).
			Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stdout, cli.Version)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("worker failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is required for the worker")
	}
	logger.Info("starting lifecycles worker", "instance_id", cfg.InstanceID)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	if err := container.Start(ctx); err != nil {
		return err
	}

	queue := cfg.RabbitMQQueue
	if queue == "" {
		queue = eventbus.DefaultConsumerQueueName + "." + cfg.InstanceID
	}
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: queue,
		Logger:    logger,
	}, eventbus.NewConsumerRegistry(logger))
	if err != nil {
		return err
	}
	defer consumer.Close()
	consumer.RegisterConsumer(container.ReloadSubscriber)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.WorkerHealthAddr != "" {
		g.Go(func() error {
			return serveHealth(ctx, cfg.WorkerHealthAddr, container.Health, logger)
		})
	}
	g.Go(func() error {
		err := consumer.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// serveHealth answers liveness on /healthz and dependency health on /readyz
// until ctx ends.
func serveHealth(ctx context.Context, addr string, health *observability.HealthRegistry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		overall := health.GetOverallHealth(checkCtx)
		status := http.StatusOK
		if overall.Status == observability.HealthStatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, overall)
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()

	logger.Info("health server starting", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
