package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/lb-demo-backend/config"
	"github.com/angeloszaimis/lb-demo-backend/internal/counter"
	"github.com/angeloszaimis/lb-demo-backend/internal/handler"
	"github.com/angeloszaimis/lb-demo-backend/internal/httpserver"
	"github.com/angeloszaimis/lb-demo-backend/internal/instance"
	"github.com/angeloszaimis/lb-demo-backend/internal/stats"
	"github.com/angeloszaimis/lb-demo-backend/pkg/logger"
)

const statsBufferSize = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	provider := instance.NewProvider(cfg.Instance.ID, cfg.Instance.Color)

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment, provider.Hostname())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := stats.NewCollector(statsBufferSize, log)
	collector.Start(ctx)

	requestCounter := counter.New()
	routes := handler.New(log, provider, requestCounter, collector)

	mux := setupRouter(routes, collector)

	srv, err := httpserver.New(cfg.Addr(), handler.RequestID(mux))
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Starting server",
		slog.Int("port", cfg.Server.Port),
		slog.String("instance_id", cfg.Instance.ID),
		slog.String("instance_color", cfg.Instance.Color))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}
