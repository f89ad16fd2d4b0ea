package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"compras/internal/amqp"
	"compras/internal/backend"
	"compras/internal/cache"
	"compras/internal/cli"
	apphttp "compras/internal/http"
	applog "compras/internal/log"
	"compras/internal/services"
	"compras/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting compras",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"units", len(cfg.StoreUnits),
		"strict_month", cfg.StatsStrictMonth)

	caches := cache.NewManager()
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger, caches).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Failed to close backend", "error", err)
		}
	}()

	// Change notifications are optional; without a broker the mirror
	// falls back to its periodic full sync.
	var notifier services.Notifier
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cli.ComponentLogger(applog.ComponentAMQP))
		if err != nil {
			logger.Warn("AMQP unavailable, change notifications disabled", "error", err)
		} else {
			defer client.Close()
			notifier = client
			logger.Info("AMQP notifications enabled", "exchange", cfg.AMQPExchange)
		}
	}

	keys := storage.Keys{Prefix: cfg.KeyPrefix}
	ws, err := services.NewWorkspace(context.Background(), services.Options{
		Store:    result.Store,
		Keys:     keys,
		Units:    cfg.StoreUnits,
		Notifier: notifier,
		Logger:   cli.ComponentLogger(applog.ComponentWorkspace),
	})
	if err != nil {
		logger.Error("Failed to load workspace", "error", err)
		os.Exit(1)
	}
	access := services.NewAccessGate(context.Background(), result.Store, keys.Restricted(),
		cfg.AccessPasscode, cli.ComponentLogger(applog.ComponentAccess))

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Workspace:        ws,
		Access:           access,
		Store:            result.Store,
		Caches:           caches,
		Logger:           cli.ComponentLogger(applog.ComponentHTTP),
		StatsStrictMonth: cfg.StatsStrictMonth,
		CacheTTL:         cfg.CacheTTL,
	})

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	})

	logger.Info("Server listening", "addr", srv.Addr, "unit", ws.Unit())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("Server stopped")
}
