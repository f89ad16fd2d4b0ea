package main

import (
	"context"
	"os"
	"time"

	"compras/internal/amqp"
	"compras/internal/backend"
	"compras/internal/cache"
	"compras/internal/cli"
	applog "compras/internal/log"
	"compras/internal/sheets"
	"compras/internal/sheets/google"
	"compras/internal/sheets/memory"
	"compras/internal/storage"
	"compras/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Invalid mirror configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting compras-mirror",
		"backend", cfg.DataBackend,
		"interval", cfg.MirrorInterval,
		"concurrency", cfg.MirrorConcurrency)

	caches := cache.NewManager()
	defer caches.Stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	// The mirror reads what the API wrote; a read cache would only delay it.
	backendCfg.CacheTTL = 0
	result, err := backend.NewFactory(logger, caches).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "backend", cfg.DataBackend, "error", err)
		os.Exit(1)
	}
	defer result.Close()

	var writer sheets.RowWriter
	if cfg.MirrorEnabled() {
		client, err := google.New(context.Background(), cfg.GoogleSpreadsheetID, google.Credentials{
			ClientJSON: cfg.GoogleOAuthClientJSON,
			ClientFile: cfg.GoogleOAuthClientFile,
			TokenJSON:  cfg.GoogleOAuthTokenJSON,
			TokenFile:  cfg.GoogleOAuthTokenFile,
		})
		if err != nil {
			logger.Error("Failed to create Sheets client", "error", err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Mirroring to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = memory.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring to memory only")
	}

	w := worker.NewMirrorWorker(result.Store, storage.Keys{Prefix: cfg.KeyPrefix}, cfg.StoreUnits,
		writer, cfg.MirrorConcurrency, cli.ComponentLogger(applog.ComponentWorker))

	var client *amqp.Client
	if cfg.AMQPURL != "" {
		client, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cli.ComponentLogger(applog.ComponentAMQP))
		if err != nil {
			logger.Warn("AMQP unavailable, relying on periodic sync", "error", err)
			client = nil
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if client != nil {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close AMQP client", "error", err)
			}
		}
	})

	go w.Run(ctx, cfg.MirrorInterval)

	if client != nil {
		go func() {
			logger.Info("Consuming collection changes", "queue", cfg.AMQPQueue)
			if err := client.ConsumeCollectionChanged(ctx, w.HandleCollectionChanged); err != nil && ctx.Err() == nil {
				logger.Error("Collection change consumer stopped", "error", err)
			}
		}()
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("compras-mirror stopped")
}
