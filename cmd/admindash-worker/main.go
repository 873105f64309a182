package main

import (
	"context"
	"errors"
	"os"
	"time"

	"admindash/internal/amqp"
	"admindash/internal/backend"
	"admindash/internal/cache"
	"admindash/internal/cli"
	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/services"
	gsheet "admindash/internal/sheets/google"
	"admindash/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger = logger.WithComponent(log.ComponentWorker)
	logger.Info("Starting admindash-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the worker")
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Change messages evict the dataset from whichever cache the report
	// reads through: Redis when the servers share one, else a local entry.
	var datasets cache.Store[services.Dataset] = worker.LocalDatasetCache(cfg.CacheTTL)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		datasets = cache.NewRedisCache[services.Dataset](client, cache.KeyPrefix, cfg.CacheTTL)
	} else {
		logger.Warn("REDIS_URL not set - server caches expire by TTL only")
	}

	var exporter worker.Exporter
	if cfg.ReportsEnabled() {
		// Reports only read the store, so it is opened without change publishing.
		bc, err := backend.FromAppConfig(cfg)
		if err != nil {
			logger.Error("Invalid backend configuration", log.FieldError, err)
			os.Exit(1)
		}
		bc.AMQPURL = ""
		res, err := backend.NewFactory(logger.Logger).Create(ctx, bc)
		if err != nil {
			logger.Error("Failed to open data backend", log.FieldError, err)
			os.Exit(1)
		}
		defer func() { _ = res.Cleanup() }()

		writer, err := gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.ReportSheetName,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
			CredentialsFile: cfg.GoogleCredentialsFile,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		fetcher := records.New(res.Store, cfg.FetchTimeout)
		exporter = services.NewReportService(services.NewDashboardService(fetcher, datasets, logger), fetcher, writer, logger)
		logger.Info("Report refresh enabled", "interval", cfg.ReportInterval)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	changes := worker.NewChangeWorker(datasets, exporter, logger)
	go changes.RunReportRefresh(ctx, cfg.ReportInterval)

	if err := amqpClient.ConsumeChanges(ctx, changes.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped", "handled", changes.Handled())
}
