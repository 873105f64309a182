package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"admindash/internal/backend"
	"admindash/internal/cache"
	"admindash/internal/cli"
	"admindash/internal/config"
	apphttp "admindash/internal/http"
	"admindash/internal/log"
	"admindash/internal/middleware/ratelimit"
	"admindash/internal/records"
	"admindash/internal/services"
	"admindash/internal/sheets"
	gsheet "admindash/internal/sheets/google"
)

const (
	datasetCacheSize    = 16
	cacheCleanupEvery   = 10 * time.Minute
	shutdownGracePeriod = 30 * time.Second
)

func main() {
	cfg, logger := cli.Bootstrap()
	ctx := context.Background()

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger.Logger).Create(ctx, bc)
	if err != nil {
		logger.Error("Failed to open data backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	caches := cache.NewManager()
	datasets, closeCache := datasetCache(ctx, cfg, logger, caches)

	fetcher := records.New(res.Store, cfg.FetchTimeout)
	dashboard := services.NewDashboardService(fetcher, datasets, logger)
	reports := services.NewReportService(dashboard, fetcher, reportWriter(ctx, cfg, logger), logger)

	var pinger apphttp.Pinger
	if p, ok := res.Store.(apphttp.Pinger); ok {
		pinger = p
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Dashboard:  dashboard,
		Employees:  services.NewEmployeeService(fetcher, res.Store, logger),
		Projects:   services.NewProjectService(fetcher, res.Store, logger),
		Reports:    reports,
		Records:    fetcher,
		Subscriber: res.Store,
		Pinger:     pinger,
		Caches:     caches,
		Logger:     logger,
		RateLimit: ratelimit.Config{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		TrustedProxies: cfg.TrustedProxies,
	})
	srv.MaxHeaderBytes = 1 << 16
	caches.StartCleanup(cacheCleanupEvery)

	shutdownCtx, done := cli.GracefulShutdown(logger, shutdownGracePeriod, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
		closeCache()
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting admindash server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"publishing", res.Publishing,
		"reports", reports.Enabled(),
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}

// datasetCache shares the dashboard dataset through Redis when configured,
// falling back to an in-process LRU when Redis is absent or unreachable.
func datasetCache(ctx context.Context, cfg *config.Config, logger *log.Logger, caches *cache.Manager) (cache.Store[services.Dataset], func()) {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			logger.Info("Using Redis dataset cache", "ttl", cfg.CacheTTL)
			return cache.NewRedisCache[services.Dataset](client, cache.KeyPrefix, cfg.CacheTTL), func() { _ = client.Close() }
		}
		logger.Warn("Redis unavailable, using in-process dataset cache", log.FieldError, err)
	}
	lru := cache.NewLRUCache[services.Dataset](datasetCacheSize, cfg.CacheTTL)
	caches.Register(lru)
	return cache.NewLocal[services.Dataset](lru), func() {}
}

// reportWriter returns nil when reports are not configured. A configured but
// failing writer is fatal.
func reportWriter(ctx context.Context, cfg *config.Config, logger *log.Logger) sheets.ReportWriter {
	if !cfg.ReportsEnabled() {
		logger.Info("Report export disabled - no GOOGLE_SPREADSHEET_ID provided")
		return nil
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.ReportSheetName,
		CredentialsJSON: cfg.GoogleCredentialsJSON,
		CredentialsFile: cfg.GoogleCredentialsFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets report writer initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client
}
