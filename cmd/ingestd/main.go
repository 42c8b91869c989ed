// ingestd is the fetch side of ingestion: it periodically pulls postings
// from the vendor APIs for every active source, hands each record to the
// dedup gate over NATS, and records sync logs.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/config"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/database"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/ingest"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/store"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/synclog"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("failed to sync logger: %v", err)
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTLPCollectorURL != "" {
		shutdown, err := telemetry.InitTracer(ctx, "talenthub-ingestd", cfg.OTLPCollectorURL)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()
	pg := store.New(pool, logger)

	ch, err := database.New(ctx, database.Options{
		Addr:            cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to clickhouse", zap.Error(err))
	}
	defer ch.Close()
	syncs := synclog.New(ch.Conn(), logger)

	dispatcher, err := ingest.NewDispatcher(cfg.NATSURL, cfg.NATSConnTimeout, cfg.DispatchTimeout, logger)
	if err != nil {
		logger.Fatal("failed to create NATS dispatcher", zap.Error(err))
	}
	defer dispatcher.Close()

	fetchers := []ingest.Fetcher{
		ingest.NewAdzunaFetcher(cfg.AdzunaAppID, cfg.AdzunaAppKey, cfg.AdzunaCountry, cfg.FetchTimeout, logger),
		ingest.NewJoobleFetcher(cfg.JoobleAPIKey, cfg.FetchTimeout, logger),
	}
	query := ingest.Query{Keywords: cfg.SearchKeywords, Location: cfg.SearchLocation}

	scheduler := ingest.NewScheduler(pg, syncs, dispatcher, fetchers, query,
		cfg.SyncIntervalHours, cfg.SyncWorkers, logger)

	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	logger.Info("ingestd started",
		zap.Int("sync_interval_hours", cfg.SyncIntervalHours),
		zap.Int("workers", cfg.SyncWorkers))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	scheduler.Stop()
	logger.Info("shutdown complete")
}
