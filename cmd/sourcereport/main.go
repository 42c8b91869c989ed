// sourcereport prints the operator-facing source quality comparison table:
// every active source scored and ranked descending by quality score.
package main

import (
	"context"
	"log"
	"os"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache"
	cacheredis "github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache/redis"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/config"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/database"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/quality"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/report"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/store"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/synclog"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

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

	rdb := cacheredis.New(cache.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.SnapshotCacheTTL,
	})
	defer rdb.Close()

	scorer := quality.NewScorer(pg, pg, syncs, logger)
	renderer := report.NewRenderer(scorer, rdb, cfg.SnapshotCacheTTL, logger)

	snapshot, err := renderer.Snapshot(ctx)
	if err != nil {
		logger.Fatal("failed to build quality snapshot", zap.Error(err))
	}

	if err := renderer.WriteTable(os.Stdout, snapshot); err != nil {
		logger.Fatal("failed to render table", zap.Error(err))
	}
}
