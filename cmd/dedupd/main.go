// dedupd is the store side of ingestion: it receives dispatched records,
// runs each through the duplicate detector before insertion, and replies
// with the outcome.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache"
	cacheredis "github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache/redis"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/config"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/dedup"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/ingest"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("talenthub-dedupd"),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(cfg.NATSURL, opts...)
}

func newPostgresPool(cfg *config.Config) (*pgxpool.Pool, error) {
	return store.NewPool(context.Background(), cfg.DatabaseURL)
}

func newStore(pool *pgxpool.Pool, logger *zap.Logger) (*store.Store, error) {
	s := store.New(pool, logger)
	if err := s.EnsureSchema(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func newCache(cfg *config.Config) cache.Cache {
	return cacheredis.New(cache.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.CacheTTL,
	})
}

func newDetector(s *store.Store, c cache.Cache, cfg *config.Config, logger *zap.Logger) *dedup.Detector {
	sources := store.NewCachedSources(s, c, cfg.CacheTTL, logger)
	return dedup.NewDetector(s, sources, logger)
}

func newPipeline(detector *dedup.Detector, s *store.Store, logger *zap.Logger) *ingest.Pipeline {
	return ingest.NewPipeline(detector, s, logger)
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newNATSConnection,
			newPostgresPool,
			newStore,
			newCache,
			newDetector,
			newPipeline,
			ingest.NewSubscriber,
		),
		fx.Invoke(
			func(subscriber *ingest.Subscriber, lc fx.Lifecycle) error {
				return subscriber.RegisterSubscriptions(lc)
			},
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
