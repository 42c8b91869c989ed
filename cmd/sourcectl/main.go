// sourcectl manages ingestion sources: list active sources, register a new
// one, or soft-deactivate one. Deactivation also drops the source's cached
// row so running dedup workers stop ranking against stale data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache"
	cacheredis "github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache/redis"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/config"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/store"

	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  sourcectl list
  sourcectl add -name <name> -type <api|rss|scraper|partner> [-interval <hours>]
  sourcectl deactivate -id <source-id>
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

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

	switch os.Args[1] {
	case "list":
		listSources(ctx, pg, logger)
	case "add":
		addSource(ctx, pg, logger, os.Args[2:])
	case "deactivate":
		deactivateSource(ctx, pg, cfg, logger, os.Args[2:])
	default:
		usage()
	}
}

func listSources(ctx context.Context, pg *store.Store, logger *zap.Logger) {
	sources, err := pg.ListActiveSources(ctx)
	if err != nil {
		logger.Fatal("failed to list sources", zap.Error(err))
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tNAME\tTYPE\tINTERVAL\tLAST SYNCED\n")
	for _, src := range sources {
		lastSynced := "never"
		if src.LastSyncedAt != nil {
			lastSynced = src.LastSyncedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dh\t%s\n",
			src.ID, src.Name, src.Type, src.SyncIntervalHours, lastSynced)
	}
	if err := tw.Flush(); err != nil {
		logger.Fatal("failed to render table", zap.Error(err))
	}
}

func addSource(ctx context.Context, pg *store.Store, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "source display name (e.g. adzuna_api)")
	sourceType := fs.String("type", string(models.SourceTypeAPI), "source type: api, rss, scraper or partner")
	interval := fs.Int("interval", 6, "sync interval in hours")
	fs.Parse(args)

	if *name == "" {
		fs.Usage()
		os.Exit(2)
	}

	src, err := pg.CreateSource(ctx, *name, models.SourceType(*sourceType), *interval)
	if err != nil {
		logger.Fatal("failed to create source", zap.Error(err))
	}

	logger.Info("source created",
		zap.String("id", src.ID),
		zap.String("name", src.Name),
		zap.String("type", string(src.Type)))
	fmt.Println(src.ID)
}

func deactivateSource(ctx context.Context, pg *store.Store, cfg *config.Config, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("deactivate", flag.ExitOnError)
	id := fs.String("id", "", "source id to deactivate")
	fs.Parse(args)

	if *id == "" {
		fs.Usage()
		os.Exit(2)
	}

	if err := pg.DeactivateSource(ctx, *id); err != nil {
		logger.Fatal("failed to deactivate source", zap.Error(err))
	}

	rdb := cacheredis.New(cache.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.CacheTTL,
	})
	defer rdb.Close()
	store.NewCachedSources(pg, rdb, cfg.CacheTTL, logger).Invalidate(ctx, *id)

	logger.Info("source deactivated", zap.String("id", *id))
}
