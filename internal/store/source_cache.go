package store

import (
	"context"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"go.uber.org/zap"
)

// SourceGetter is the single-row lookup CachedSources wraps.
type SourceGetter interface {
	GetSource(ctx context.Context, id string) (*models.JobSource, error)
}

// CachedSources caches source rows in front of the store. Duplicate
// detection resolves source priorities on every hit, and source rows change
// rarely, so a short TTL removes most of those reads. Cache failures fall
// through to the store.
type CachedSources struct {
	inner  SourceGetter
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedSources(inner SourceGetter, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedSources {
	return &CachedSources{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedSources) GetSource(ctx context.Context, id string) (*models.JobSource, error) {
	key := "source:" + id

	var cached models.JobSource
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if err != cache.ErrNotFound {
		c.logger.Warn("source cache read failed", zap.String("source_id", id), zap.Error(err))
	}

	src, err := c.inner.GetSource(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, *src, c.ttl); err != nil {
		c.logger.Warn("source cache write failed", zap.String("source_id", id), zap.Error(err))
	}
	return src, nil
}

// Invalidate drops a source row from the cache, e.g. after deactivation.
func (c *CachedSources) Invalidate(ctx context.Context, id string) {
	if err := c.cache.Delete(ctx, "source:"+id); err != nil {
		c.logger.Warn("source cache invalidate failed", zap.String("source_id", id), zap.Error(err))
	}
}

var _ SourceGetter = (*CachedSources)(nil)
