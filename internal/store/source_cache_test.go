package store

import (
	"context"
	"encoding"
	"testing"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCache mirrors the redis cache's binary encode/decode semantics.
type memoryCache struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	sets    int
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	marshaler, ok := value.(encoding.BinaryMarshaler)
	if !ok {
		return cache.ErrInvalidValue
	}
	data, err := marshaler.MarshalBinary()
	if err != nil {
		return err
	}
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string, value interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	data, ok := m.data[key]
	if !ok {
		return cache.ErrNotFound
	}
	unmarshaler, ok := value.(encoding.BinaryUnmarshaler)
	if !ok {
		return cache.ErrInvalidValue
	}
	return unmarshaler.UnmarshalBinary(data)
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deletes = append(m.deletes, key)
	return nil
}

func (m *memoryCache) Close() error { return nil }

type fakeSourceGetter struct {
	source *models.JobSource
	err    error
	calls  int
}

func (f *fakeSourceGetter) GetSource(ctx context.Context, id string) (*models.JobSource, error) {
	f.calls++
	return f.source, f.err
}

func sampleSource() *models.JobSource {
	return &models.JobSource{
		ID:                "src-1",
		Name:              "adzuna_api",
		Type:              models.SourceTypeAPI,
		IsActive:          true,
		SyncIntervalHours: 6,
	}
}

func TestCachedSources_MissFillsThenHits(t *testing.T) {
	inner := &fakeSourceGetter{source: sampleSource()}
	mc := newMemoryCache()
	cs := NewCachedSources(inner, mc, time.Minute, zap.NewNop())

	first, err := cs.GetSource(context.Background(), "src-1")
	require.NoError(t, err)
	assert.Equal(t, "adzuna_api", first.Name)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, mc.sets)

	second, err := cs.GetSource(context.Background(), "src-1")
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	// Served from cache, no second store read.
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSources_CacheErrorFallsThrough(t *testing.T) {
	inner := &fakeSourceGetter{source: sampleSource()}
	mc := newMemoryCache()
	mc.getErr = assert.AnError
	cs := NewCachedSources(inner, mc, time.Minute, zap.NewNop())

	src, err := cs.GetSource(context.Background(), "src-1")

	require.NoError(t, err)
	assert.Equal(t, "src-1", src.ID)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedSources_StoreErrorPropagates(t *testing.T) {
	inner := &fakeSourceGetter{err: assert.AnError}
	cs := NewCachedSources(inner, newMemoryCache(), time.Minute, zap.NewNop())

	_, err := cs.GetSource(context.Background(), "src-missing")

	assert.Error(t, err)
}

func TestCachedSources_Invalidate(t *testing.T) {
	inner := &fakeSourceGetter{source: sampleSource()}
	mc := newMemoryCache()
	cs := NewCachedSources(inner, mc, time.Minute, zap.NewNop())

	_, err := cs.GetSource(context.Background(), "src-1")
	require.NoError(t, err)

	cs.Invalidate(context.Background(), "src-1")
	assert.Equal(t, []string{"source:src-1"}, mc.deletes)

	_, err = cs.GetSource(context.Background(), "src-1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
