package report

import (
	"bytes"
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

type fakeScorer struct {
	metrics []models.SourceQualityMetrics
	err     error
	calls   int
}

func (f *fakeScorer) ScoreAllActiveSources(ctx context.Context) ([]models.SourceQualityMetrics, error) {
	f.calls++
	return f.metrics, f.err
}

type memoryCache struct {
	data   map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	marshaler, ok := value.(encoding.BinaryMarshaler)
	if !ok {
		return cache.ErrInvalidValue
	}
	data, err := marshaler.MarshalBinary()
	if err != nil {
		return err
	}
	m.data[key] = data
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
	return nil
}

func (m *memoryCache) Close() error { return nil }

func sampleMetrics() []models.SourceQualityMetrics {
	return []models.SourceQualityMetrics{
		{
			SourceID:        "src-indeed",
			SourceName:      "indeed_api",
			TotalJobs:       120,
			MatchedJobs:     48,
			ImportedJobs:    24,
			MatchRate:       0.4,
			ImportRate:      0.2,
			AvgCompleteness: 0.86,
			ErrorRate:       0.05,
			QualityScore:    0.71,
			Window:          models.SyncWindowStats{TotalSyncs: 20, SuccessfulSyncs: 19, FailedSyncs: 1},
		},
		{
			SourceID:     "src-rss",
			SourceName:   "rss",
			QualityScore: 0.31,
			Window:       models.SyncWindowStats{TotalSyncs: 10, SuccessfulSyncs: 7, FailedSyncs: 3},
		},
	}
}

func TestSnapshot_FreshThenCached(t *testing.T) {
	scorer := &fakeScorer{metrics: sampleMetrics()}
	mc := newMemoryCache()
	r := NewRenderer(scorer, mc, time.Minute, zap.NewNop())
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	first, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Sources, 2)
	assert.Equal(t, 1, scorer.calls)

	second, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.GeneratedAt, second.GeneratedAt)
	// Second call is served from cache.
	assert.Equal(t, 1, scorer.calls)
}

func TestSnapshot_CacheErrorFallsThrough(t *testing.T) {
	scorer := &fakeScorer{metrics: sampleMetrics()}
	mc := newMemoryCache()
	mc.getErr = assert.AnError
	r := NewRenderer(scorer, mc, time.Minute, zap.NewNop())

	snapshot, err := r.Snapshot(context.Background())

	require.NoError(t, err)
	assert.Len(t, snapshot.Sources, 2)
	assert.Equal(t, 1, scorer.calls)
}

func TestSnapshot_ScorerErrorPropagates(t *testing.T) {
	scorer := &fakeScorer{err: assert.AnError}
	r := NewRenderer(scorer, newMemoryCache(), time.Minute, zap.NewNop())

	_, err := r.Snapshot(context.Background())

	assert.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	r := NewRenderer(&fakeScorer{}, newMemoryCache(), time.Minute, zap.NewNop())

	var buf bytes.Buffer
	snapshot := &models.QualitySnapshot{
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Sources:     sampleMetrics(),
	}
	require.NoError(t, r.WriteTable(&buf, snapshot))

	out := buf.String()
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "indeed_api")
	assert.Contains(t, out, "0.71")
	assert.Contains(t, out, "19/20")
	assert.Contains(t, out, "2026-03-01T12:00:00Z")
}
