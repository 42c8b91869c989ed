// Package quality rates ingestion sources. A source's quality score blends
// its matching success, import yield, data completeness and sync reliability
// into a single [0,1] figure for operator-facing comparison.
package quality

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("talenthub/quality")

const (
	// sampleLimit bounds the completeness sample per source.
	sampleLimit = 100

	// syncWindow is how far back sync logs count toward the error rate and
	// the rollup.
	syncWindow = 30 * 24 * time.Hour

	weightMatchRate    = 0.30
	weightImportRate   = 0.20
	weightCompleteness = 0.30
	weightReliability  = 0.20
)

// SourceStore resolves source rows. GetSource returns a NOT_FOUND domain
// error for unknown ids.
type SourceStore interface {
	GetSource(ctx context.Context, id string) (*models.JobSource, error)
	ListActiveSources(ctx context.Context) ([]models.JobSource, error)
}

// JobStatsStore exposes the per-source posting aggregates the scorer reads.
type JobStatsStore interface {
	StatusCounts(ctx context.Context, sourceID string) (models.StatusCounts, error)
	SampleJobs(ctx context.Context, sourceID string, limit int) ([]models.ExternalJobRecord, error)
}

// SyncLogStore aggregates sync log rows for a source since a point in time.
type SyncLogStore interface {
	WindowStats(ctx context.Context, sourceID string, since time.Time) (models.SyncWindowStats, error)
}

type Scorer struct {
	sources SourceStore
	jobs    JobStatsStore
	syncs   SyncLogStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewScorer(sources SourceStore, jobs JobStatsStore, syncs SyncLogStore, logger *zap.Logger) *Scorer {
	return &Scorer{
		sources: sources,
		jobs:    jobs,
		syncs:   syncs,
		logger:  logger,
		now:     time.Now,
	}
}

// ScoreSource computes the quality metrics for a single source. Empty data
// is not an error: every rate defaults to 0 so the score is always
// computable. Only an unknown source id fails, with NOT_FOUND.
func (s *Scorer) ScoreSource(ctx context.Context, sourceID string) (*models.SourceQualityMetrics, error) {
	ctx, span := tracer.Start(ctx, "Scorer.ScoreSource")
	defer span.End()
	span.SetAttributes(telemetry.String("source.id", sourceID))

	src, err := s.sources.GetSource(ctx, sourceID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	counts, err := s.jobs.StatusCounts(ctx, sourceID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("counting postings", err)
	}

	var matchRate, importRate float64
	if counts.Total > 0 {
		matchRate = float64(counts.Matched) / float64(counts.Total)
		importRate = float64(counts.Imported) / float64(counts.Total)
	}

	sample, err := s.jobs.SampleJobs(ctx, sourceID, sampleLimit)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("sampling postings", err)
	}
	avgCompleteness := averageCompleteness(sample)

	window, err := s.syncs.WindowStats(ctx, sourceID, s.now().Add(-syncWindow))
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("aggregating sync logs", err)
	}

	var errorRate float64
	if window.TotalSyncs > 0 {
		errorRate = float64(window.FailedSyncs) / float64(window.TotalSyncs)
	}

	score := weightMatchRate*matchRate +
		weightImportRate*importRate +
		weightCompleteness*avgCompleteness +
		weightReliability*(1-errorRate)

	metrics := &models.SourceQualityMetrics{
		SourceID:        src.ID,
		SourceName:      src.Name,
		TotalJobs:       counts.Total,
		MatchedJobs:     counts.Matched,
		ImportedJobs:    counts.Imported,
		MatchRate:       round2(matchRate),
		ImportRate:      round2(importRate),
		AvgCompleteness: round2(avgCompleteness),
		ErrorRate:       round2(errorRate),
		QualityScore:    round2(score),
		Window:          window,
	}

	span.SetAttributes(telemetry.Float64("quality.score", metrics.QualityScore))
	s.logger.Debug("scored source",
		zap.String("source_id", src.ID),
		zap.String("source_name", src.Name),
		zap.Float64("quality_score", metrics.QualityScore))

	return metrics, nil
}

// ScoreAllActiveSources scores every active source and returns the results
// sorted descending by quality score. A failure scoring any source aborts
// the batch.
func (s *Scorer) ScoreAllActiveSources(ctx context.Context) ([]models.SourceQualityMetrics, error) {
	ctx, span := tracer.Start(ctx, "Scorer.ScoreAllActiveSources")
	defer span.End()

	sources, err := s.sources.ListActiveSources(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Internal("listing active sources", err)
	}
	span.SetAttributes(telemetry.Int("sources.count", len(sources)))

	results := make([]models.SourceQualityMetrics, 0, len(sources))
	for _, src := range sources {
		m, err := s.ScoreSource(ctx, src.ID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		results = append(results, *m)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].QualityScore > results[j].QualityScore
	})

	return results, nil
}

// completenessChecks is the per-posting checklist: each present field
// contributes 1/7. The city-or-state check overlaps the individual city and
// state checks, weighting location above the other fields.
const completenessChecks = 7

func completenessScore(r models.ExternalJobRecord) float64 {
	present := 0
	if r.Title != "" {
		present++
	}
	if r.Description != "" {
		present++
	}
	if r.CompanyName != "" {
		present++
	}
	if r.LocationCity != "" || r.LocationState != "" {
		present++
	}
	if r.SalaryMin != nil || r.SalaryMax != nil {
		present++
	}
	if r.LocationCity != "" {
		present++
	}
	if r.LocationState != "" {
		present++
	}
	return float64(present) / completenessChecks
}

func averageCompleteness(sample []models.ExternalJobRecord) float64 {
	if len(sample) == 0 {
		return 0
	}
	var sum float64
	for _, r := range sample {
		sum += completenessScore(r)
	}
	return sum / float64(len(sample))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
