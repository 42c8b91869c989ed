// Package report renders the operator-facing source quality comparison.
package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/cache"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"go.uber.org/zap"
)

const snapshotKey = "quality:snapshot"

// QualityScorer is the scorer surface the report consumes.
type QualityScorer interface {
	ScoreAllActiveSources(ctx context.Context) ([]models.SourceQualityMetrics, error)
}

// Renderer produces quality snapshots, caching them briefly so repeated
// report requests do not re-aggregate the store.
type Renderer struct {
	scorer QualityScorer
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewRenderer(scorer QualityScorer, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Renderer {
	return &Renderer{
		scorer: scorer,
		cache:  c,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Snapshot returns the current per-source metrics, descending by quality
// score, serving from cache when a recent snapshot exists. Cache failures
// fall through to a fresh scoring pass.
func (r *Renderer) Snapshot(ctx context.Context) (*models.QualitySnapshot, error) {
	var cached models.QualitySnapshot
	err := r.cache.Get(ctx, snapshotKey, &cached)
	if err == nil {
		r.logger.Debug("serving cached quality snapshot",
			zap.Time("generated_at", cached.GeneratedAt))
		return &cached, nil
	}
	if err != cache.ErrNotFound {
		r.logger.Warn("snapshot cache read failed", zap.Error(err))
	}

	metrics, err := r.scorer.ScoreAllActiveSources(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &models.QualitySnapshot{
		GeneratedAt: r.now().UTC(),
		Sources:     metrics,
	}

	if err := r.cache.Set(ctx, snapshotKey, *snapshot, r.ttl); err != nil {
		r.logger.Warn("snapshot cache write failed", zap.Error(err))
	}
	return snapshot, nil
}

// WriteTable renders a snapshot as an aligned text table.
func (r *Renderer) WriteTable(w io.Writer, snapshot *models.QualitySnapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "SOURCE\tSCORE\tMATCH\tIMPORT\tCOMPLETE\tERROR\tJOBS\tSYNCS (30D)\n")
	for _, m := range snapshot.Sources {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t%d/%d\n",
			m.SourceName,
			m.QualityScore,
			m.MatchRate,
			m.ImportRate,
			m.AvgCompleteness,
			m.ErrorRate,
			m.TotalJobs,
			m.Window.SuccessfulSyncs,
			m.Window.TotalSyncs,
		)
	}
	fmt.Fprintf(tw, "\ngenerated at %s\n", snapshot.GeneratedAt.Format(time.RFC3339))

	return tw.Flush()
}
