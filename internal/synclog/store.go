// Package synclog records sync runs against ingestion sources and aggregates
// them over time windows for the quality scorer's error rate and rollup.
package synclog

import (
	"context"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"go.uber.org/zap"
)

type Store struct {
	conn   clickhouse.Conn
	logger *zap.Logger
}

func New(conn clickhouse.Conn, logger *zap.Logger) *Store {
	return &Store{conn: conn, logger: logger}
}

// Record appends one sync log row. Sync logs are append-only; there is no
// update path.
func (s *Store) Record(ctx context.Context, e models.SyncLogEntry) error {
	err := s.conn.Exec(ctx, `
		INSERT INTO job_sync_logs (
			source_id, started_at, completed_at, status,
			jobs_found, jobs_new, jobs_duplicates, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.SourceID,
		e.StartedAt,
		e.CompletedAt,
		string(e.Status),
		uint32(e.JobsFound),
		uint32(e.JobsNew),
		uint32(e.JobsDuplicates),
		e.ErrorMessage,
	)
	if err != nil {
		return errors.Internal("insert sync log", err)
	}

	s.logger.Debug("recorded sync log",
		zap.String("source_id", e.SourceID),
		zap.String("status", string(e.Status)),
		zap.Int("jobs_found", e.JobsFound))
	return nil
}

// WindowStats aggregates a source's sync logs since the given time.
// Zero rows in the window yields all-zero stats, not an error.
func (s *Store) WindowStats(ctx context.Context, sourceID string, since time.Time) (models.SyncWindowStats, error) {
	row := s.conn.QueryRow(ctx, `
		SELECT count(),
		       countIf(status = 'success'),
		       countIf(status = 'failed'),
		       sum(jobs_found),
		       sum(jobs_new),
		       sum(jobs_duplicates)
		FROM job_sync_logs
		WHERE source_id = ? AND started_at >= ?
	`, sourceID, since)

	var total, succeeded, failed, found, fresh, dupes uint64
	if err := row.Scan(&total, &succeeded, &failed, &found, &fresh, &dupes); err != nil {
		return models.SyncWindowStats{}, errors.Internal("aggregate sync logs", err)
	}

	return models.SyncWindowStats{
		TotalSyncs:      int64(total),
		SuccessfulSyncs: int64(succeeded),
		FailedSyncs:     int64(failed),
		JobsFound:       int64(found),
		JobsNew:         int64(fresh),
		JobsDuplicates:  int64(dupes),
	}, nil
}
