package store

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"github.com/jackc/pgx/v5"
)

const sourceColumns = `id, name, source_type, is_active, sync_interval_hours, last_synced_at, created_at`

// GetSource fetches a single source row. Returns a NOT_FOUND domain error
// when the id does not resolve.
func (s *Store) GetSource(ctx context.Context, id string) (*models.JobSource, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+sourceColumns+` FROM job_sources WHERE id = $1`, id)

	src, err := scanSource(row)
	if err != nil {
		if goerrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NotFound(fmt.Sprintf("source %s not found", id), nil)
		}
		return nil, errors.Internal("query source", err)
	}
	return src, nil
}

// ListActiveSources returns every source flagged active, in name order.
func (s *Store) ListActiveSources(ctx context.Context) ([]models.JobSource, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sourceColumns+` FROM job_sources WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, errors.Internal("query active sources", err)
	}
	defer rows.Close()

	var sources []models.JobSource
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, errors.Internal("scan source", err)
		}
		sources = append(sources, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("iterate sources", err)
	}
	return sources, nil
}

// CreateSource registers a new ingestion source.
func (s *Store) CreateSource(ctx context.Context, name string, sourceType models.SourceType, syncIntervalHours int) (*models.JobSource, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO job_sources (name, source_type, sync_interval_hours)
		 VALUES ($1, $2, $3)
		 RETURNING `+sourceColumns,
		name, string(sourceType), syncIntervalHours)

	src, err := scanSource(row)
	if err != nil {
		return nil, errors.Internal("insert source", err)
	}
	return src, nil
}

// DeactivateSource soft-deactivates a source. Rows in external_jobs keep
// referencing it; sources are never hard-deleted.
func (s *Store) DeactivateSource(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job_sources SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return errors.Internal("deactivate source", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound(fmt.Sprintf("source %s not found", id), nil)
	}
	return nil
}

// TouchLastSynced records the completion time of a sync run on the source.
func (s *Store) TouchLastSynced(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE job_sources SET last_synced_at = now() WHERE id = $1`, id); err != nil {
		return errors.Internal("update last_synced_at", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*models.JobSource, error) {
	var src models.JobSource
	var sourceType string
	if err := row.Scan(
		&src.ID, &src.Name, &sourceType, &src.IsActive,
		&src.SyncIntervalHours, &src.LastSyncedAt, &src.CreatedAt,
	); err != nil {
		return nil, err
	}
	src.Type = models.SourceType(sourceType)
	return &src, nil
}
