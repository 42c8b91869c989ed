// Package store implements the Postgres-backed transactional store for job
// sources and external job records.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NewPool creates and verifies a pgxpool connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func New(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS job_sources (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL UNIQUE,
	source_type TEXT NOT NULL DEFAULT 'api',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	sync_interval_hours INT NOT NULL DEFAULT 6,
	last_synced_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS external_jobs (
	id UUID PRIMARY KEY,
	source_id UUID NOT NULL REFERENCES job_sources(id),
	external_id TEXT NOT NULL,
	title TEXT NOT NULL,
	company_name TEXT NOT NULL DEFAULT '',
	location_city TEXT NOT NULL DEFAULT '',
	location_state TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	salary_min DOUBLE PRECISION,
	salary_max DOUBLE PRECISION,
	source_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_id, external_id)
);

CREATE INDEX IF NOT EXISTS idx_external_jobs_title ON external_jobs (lower(title) text_pattern_ops);
CREATE INDEX IF NOT EXISTS idx_external_jobs_source_status ON external_jobs (source_id, status);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
