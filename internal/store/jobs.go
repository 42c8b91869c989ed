package store

import (
	"context"
	"strings"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
)

// likeEscaper neutralizes LIKE metacharacters in the title prefix so a title
// containing % or _ matches literally instead of widening the pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// InsertJob stores a normalized posting with status pending. The insert is
// idempotent per (source_id, external_id): replays return inserted=false.
func (s *Store) InsertJob(ctx context.Context, rec *models.ExternalJobRecord) (inserted bool, err error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO external_jobs (
			id, source_id, external_id, title, company_name,
			location_city, location_state, description,
			salary_min, salary_max, source_url, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending')
		ON CONFLICT (source_id, external_id) DO NOTHING`,
		rec.ID, rec.SourceID, rec.ExternalID, rec.Title, rec.CompanyName,
		rec.LocationCity, rec.LocationState, rec.Description,
		rec.SalaryMin, rec.SalaryMax, rec.SourceURL,
	)
	if err != nil {
		return false, errors.Internal("insert external job", err)
	}
	return tag.RowsAffected() > 0, nil
}

// FindTitleCandidates returns up to limit postings from sources other than
// excludeSourceID whose lowercased title contains titlePrefix. Newest first,
// so first-match dedup prefers the most recently stored posting.
func (s *Store) FindTitleCandidates(ctx context.Context, titlePrefix, excludeSourceID string, limit int) ([]models.DuplicateCandidate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source_id, title, company_name, location_city, location_state
		 FROM external_jobs
		 WHERE source_id <> $1
		   AND status <> 'duplicate'
		   AND lower(title) LIKE '%' || $2 || '%'
		 ORDER BY created_at DESC
		 LIMIT $3`,
		excludeSourceID, escapeLikePattern(titlePrefix), limit)
	if err != nil {
		return nil, errors.Unavailable("query title candidates", err)
	}
	defer rows.Close()

	var candidates []models.DuplicateCandidate
	for rows.Next() {
		var c models.DuplicateCandidate
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Title, &c.CompanyName, &c.LocationCity, &c.LocationState); err != nil {
			return nil, errors.Internal("scan candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Unavailable("iterate candidates", err)
	}
	return candidates, nil
}

// StatusCounts returns the total / matched / imported posting counts for a
// source in one round trip.
func (s *Store) StatusCounts(ctx context.Context, sourceID string) (models.StatusCounts, error) {
	var counts models.StatusCounts
	err := s.pool.QueryRow(ctx,
		`SELECT count(*),
		        count(*) FILTER (WHERE status = 'matched'),
		        count(*) FILTER (WHERE status = 'imported')
		 FROM external_jobs
		 WHERE source_id = $1`,
		sourceID).Scan(&counts.Total, &counts.Matched, &counts.Imported)
	if err != nil {
		return models.StatusCounts{}, errors.Internal("count postings", err)
	}
	return counts, nil
}

// SampleJobs returns up to limit recent postings for completeness scoring.
func (s *Store) SampleJobs(ctx context.Context, sourceID string, limit int) ([]models.ExternalJobRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, source_id, external_id, title, company_name,
		        location_city, location_state, description,
		        salary_min, salary_max, source_url, status, created_at, updated_at
		 FROM external_jobs
		 WHERE source_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		sourceID, limit)
	if err != nil {
		return nil, errors.Internal("query sample", err)
	}
	defer rows.Close()

	var sample []models.ExternalJobRecord
	for rows.Next() {
		var r models.ExternalJobRecord
		var status string
		if err := rows.Scan(
			&r.ID, &r.SourceID, &r.ExternalID, &r.Title, &r.CompanyName,
			&r.LocationCity, &r.LocationState, &r.Description,
			&r.SalaryMin, &r.SalaryMax, &r.SourceURL, &status,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, errors.Internal("scan sample row", err)
		}
		r.Status = models.JobStatus(status)
		sample = append(sample, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("iterate sample", err)
	}
	return sample, nil
}

// MarkDuplicate transitions a record pending → duplicate. The status guard
// makes the transition single-shot and keeps matched/imported records
// untouched: marked=false means the record was not pending (or not there).
func (s *Store) MarkDuplicate(ctx context.Context, id string) (marked bool, err error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE external_jobs
		 SET status = 'duplicate', updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		id)
	if err != nil {
		return false, errors.Internal("mark duplicate", err)
	}
	return tag.RowsAffected() > 0, nil
}
