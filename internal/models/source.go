package models

import (
	"encoding/json"
	"time"
)

// SourceType categorises how postings are pulled from a source.
type SourceType string

const (
	SourceTypeAPI     SourceType = "api"
	SourceTypeRSS     SourceType = "rss"
	SourceTypeScraper SourceType = "scraper"
	SourceTypePartner SourceType = "partner"
)

// JobSource mirrors a job_sources row. Sources are soft-deactivated, never
// hard-deleted, while external_jobs rows still reference them.
type JobSource struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Type              SourceType `json:"type"`
	IsActive          bool       `json:"is_active"`
	SyncIntervalHours int        `json:"sync_interval_hours"`
	LastSyncedAt      *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (s JobSource) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *JobSource) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}
