package models

import "time"

// SyncStatus is the outcome of a single sync run against a source.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncFailed  SyncStatus = "failed"
)

// SyncLogEntry mirrors a job_sync_logs row: one row per source per sync run.
type SyncLogEntry struct {
	SourceID       string
	StartedAt      time.Time
	CompletedAt    time.Time
	Status         SyncStatus
	JobsFound      int
	JobsNew        int
	JobsDuplicates int
	ErrorMessage   string
}

// SyncWindowStats is the aggregate of a source's sync logs over a time window.
type SyncWindowStats struct {
	TotalSyncs      int64 `json:"total_syncs"`
	SuccessfulSyncs int64 `json:"successful_syncs"`
	FailedSyncs     int64 `json:"failed_syncs"`
	JobsFound       int64 `json:"jobs_found"`
	JobsNew         int64 `json:"jobs_new"`
	JobsDuplicates  int64 `json:"jobs_duplicates"`
}
