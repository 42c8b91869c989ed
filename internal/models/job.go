// Package models defines the shared data shapes for job source ingestion,
// duplicate detection and source quality scoring.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of an ExternalJobRecord.
//
// Valid transitions:
//
//	pending ──► matched ──► imported
//	    │
//	    └─────► duplicate
//
// The duplicate gate only ever moves pending → duplicate; records that are
// matched or imported are never touched by it. Imported records are immutable.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusMatched   JobStatus = "matched"
	StatusImported  JobStatus = "imported"
	StatusDuplicate JobStatus = "duplicate"
)

// ParseJobStatus converts a raw string to a JobStatus, returning an error for
// unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case StatusPending, StatusMatched, StatusImported, StatusDuplicate:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// ExternalJobRecord is a normalized posting pulled from a source, prior to
// being matched or imported into the primary catalog.
type ExternalJobRecord struct {
	ID            string    `json:"id"`
	SourceID      string    `json:"source_id"`
	SourceName    string    `json:"source_name,omitempty"`
	ExternalID    string    `json:"external_id"`
	Title         string    `json:"title"`
	CompanyName   string    `json:"company_name,omitempty"`
	LocationCity  string    `json:"location_city,omitempty"`
	LocationState string    `json:"location_state,omitempty"`
	Description   string    `json:"description,omitempty"`
	SalaryMin     *float64  `json:"salary_min,omitempty"`
	SalaryMax     *float64  `json:"salary_max,omitempty"`
	SourceURL     string    `json:"source_url,omitempty"`
	Status        JobStatus `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r ExternalJobRecord) MarshalBinary() ([]byte, error) {
	return json.Marshal(r)
}

func (r *ExternalJobRecord) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, r)
}

// DuplicateCandidate is the slim projection of an external_jobs row that the
// duplicate detector compares against.
type DuplicateCandidate struct {
	ID            string
	SourceID      string
	Title         string
	CompanyName   string
	LocationCity  string
	LocationState string
}

// StatusCounts groups the per-source posting counts the quality scorer needs.
type StatusCounts struct {
	Total    int64
	Matched  int64
	Imported int64
}
