package models

import (
	"encoding/json"
	"time"
)

// SourceQualityMetrics is a derived, point-in-time snapshot of how reliable
// and useful a single source is. It is never persisted; the report layer may
// cache a snapshot briefly.
//
// All rate fields and QualityScore are in [0,1], rounded to 2 decimals.
type SourceQualityMetrics struct {
	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`

	TotalJobs    int64 `json:"total_jobs"`
	MatchedJobs  int64 `json:"matched_jobs"`
	ImportedJobs int64 `json:"imported_jobs"`

	MatchRate       float64 `json:"match_rate"`
	ImportRate      float64 `json:"import_rate"`
	AvgCompleteness float64 `json:"avg_completeness"`
	ErrorRate       float64 `json:"error_rate"`
	QualityScore    float64 `json:"quality_score"`

	Window SyncWindowStats `json:"window"`
}

// QualitySnapshot is an ordered set of per-source metrics, descending by
// QualityScore, as rendered by the operator report.
type QualitySnapshot struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Sources     []SourceQualityMetrics `json:"sources"`
}

func (s QualitySnapshot) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *QualitySnapshot) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}
