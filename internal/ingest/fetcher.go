// Package ingest pulls postings from vendor APIs, normalizes them into
// external job records, hands them to the dedup gate over NATS, and records
// one sync log per source per run.
package ingest

import (
	"context"
	"strings"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"github.com/google/uuid"
)

var tracer = telemetry.GetTracer("talenthub/ingest")

// Query is the search a fetcher runs against its vendor.
type Query struct {
	Keywords string
	Location string
}

// Fetcher pulls and normalizes postings from one vendor API. Fetchers with
// missing credentials return (nil, nil) and the sync round skips them.
type Fetcher interface {
	// Name matches the job_sources display name this fetcher feeds
	// (e.g. "adzuna_api").
	Name() string
	Fetch(ctx context.Context, q Query) ([]models.ExternalJobRecord, error)
}

// RecordID derives a stable UUID from the source name and the vendor's own
// id, so replaying a fetch yields the same record identity.
func RecordID(sourceName, externalID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(sourceName+":"+externalID)).String()
}

// SplitLocation breaks a vendor location display string ("Dallas, TX") into
// city and state. A trailing two-letter segment is read as the state;
// anything else stays on the city side.
func SplitLocation(display string) (city, state string) {
	if strings.TrimSpace(display) == "" {
		return "", ""
	}

	parts := strings.Split(display, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	city = parts[0]
	last := parts[len(parts)-1]
	if len(parts) > 1 && len(last) == 2 {
		state = strings.ToUpper(last)
	}
	return city, state
}

// optionalSalary converts a vendor salary figure to the record's pointer
// form; vendors report 0 for "not provided".
func optionalSalary(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
