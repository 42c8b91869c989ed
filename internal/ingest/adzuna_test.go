package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adzunaPageBody = `{
	"count": 2,
	"results": [
		{
			"id": "4001",
			"title": "Senior Mortgage Underwriter",
			"description": "Underwrite conventional loans.",
			"company": {"display_name": "First National"},
			"location": {"display_name": "Dallas, TX"},
			"salary_min": 85000,
			"salary_max": 110000,
			"redirect_url": "https://example.com/4001"
		},
		{
			"id": "4002",
			"title": "Loan Processor",
			"description": "",
			"company": {"display_name": ""},
			"location": {"display_name": "Remote"},
			"salary_min": 0,
			"salary_max": 0,
			"redirect_url": "https://example.com/4002"
		}
	]
}`

func newAdzunaForTest(t *testing.T, handler http.HandlerFunc) (*AdzunaFetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewAdzunaFetcher("app-id", "app-key", "us", 5*time.Second, zap.NewNop())
	f.baseURL = srv.URL
	return f, srv
}

func TestAdzunaFetch_NormalizesResults(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	f, _ := newAdzunaForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(adzunaPageBody))
	})

	records, err := f.Fetch(context.Background(), Query{Keywords: "mortgage underwriter", Location: "Dallas, TX"})

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "/us/search/1", gotPath)
	assert.Equal(t, []string{"mortgage underwriter"}, gotQuery["what"])
	assert.Equal(t, []string{"app-id"}, gotQuery["app_id"])

	first := records[0]
	assert.Equal(t, RecordID("adzuna_api", "4001"), first.ID)
	assert.Equal(t, "adzuna_api", first.SourceName)
	assert.Equal(t, "4001", first.ExternalID)
	assert.Equal(t, "Dallas", first.LocationCity)
	assert.Equal(t, "TX", first.LocationState)
	assert.Equal(t, models.StatusPending, first.Status)
	require.NotNil(t, first.SalaryMin)
	assert.Equal(t, 85000.0, *first.SalaryMin)

	second := records[1]
	assert.Equal(t, "Remote", second.LocationCity)
	assert.Empty(t, second.LocationState)
	assert.Nil(t, second.SalaryMin)
	assert.Nil(t, second.SalaryMax)
}

func TestAdzunaFetch_StopsOnShortPage(t *testing.T) {
	var calls int
	f, _ := newAdzunaForTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(adzunaPageBody))
	})

	_, err := f.Fetch(context.Background(), Query{Keywords: "underwriter"})

	require.NoError(t, err)
	// Two results is under the page size, so a single page is enough.
	assert.Equal(t, 1, calls)
}

func TestAdzunaFetch_MissingCredentialsSkips(t *testing.T) {
	f := NewAdzunaFetcher("", "", "us", time.Second, zap.NewNop())

	records, err := f.Fetch(context.Background(), Query{Keywords: "underwriter"})

	assert.NoError(t, err)
	assert.Nil(t, records)
}

func TestAdzunaFetch_ServerError(t *testing.T) {
	f, _ := newAdzunaForTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := f.Fetch(context.Background(), Query{Keywords: "underwriter"})

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
}
