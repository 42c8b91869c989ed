package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJoobleFetch_NormalizesResults(t *testing.T) {
	var gotPath string
	var gotReq joobleRequest
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		if pages > 1 {
			w.Write([]byte(`{"totalCount": 1, "jobs": []}`))
			return
		}
		w.Write([]byte(`{
			"totalCount": 1,
			"jobs": [
				{
					"id": 987654321,
					"title": "Mortgage Underwriter",
					"location": "Austin, TX",
					"snippet": "Review loan applications.",
					"company": "Lone Star Lending",
					"link": "https://jooble.org/jdp/987654321"
				}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	f := NewJoobleFetcher("secret-key", 5*time.Second, zap.NewNop())
	f.baseURL = srv.URL

	records, err := f.Fetch(context.Background(), Query{Keywords: "underwriter", Location: "Austin, TX"})

	require.NoError(t, err)
	require.Len(t, records, 1)

	// The key rides on the path; the query rides in the POST body.
	assert.Equal(t, "/secret-key", gotPath)
	assert.Equal(t, "underwriter", gotReq.Keywords)

	rec := records[0]
	assert.Equal(t, RecordID("jooble_api", "987654321"), rec.ID)
	assert.Equal(t, "jooble_api", rec.SourceName)
	assert.Equal(t, "987654321", rec.ExternalID)
	assert.Equal(t, "Austin", rec.LocationCity)
	assert.Equal(t, "TX", rec.LocationState)
	assert.Equal(t, "Review loan applications.", rec.Description)
	assert.Nil(t, rec.SalaryMin)

	// Pagination stops at the first empty page.
	assert.Equal(t, 2, pages)
}

func TestJoobleFetch_MissingKeySkips(t *testing.T) {
	f := NewJoobleFetcher("", time.Second, zap.NewNop())

	records, err := f.Fetch(context.Background(), Query{Keywords: "underwriter"})

	assert.NoError(t, err)
	assert.Nil(t, records)
}
