package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"go.uber.org/zap"
)

const (
	joobleDefaultBaseURL = "https://jooble.org/api"
	joobleMaxPages       = 3
	joobleSourceName     = "jooble_api"
)

// JoobleFetcher pulls postings from the Jooble POST search API. With an
// empty API key Fetch returns (nil, nil).
type JoobleFetcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewJoobleFetcher(apiKey string, timeout time.Duration, logger *zap.Logger) *JoobleFetcher {
	return &JoobleFetcher{
		apiKey:  apiKey,
		baseURL: joobleDefaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (f *JoobleFetcher) Name() string { return joobleSourceName }

type joobleRequest struct {
	Keywords string `json:"keywords"`
	Location string `json:"location"`
	Page     string `json:"page"`
}

type joobleResponse struct {
	TotalCount int         `json:"totalCount"`
	Jobs       []joobleJob `json:"jobs"`
}

type joobleJob struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Location string      `json:"location"`
	Snippet  string      `json:"snippet"`
	Company  string      `json:"company"`
	Link     string      `json:"link"`
}

func (f *JoobleFetcher) Fetch(ctx context.Context, q Query) ([]models.ExternalJobRecord, error) {
	ctx, span := tracer.Start(ctx, "JoobleFetcher.Fetch")
	defer span.End()

	if f.apiKey == "" {
		f.logger.Warn("jooble api key not set, skipping fetch")
		return nil, nil
	}

	var records []models.ExternalJobRecord
	for page := 1; page <= joobleMaxPages; page++ {
		batch, err := f.fetchPage(ctx, q, page)
		if err != nil {
			span.RecordError(err)
			return records, errors.Unavailable(fmt.Sprintf("jooble page %d", page), err)
		}
		if len(batch) == 0 {
			break
		}
		records = append(records, batch...)
	}

	span.SetAttributes(telemetry.Int("records.count", len(records)))
	return records, nil
}

func (f *JoobleFetcher) fetchPage(ctx context.Context, q Query, page int) ([]models.ExternalJobRecord, error) {
	payload, err := json.Marshal(joobleRequest{
		Keywords: q.Keywords,
		Location: q.Location,
		Page:     strconv.Itoa(page),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/"+f.apiKey, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jooble returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp joobleResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	records := make([]models.ExternalJobRecord, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		city, state := SplitLocation(j.Location)
		records = append(records, models.ExternalJobRecord{
			ID:            RecordID(joobleSourceName, j.ID.String()),
			SourceName:    joobleSourceName,
			ExternalID:    j.ID.String(),
			Title:         j.Title,
			CompanyName:   j.Company,
			LocationCity:  city,
			LocationState: state,
			Description:   j.Snippet,
			SourceURL:     j.Link,
			Status:        models.StatusPending,
		})
	}

	return records, nil
}
