package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/errors"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/models"
	"github.com/itmanager1341/fsg-talent-hub-sub001/internal/telemetry"

	"go.uber.org/zap"
)

const (
	adzunaDefaultBaseURL = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize       = 50
	adzunaMaxPages       = 3
	adzunaSourceName     = "adzuna_api"
)

// AdzunaFetcher pulls postings from the Adzuna public API. With empty
// credentials Fetch returns (nil, nil) and the scheduler logs a skip.
type AdzunaFetcher struct {
	appID   string
	appKey  string
	country string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewAdzunaFetcher(appID, appKey, country string, timeout time.Duration, logger *zap.Logger) *AdzunaFetcher {
	return &AdzunaFetcher{
		appID:   appID,
		appKey:  appKey,
		country: country,
		baseURL: adzunaDefaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (f *AdzunaFetcher) Name() string { return adzunaSourceName }

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Fetch pages through results for the query until the well runs dry or the
// page cap is reached.
func (f *AdzunaFetcher) Fetch(ctx context.Context, q Query) ([]models.ExternalJobRecord, error) {
	ctx, span := tracer.Start(ctx, "AdzunaFetcher.Fetch")
	defer span.End()

	if f.appID == "" || f.appKey == "" {
		f.logger.Warn("adzuna credentials not set, skipping fetch")
		return nil, nil
	}

	var records []models.ExternalJobRecord
	for page := 1; page <= adzunaMaxPages; page++ {
		batch, err := f.fetchPage(ctx, q, page)
		if err != nil {
			span.RecordError(err)
			return records, errors.Unavailable(fmt.Sprintf("adzuna page %d", page), err)
		}
		if len(batch) == 0 {
			break
		}
		records = append(records, batch...)
		if len(batch) < adzunaPageSize {
			break
		}
	}

	span.SetAttributes(telemetry.Int("records.count", len(records)))
	return records, nil
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, q Query, page int) ([]models.ExternalJobRecord, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", f.baseURL, f.country, page)

	params := url.Values{}
	params.Set("app_id", f.appID)
	params.Set("app_key", f.appKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", q.Keywords)
	params.Set("where", q.Location)
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	records := make([]models.ExternalJobRecord, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		city, state := SplitLocation(r.Location.DisplayName)
		records = append(records, models.ExternalJobRecord{
			ID:            RecordID(adzunaSourceName, r.ID),
			SourceName:    adzunaSourceName,
			ExternalID:    r.ID,
			Title:         r.Title,
			CompanyName:   r.Company.DisplayName,
			LocationCity:  city,
			LocationState: state,
			Description:   r.Description,
			SalaryMin:     optionalSalary(r.SalaryMin),
			SalaryMax:     optionalSalary(r.SalaryMax),
			SourceURL:     r.RedirectURL,
			Status:        models.StatusPending,
		})
	}

	return records, nil
}
