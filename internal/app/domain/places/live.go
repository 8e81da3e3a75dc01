package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/machimap/machimap/internal/app/models"
)

var _ Provider = (*LiveProvider)(nil)

const textSearchURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"

// LiveProvider queries the Google Places Text Search API. Upstream failures
// fall back to demo data so the editor search never hard-fails.
type LiveProvider struct {
	apiKey   string
	client   *http.Client
	fallback *DemoProvider
	logger   *zap.Logger
}

func NewLiveProvider(apiKey string, logger *zap.Logger) *LiveProvider {
	return &LiveProvider{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		fallback: NewDemoProvider(),
		logger:   logger,
	}
}

func (p *LiveProvider) Name() string { return "google" }

type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Search runs a text search capped at MaxResults. Network errors, non-200
// responses and upstream error statuses all degrade to the demo provider.
func (p *LiveProvider) Search(ctx context.Context, query string) ([]models.PlaceResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.PlaceResult{}, nil
	}

	params := url.Values{}
	params.Set("query", q)
	params.Set("key", p.apiKey)
	params.Set("language", "ja")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Warn("Places API unreachable, serving demo data", zap.Error(err))
		return p.fallback.Search(ctx, q)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("Places API returned non-200, serving demo data", zap.Int("status", resp.StatusCode))
		return p.fallback.Search(ctx, q)
	}

	var body textSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.logger.Warn("Failed to decode places response, serving demo data", zap.Error(err))
		return p.fallback.Search(ctx, q)
	}
	if body.Status != "OK" && body.Status != "ZERO_RESULTS" {
		p.logger.Warn("Places API error status, serving demo data", zap.String("status", body.Status))
		return p.fallback.Search(ctx, q)
	}

	results := make([]models.PlaceResult, 0, MaxResults)
	for _, r := range body.Results {
		if len(results) == MaxResults {
			break
		}
		results = append(results, models.PlaceResult{
			Name:      r.Name,
			Address:   r.FormattedAddress,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
			PlaceID:   r.PlaceID,
		})
	}
	return results, nil
}
