package fetchers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"plantdash/internal/dataset"
	"plantdash/internal/logger"
)

// seriesResponse is the JSON body returned by the series endpoint
type seriesResponse struct {
	Values []float64 `json:"values"`
}

// SeriesFetcher pulls plant series from an HTTP data service.
// It implements dataset.Source so it can replace the random generator.
type SeriesFetcher struct {
	client  *resty.Client
	baseURL string
	log     *logger.Logger
}

// NewSeriesFetcher creates a fetcher for the service at baseURL
func NewSeriesFetcher(baseURL string) *SeriesFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetHeader("Accept", "application/json")

	return &SeriesFetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.Component("fetcher"),
	}
}

// Series implements dataset.Source:
// GET {base}/series?kind=&plant=&period=&points=
func (f *SeriesFetcher) Series(ctx context.Context, req dataset.Request) ([]float64, error) {
	var body seriesResponse

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"kind":   string(req.Kind),
			"plant":  req.Plant.ID,
			"period": req.Period.String(),
			"points": strconv.Itoa(req.Points),
		}).
		SetResult(&body).
		Get(f.baseURL + "/series")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s series for %s: %w", req.Kind, req.Plant.ID, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("series API returned status %d for %s/%s", resp.StatusCode(), req.Kind, req.Plant.ID)
	}

	if len(body.Values) == 0 {
		return nil, fmt.Errorf("series API returned no values for %s/%s/%s", req.Kind, req.Plant.ID, req.Period)
	}

	f.log.Debug("fetched series", logger.Fields{
		"kind":   req.Kind,
		"plant":  req.Plant.ID,
		"period": req.Period.String(),
		"points": len(body.Values),
	})
	return body.Values, nil
}
