package geocode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"opentrees/api/internal/apperr"
)

// Geocoder resolves a free-text address into WGS84 coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lon float64, err error)
}

// nominatimResult is one entry of the Nominatim search response.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NominatimClient calls the Nominatim search API. One lookup per request,
// no caching or retry: an unresolvable address fails the caller's request.
type NominatimClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewNominatimClient creates a geocoding client. userAgent identifies the
// service to Nominatim, which rejects anonymous clients.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) *NominatimClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &NominatimClient{httpClient: client, logger: logger}
}

// Geocode resolves an address. A response with no candidates maps to a
// GeocodeError so the caller can answer with a client error.
func (c *NominatimClient) Geocode(ctx context.Context, address string) (float64, float64, error) {
	var results []nominatimResult
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		c.logger.Error("geocoding request failed",
			zap.String("address", address),
			zap.Error(err),
		)
		return 0, 0, fmt.Errorf("geocoding request: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("geocoding service returned error",
			zap.String("address", address),
			zap.Int("status_code", resp.StatusCode()),
		)
		return 0, 0, fmt.Errorf("geocoding service: status %d", resp.StatusCode())
	}

	if len(results) == 0 {
		return 0, 0, apperr.Geocode("invalid address, coordinates not found")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	c.logger.Debug("address resolved",
		zap.String("address", address),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
	)
	return lat, lon, nil
}
