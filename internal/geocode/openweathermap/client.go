// Package openweathermap provides the OpenWeatherMap geocoding client for
// forward and reverse lookups. It shares the API key with the weather client.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripweather/tripweather/internal/geo"
	"github.com/tripweather/tripweather/internal/geocode"
	"github.com/tripweather/tripweather/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "openweathermap-geo"

	// DefaultBaseURL is the OpenWeatherMap geocoding API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/geo/1.0"

	// DefaultTimeout bounds each geocoding call.
	DefaultTimeout = 10 * time.Second
)

// ClientConfig holds configuration for the geocoding client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a single-attempt resilient client is created.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap geocoding client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttempt(ProviderName, DefaultTimeout))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Forward resolves free text to the first matching coordinate. Provider
// errors surface as ErrNotFound, same as zero candidates: the caller cannot
// tell a failed lookup from a missing place.
func (c *Client) Forward(ctx context.Context, place string) (geo.Coordinate, error) {
	params := url.Values{}
	params.Set("q", place)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)
	reqURL := c.baseURL + "/direct?" + params.Encode()

	var candidates []geoEntry
	if err := c.get(ctx, reqURL, &candidates); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %q: %w", geocode.ErrNotFound, place, err)
	}

	if len(candidates) == 0 {
		return geo.Coordinate{}, fmt.Errorf("%w: %q", geocode.ErrNotFound, place)
	}

	return geo.Coordinate{Lat: candidates[0].Lat, Lon: candidates[0].Lon}, nil
}

// Reverse resolves a coordinate to a placemark.
func (c *Client) Reverse(ctx context.Context, point geo.Coordinate) (*geocode.Placemark, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", point.Lat))
	params.Set("lon", fmt.Sprintf("%.6f", point.Lon))
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)
	reqURL := c.baseURL + "/reverse?" + params.Encode()

	var entries []geoEntry
	if err := c.get(ctx, reqURL, &entries); err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", geocode.ErrNotFound, point)
	}

	return &geocode.Placemark{
		Locality:              entries[0].Name,
		SubAdministrativeArea: entries[0].State,
		Country:               entries[0].Country,
	}, nil
}

func (c *Client) get(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// OpenWeatherMap geocoding API entry, shared by direct and reverse lookups.
type geoEntry struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}
