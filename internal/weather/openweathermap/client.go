// Package openweathermap provides the OpenWeatherMap current-weather client.
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
	"github.com/tripweather/tripweather/internal/provider/resilience"
	"github.com/tripweather/tripweather/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultTimeout bounds each current-weather call during route sampling.
	DefaultTimeout = 10 * time.Second
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap).
	BaseURL string

	// Timeout bounds each call (optional, defaults to DefaultTimeout).
	// The home-screen primary fetch uses a slightly longer bound than
	// route sampling.
	Timeout time.Duration

	// HTTPClient is the HTTP client to use (optional).
	// If nil, a single-attempt resilient client is created.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenWeatherMap current-weather client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttempt(ProviderName, timeout))
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

// Current fetches current conditions at a coordinate.
func (c *Client) Current(ctx context.Context, point geo.Coordinate) (*weather.Observation, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", point.Lat))
	params.Set("lon", fmt.Sprintf("%.6f", point.Lon))
	return c.fetch(ctx, params)
}

// CurrentByQuery fetches current conditions for a free-text place name or a
// serialized "lat,lon" pair.
func (c *Client) CurrentByQuery(ctx context.Context, query string) (*weather.Observation, error) {
	if point, err := geo.ParseCoordinate(query); err == nil {
		return c.Current(ctx, point)
	}

	params := url.Values{}
	params.Set("q", query)
	return c.fetch(ctx, params)
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*weather.Observation, error) {
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	reqURL := c.baseURL + "/weather?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", weather.ErrProviderUnavailable, resp.StatusCode)
	}

	var owmResp currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toObservation(&owmResp), nil
}

// toObservation converts an OpenWeatherMap response to the domain model.
func (c *Client) toObservation(resp *currentWeatherResponse) *weather.Observation {
	obs := &weather.Observation{
		Point:       geo.Coordinate{Lat: resp.Coord.Lat, Lon: resp.Coord.Lon},
		Temperature: resp.Main.Temp,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed,
		Pressure:    resp.Main.Pressure,
		CloudCover:  resp.Clouds.All,
		Station:     resp.Name,
		Country:     resp.Sys.Country,
		ObservedAt:  time.Unix(resp.Dt, 0),
		FetchedAt:   time.Now(),
	}

	if len(resp.Weather) > 0 {
		obs.Description = resp.Weather[0].Description
	}

	return obs
}

// OpenWeatherMap API response structure.

type currentWeatherResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Pressure float64 `json:"pressure"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
}
