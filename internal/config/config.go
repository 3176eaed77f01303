// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/tripweather/tripweather/internal/geo"
	"github.com/tripweather/tripweather/internal/route"
)

// Config holds everything the composition root needs to wire the pipeline.
type Config struct {
	// OpenWeatherAPIKey authenticates both the weather and geocoding calls.
	OpenWeatherAPIKey string

	// OpenAIAPIKey authenticates the advice completion calls.
	OpenAIAPIKey string
	OpenAIModel  string

	// Base URL overrides, used in development and tests.
	WeatherBaseURL string
	GeocodeBaseURL string
	AdviceBaseURL  string

	// WeatherTimeout bounds each per-sample weather call (default 10s).
	// PrimaryWeatherTimeout bounds the home-screen primary fetch (default 12s).
	WeatherTimeout        time.Duration
	PrimaryWeatherTimeout time.Duration

	// SampleCount is the number of route segments to sample (default 5).
	SampleCount int

	// PreferencesPath is the SQLite file for device-local preferences.
	PreferencesPath string

	// DeviceLocation is the coordinate reported for "use current location"
	// requests. Nil when not configured.
	DeviceLocation *geo.Coordinate

	// Telemetry settings.
	OTLPEndpoint     string
	TelemetryEnabled bool
	Environment      string
}

// FromEnv reads configuration from the environment, applying defaults.
func FromEnv() Config {
	cfg := Config{
		OpenWeatherAPIKey:     os.Getenv("OWM_API_KEY"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           os.Getenv("OPENAI_MODEL"),
		WeatherBaseURL:        os.Getenv("TRIP_WEATHER_BASE_URL"),
		GeocodeBaseURL:        os.Getenv("TRIP_GEOCODE_BASE_URL"),
		AdviceBaseURL:         os.Getenv("TRIP_ADVICE_BASE_URL"),
		WeatherTimeout:        durationEnv("TRIP_WEATHER_TIMEOUT", 10*time.Second),
		PrimaryWeatherTimeout: durationEnv("TRIP_PRIMARY_WEATHER_TIMEOUT", 12*time.Second),
		SampleCount:           intEnv("TRIP_SAMPLE_COUNT", route.DefaultSampleCount),
		PreferencesPath:       getEnv("TRIP_PREFS_PATH", "tripweather.db"),
		OTLPEndpoint:          getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled:      os.Getenv("OTEL_ENABLED") == "true",
		Environment:           getEnv("APP_ENV", "development"),
	}

	if raw := os.Getenv("TRIP_DEVICE_COORD"); raw != "" {
		if point, err := geo.ParseCoordinate(raw); err == nil {
			cfg.DeviceLocation = &point
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
