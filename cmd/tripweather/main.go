// Package main provides the entrypoint for the tripweather planner. It is
// the composition root and a minimal text renderer standing in for the
// excluded presentation layer: one invocation runs one planning request and
// prints the resulting plan.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tripweather/tripweather/internal/advice/openai"
	"github.com/tripweather/tripweather/internal/config"
	"github.com/tripweather/tripweather/internal/geocode"
	geocodeowm "github.com/tripweather/tripweather/internal/geocode/openweathermap"
	"github.com/tripweather/tripweather/internal/location"
	"github.com/tripweather/tripweather/internal/prefs"
	"github.com/tripweather/tripweather/internal/telemetry"
	"github.com/tripweather/tripweather/internal/trip"
	"github.com/tripweather/tripweather/internal/weather"
	weatherowm "github.com/tripweather/tripweather/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripweather"

	from := flag.String("from", "", "origin place text (defaults to the last used location)")
	to := flag.String("to", "", "destination place text")
	dateText := flag.String("date", "", "trip date as YYYY-MM-DD (defaults to today)")
	useDevice := flag.Bool("use-current-location", false, "resolve the origin from the device position")
	samples := flag.Int("samples", 0, "route segments to sample (defaults to TRIP_SAMPLE_COUNT)")
	flag.Parse()

	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg := config.FromEnv()

	ctx := context.Background()
	tel, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	var store prefs.Store
	sqliteStore, err := prefs.OpenSQLite(cfg.PreferencesPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.PreferencesPath).Msg("preference store unavailable, continuing without it")
	} else {
		defer sqliteStore.Close()
		store = sqliteStore
	}

	// The last used location is the default origin, matching the behavior of
	// the home screen this binary stands in for.
	origin := trip.OriginFromText(*from)
	if *useDevice {
		origin = trip.OriginFromDevice()
	} else if *from == "" && store != nil {
		if last, lastErr := store.LastLocation(ctx); lastErr == nil {
			origin = trip.OriginFromText(last)
			log.Info().Str("origin", last).Msg("using last used location as origin")
		}
	}

	var date time.Time
	if *dateText != "" {
		date, err = time.Parse("2006-01-02", *dateText)
		if err != nil {
			log.Fatal().Err(err).Str("date", *dateText).Msg("invalid trip date")
		}
	}

	weatherClient := weatherowm.NewClient(weatherowm.ClientConfig{
		APIKey:  cfg.OpenWeatherAPIKey,
		BaseURL: cfg.WeatherBaseURL,
		Timeout: cfg.WeatherTimeout,
		Logger:  log,
	})

	// Without a destination there is no trip to plan; show current conditions
	// for the origin instead, the way the home screen does.
	if *to == "" {
		query := *from
		if query == "" && store != nil {
			if last, lastErr := store.LastLocation(ctx); lastErr == nil {
				query = last
			}
		}
		if query == "" {
			fmt.Fprintln(os.Stderr, "Please enter a destination.")
			os.Exit(1)
		}

		primary := weatherowm.NewClient(weatherowm.ClientConfig{
			APIKey:  cfg.OpenWeatherAPIKey,
			BaseURL: cfg.WeatherBaseURL,
			Timeout: cfg.PrimaryWeatherTimeout,
			Logger:  log,
		})
		obs, obsErr := primary.CurrentByQuery(ctx, query)
		if obsErr != nil {
			log.Error().Err(obsErr).Str("query", query).Msg("current weather fetch failed")
			fmt.Fprintln(os.Stderr, trip.FailureMessage(obsErr))
			os.Exit(1)
		}
		if store != nil {
			if setErr := store.SetLastLocation(ctx, query); setErr != nil {
				log.Warn().Err(setErr).Msg("failed to persist last location")
			}
		}
		renderCurrent(query, obs)
		return
	}

	geocoder := geocode.NewService(geocode.ServiceConfig{
		Provider: geocodeowm.NewClient(geocodeowm.ClientConfig{
			APIKey:  cfg.OpenWeatherAPIKey,
			BaseURL: cfg.GeocodeBaseURL,
			Logger:  log,
		}),
		Logger: log,
	})

	adviceClient := openai.NewClient(openai.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.AdviceBaseURL,
		Model:   cfg.OpenAIModel,
		Logger:  log,
	})

	var device location.Provider
	if cfg.DeviceLocation != nil {
		device = location.Static{Point: *cfg.DeviceLocation}
	} else {
		device = location.Unavailable{Reason: location.ErrServiceDisabled}
	}

	planner := trip.NewPlanner(trip.PlannerConfig{
		Geocoder:    geocoder,
		Weather:     weatherClient,
		Advice:      adviceClient,
		Location:    device,
		Prefs:       store,
		SampleCount: cfg.SampleCount,
		Logger:      log,
		Tracer:      tel.Tracer,
		Meter:       tel.Meter,
	})

	plan, err := planner.Plan(ctx, trip.PlanRequest{
		Origin:      origin,
		Destination: *to,
		Date:        date,
		SampleCount: *samples,
	})
	if err != nil {
		log.Error().Err(err).Msg("trip planning failed")
		fmt.Fprintln(os.Stderr, trip.FailureMessage(err))
		os.Exit(1)
	}

	render(plan)
}

// renderCurrent prints a single current-conditions reading the way the home
// screen would show it.
func renderCurrent(query string, obs *weather.Observation) {
	place := obs.Station
	if place == "" {
		place = query
	}
	fmt.Printf("Current weather for %s: %s\n", place, obs.Description)
	fmt.Printf("  %.1f°C, humidity %.0f%%, wind %.1f m/s, pressure %.0f hPa\n",
		obs.Temperature, obs.Humidity, obs.WindSpeed, obs.Pressure)
}

// render prints the plan the way the map screen would show it: route
// summary, per-stop conditions, then the advice text.
func render(plan *trip.Plan) {
	fmt.Printf("Trip: %s -> %s on %s\n", plan.Origin.Label, plan.Destination.Label,
		plan.Date.Format("Monday, 2 January 2006"))
	fmt.Printf("Distance: %.0f km, route color: %s (%s)\n\n",
		plan.DistanceMeters/1000, plan.WorstSeverity.Color(), plan.WorstSeverity)

	for _, stop := range plan.Stops {
		fmt.Printf("  %d. %-40s %-24s [%s]\n",
			stop.Sample.Index, stop.Label, stop.WeatherDescription, stop.Severity)
	}

	fmt.Printf("\n%s\n", plan.Advice)
}
