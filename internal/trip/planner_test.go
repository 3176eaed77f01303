package trip_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweather/tripweather/internal/advice"
	"github.com/tripweather/tripweather/internal/geo"
	"github.com/tripweather/tripweather/internal/geocode"
	"github.com/tripweather/tripweather/internal/location"
	"github.com/tripweather/tripweather/internal/severity"
	"github.com/tripweather/tripweather/internal/trip"
	"github.com/tripweather/tripweather/internal/weather"
)

var (
	amsterdam = geo.Coordinate{Lat: 52.3676, Lon: 4.9041}
	paris     = geo.Coordinate{Lat: 48.8566, Lon: 2.3522}
)

// fakeGeo serves forward lookups from a fixed table and labels every reverse
// lookup "Near <coordinate>".
type fakeGeo struct {
	mu           sync.Mutex
	places       map[string]geo.Coordinate
	forwardCalls int
	reverseCalls int
}

func newFakeGeo() *fakeGeo {
	return &fakeGeo{places: map[string]geo.Coordinate{
		"Amsterdam": amsterdam,
		"Paris":     paris,
	}}
}

func (f *fakeGeo) Forward(_ context.Context, place string) (geo.Coordinate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwardCalls++
	point, ok := f.places[place]
	if !ok {
		return geo.Coordinate{}, geocode.ErrNotFound
	}
	return point, nil
}

func (f *fakeGeo) Reverse(_ context.Context, point geo.Coordinate) (*geocode.Placemark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reverseCalls++
	return &geocode.Placemark{Locality: "Near " + point.String()}, nil
}

func (f *fakeGeo) Name() string { return "fake-geo" }

// fakeWeather answers with a fixed description, failing any point whose
// latitude matches failLat.
type fakeWeather struct {
	mu          sync.Mutex
	description string
	describe    func(point geo.Coordinate) string
	failLat     float64
	calls       int
}

func (f *fakeWeather) Current(_ context.Context, point geo.Coordinate) (*weather.Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failLat != 0 && point.Lat == f.failLat {
		return nil, fmt.Errorf("%w: injected", weather.ErrProviderUnavailable)
	}
	desc := f.description
	if f.describe != nil {
		desc = f.describe(point)
	}
	return &weather.Observation{Point: point, Description: desc}, nil
}

func (f *fakeWeather) CurrentByQuery(ctx context.Context, _ string) (*weather.Observation, error) {
	return f.Current(ctx, geo.Coordinate{})
}

func (f *fakeWeather) Name() string { return "fake-weather" }

type fakeAdvice struct {
	mu          sync.Mutex
	text        string
	err         error
	origin      string
	destination string
	date        time.Time
	calls       int
}

func (f *fakeAdvice) TripAdvice(_ context.Context, origin, destination string, date time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.origin = origin
	f.destination = destination
	f.date = date
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeAdvice) Name() string { return "fake-advice" }

type fakePrefs struct {
	mu     sync.Mutex
	values []string
}

func (f *fakePrefs) LastLocation(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.values) == 0 {
		return "", errors.New("not set")
	}
	return f.values[len(f.values)-1], nil
}

func (f *fakePrefs) SetLastLocation(_ context.Context, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = append(f.values, value)
	return nil
}

type fixture struct {
	geo     *fakeGeo
	weather *fakeWeather
	advice  *fakeAdvice
	prefs   *fakePrefs
	planner *trip.Planner
}

func newFixture(t *testing.T, opts ...func(*trip.PlannerConfig)) *fixture {
	t.Helper()

	f := &fixture{
		geo:     newFakeGeo(),
		weather: &fakeWeather{description: "light rain"},
		advice:  &fakeAdvice{text: "Pack a rain jacket."},
		prefs:   &fakePrefs{},
	}

	cfg := trip.PlannerConfig{
		Geocoder: geocode.NewService(geocode.ServiceConfig{
			Provider: f.geo,
			Logger:   zerolog.Nop(),
		}),
		Weather: f.weather,
		Advice:  f.advice,
		Prefs:   f.prefs,
		Logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	f.planner = trip.NewPlanner(cfg)
	return f
}

func TestPlanner_Plan(t *testing.T) {
	f := newFixture(t)

	date := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
		Date:        date,
		SampleCount: 4,
	})
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", plan.RunID.String())
	assert.Equal(t, "Amsterdam", plan.Origin.Label)
	assert.Equal(t, amsterdam, plan.Origin.Point)
	assert.Equal(t, "Paris", plan.Destination.Label)
	assert.Equal(t, paris, plan.Destination.Point)
	assert.Equal(t, date, plan.Date)
	assert.False(t, plan.CreatedAt.IsZero())

	// 4 segments yield 5 stops, endpoints included, in route order.
	require.Len(t, plan.Stops, 5)
	assert.Equal(t, amsterdam, plan.Stops[0].Sample.Point)
	assert.Equal(t, paris, plan.Stops[4].Sample.Point)
	for i, stop := range plan.Stops {
		assert.Equal(t, i, stop.Sample.Index)
		assert.Equal(t, "light rain", stop.WeatherDescription)
		assert.Equal(t, severity.Moderate, stop.Severity)
		assert.Equal(t, "Near "+stop.Sample.Point.String(), stop.Label)
	}

	assert.Equal(t, severity.Moderate, plan.WorstSeverity)
	assert.NotEmpty(t, plan.Geometry)

	// Amsterdam to Paris is roughly 430km as the crow flies.
	assert.InDelta(t, 430000, plan.DistanceMeters, 10000)

	assert.Equal(t, "Pack a rain jacket.", plan.Advice)
	assert.Equal(t, "Amsterdam", f.advice.origin)
	assert.Equal(t, "Paris", f.advice.destination)
	assert.Equal(t, date, f.advice.date)

	// Every successful weather fetch persists the last location.
	assert.Equal(t, 5, f.weather.calls)
	assert.Len(t, f.prefs.values, 5)
	assert.Equal(t, paris.String(), f.prefs.values[4])
}

func TestPlanner_Plan_DateDefaultsToToday(t *testing.T) {
	f := newFixture(t)

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), plan.Date, time.Minute)
}

func TestPlanner_Plan_WeatherFailureDegradesStop(t *testing.T) {
	f := newFixture(t)
	// The origin endpoint is always sampled exactly, so pin the failure there.
	f.weather.failLat = amsterdam.Lat

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
		SampleCount: 4,
	})
	require.NoError(t, err)
	require.Len(t, plan.Stops, 5)

	failed := plan.Stops[0]
	assert.Equal(t, "unknown", failed.WeatherDescription)
	assert.Equal(t, severity.Good, failed.Severity)
	// The label is still resolved for a degraded stop.
	assert.Equal(t, "Near "+amsterdam.String(), failed.Label)

	for _, stop := range plan.Stops[1:] {
		assert.Equal(t, "light rain", stop.WeatherDescription)
	}

	// Only the four successful fetches persisted a location.
	assert.Len(t, f.prefs.values, 4)
}

func TestPlanner_Plan_WorstSeverityAcrossStops(t *testing.T) {
	f := newFixture(t)
	f.weather.describe = func(point geo.Coordinate) string {
		if point == paris {
			return "thunderstorm"
		}
		return "clear sky"
	}

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
		SampleCount: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, severity.Severe, plan.WorstSeverity)
	assert.Equal(t, severity.Severe, plan.Stops[4].Severity)
	assert.Equal(t, severity.Good, plan.Stops[0].Severity)
}

func TestPlanner_Plan_AdviceFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.advice.err = fmt.Errorf("%w: injected", advice.ErrProviderUnavailable)

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, advice.ErrProviderUnavailable)
	assert.Nil(t, plan)
}

func TestPlanner_Plan_BlankOriginRejectedBeforeAnyCall(t *testing.T) {
	f := newFixture(t)

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("   "),
		Destination: "Paris",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, trip.ErrEmptyOrigin)
	assert.Nil(t, plan)

	assert.Zero(t, f.geo.forwardCalls)
	assert.Zero(t, f.weather.calls)
	assert.Zero(t, f.advice.calls)
}

func TestPlanner_Plan_BlankDestinationRejectedBeforeAnyCall(t *testing.T) {
	f := newFixture(t)

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: " ",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, trip.ErrEmptyDestination)
	assert.Nil(t, plan)

	// The origin is valid, but nothing is resolved before both inputs pass.
	assert.Zero(t, f.geo.forwardCalls)
	assert.Zero(t, f.weather.calls)
	assert.Zero(t, f.advice.calls)
}

func TestPlanner_Plan_DeviceOrigin(t *testing.T) {
	f := newFixture(t, func(cfg *trip.PlannerConfig) {
		cfg.Location = location.Static{Point: amsterdam}
	})

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromDevice(),
		Destination: "Paris",
	})
	require.NoError(t, err)

	assert.Equal(t, amsterdam, plan.Origin.Point)
	// A device origin has no typed text, so its label is reverse-geocoded.
	assert.Equal(t, "Near "+amsterdam.String(), plan.Origin.Label)
}

func TestPlanner_Plan_DeviceOriginFailures(t *testing.T) {
	for _, reason := range []error{
		location.ErrServiceDisabled,
		location.ErrPermissionDenied,
		location.ErrPermissionDeniedForever,
	} {
		t.Run(reason.Error(), func(t *testing.T) {
			f := newFixture(t, func(cfg *trip.PlannerConfig) {
				cfg.Location = location.Unavailable{Reason: reason}
			})

			plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
				Origin:      trip.OriginFromDevice(),
				Destination: "Paris",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, reason)
			assert.Nil(t, plan)
			assert.Zero(t, f.weather.calls)
		})
	}
}

func TestPlanner_Plan_DeviceOriginWithoutProvider(t *testing.T) {
	f := newFixture(t)

	_, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromDevice(),
		Destination: "Paris",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, location.ErrServiceDisabled)
}

func TestPlanner_Plan_UnknownDestinationIsFatal(t *testing.T) {
	f := newFixture(t)

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Nowhereville",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, geocode.ErrNotFound)
	assert.Nil(t, plan)
	assert.Zero(t, f.weather.calls)
	assert.Zero(t, f.advice.calls)
}

// Consecutive runs over the same planner are independent: identical inputs
// produce identical route data under fresh run identifiers.
func TestPlanner_Plan_Restartable(t *testing.T) {
	f := newFixture(t)

	req := trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
		Date:        time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		SampleCount: 4,
	}

	first, err := f.planner.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := f.planner.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Stops, second.Stops)
	assert.Equal(t, first.Geometry, second.Geometry)
	assert.Equal(t, first.DistanceMeters, second.DistanceMeters)
	assert.Equal(t, first.WorstSeverity, second.WorstSeverity)
}

// A failed run leaves no residue: the same planner completes the corrected
// request normally.
func TestPlanner_Plan_RecoversAfterFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Nowhereville",
	})
	require.Error(t, err)

	plan, err := f.planner.Plan(context.Background(), trip.PlanRequest{
		Origin:      trip.OriginFromText("Amsterdam"),
		Destination: "Paris",
	})
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "Paris", plan.Destination.Label)
}
