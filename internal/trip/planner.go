package trip

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweather/tripweather/internal/geo"
	"github.com/tripweather/tripweather/internal/geocode"
	"github.com/tripweather/tripweather/internal/location"
	"github.com/tripweather/tripweather/internal/prefs"
	"github.com/tripweather/tripweather/internal/route"
	"github.com/tripweather/tripweather/internal/severity"
	"github.com/tripweather/tripweather/internal/weather"

	"github.com/tripweather/tripweather/internal/advice"
)

const instrumentationName = "github.com/tripweather/tripweather/internal/trip"

// PlannerConfig holds the collaborators and defaults for the planner.
type PlannerConfig struct {
	// Geocoder resolves endpoints and stop labels (required).
	Geocoder *geocode.Service

	// Weather fetches current conditions per sample (required).
	Weather weather.Provider

	// Advice generates the trip advice text (required).
	Advice advice.Provider

	// Location supplies the device position for "use current location"
	// requests (optional; such requests fail without it).
	Location location.Provider

	// Prefs receives the last-location preference after each successful
	// weather fetch (optional, best-effort).
	Prefs prefs.Store

	// SampleCount is the default number of route segments (default: 5).
	SampleCount int

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// Tracer and Meter default to the global otel providers.
	Tracer trace.Tracer
	Meter  metric.Meter
}

// Planner runs the trip planning pipeline. It holds no per-run state: every
// run constructs a fresh Plan, so a completed or failed run leaves nothing
// behind for the next one.
type Planner struct {
	geocoder    *geocode.Service
	weather     weather.Provider
	advice      advice.Provider
	location    location.Provider
	prefs       prefs.Store
	sampleCount int
	logger      zerolog.Logger
	tracer      trace.Tracer
	runs        metric.Int64Counter
}

// NewPlanner creates a new trip planner.
func NewPlanner(cfg PlannerConfig) *Planner {
	sampleCount := cfg.SampleCount
	if sampleCount < 1 {
		sampleCount = route.DefaultSampleCount
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	meter := cfg.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	runs, _ := meter.Int64Counter("trip.plan.runs",
		metric.WithDescription("Completed planning runs by outcome."))

	return &Planner{
		geocoder:    cfg.Geocoder,
		weather:     cfg.Weather,
		advice:      cfg.Advice,
		location:    cfg.Location,
		prefs:       cfg.Prefs,
		sampleCount: sampleCount,
		logger:      cfg.Logger,
		tracer:      tracer,
		runs:        runs,
	}
}

// Plan executes one planning run. Stages run strictly sequentially; a fatal
// failure in resolution or advice aborts the run, while per-sample weather
// failures only degrade the affected stop.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	runID := uuid.New()
	log := p.logger.With().Str("run_id", runID.String()).Logger()

	ctx, span := p.tracer.Start(ctx, "trip.plan")
	defer span.End()

	// Blank input is rejected before any provider call.
	if !req.Origin.UseDevice() && strings.TrimSpace(req.Origin.Text()) == "" {
		return p.fail(ctx, log, ErrEmptyOrigin)
	}
	if strings.TrimSpace(req.Destination) == "" {
		return p.fail(ctx, log, ErrEmptyDestination)
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	origin, err := p.resolveOrigin(ctx, req.Origin)
	if err != nil {
		return p.fail(ctx, log, err)
	}

	destination, err := p.resolveDestination(ctx, req.Destination)
	if err != nil {
		return p.fail(ctx, log, err)
	}

	count := req.SampleCount
	if count < 1 {
		count = p.sampleCount
	}
	samples := route.SamplePoints(origin.Point, destination.Point, count)

	stops, worst := p.enrich(ctx, log, samples)

	adviceText, err := p.requestAdvice(ctx, origin, destination, date)
	if err != nil {
		log.Error().Err(err).Msg("advice request failed")
		return p.fail(ctx, log, err)
	}

	plan := &Plan{
		RunID:          runID,
		Origin:         origin,
		Destination:    destination,
		Stops:          stops,
		Geometry:       route.Geometry(samples),
		DistanceMeters: geo.Distance(origin.Point, destination.Point),
		WorstSeverity:  worst,
		Advice:         adviceText,
		Date:           date,
		CreatedAt:      time.Now(),
	}

	p.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "completed")))
	log.Info().
		Str("origin", origin.Label).
		Str("destination", destination.Label).
		Int("stops", len(stops)).
		Str("worst_severity", worst.String()).
		Msg("trip plan completed")

	return plan, nil
}

// resolveOrigin resolves the trip origin from the device position or from
// free text. Device-location failures are fatal to the run.
func (p *Planner) resolveOrigin(ctx context.Context, src OriginSource) (PlaceResolution, error) {
	ctx, span := p.tracer.Start(ctx, "trip.resolve_origin")
	defer span.End()

	if src.UseDevice() {
		if p.location == nil {
			return PlaceResolution{}, location.ErrServiceDisabled
		}
		point, err := p.location.Current(ctx)
		if err != nil {
			return PlaceResolution{}, err
		}
		return PlaceResolution{
			Label: p.geocoder.ResolveLabel(ctx, point),
			Point: point,
		}, nil
	}

	text := strings.TrimSpace(src.Text())
	point, err := p.geocoder.ResolveForward(ctx, text)
	if err != nil {
		return PlaceResolution{}, err
	}
	return PlaceResolution{Label: text, Point: point}, nil
}

// resolveDestination forward-geocodes the destination text.
func (p *Planner) resolveDestination(ctx context.Context, destination string) (PlaceResolution, error) {
	ctx, span := p.tracer.Start(ctx, "trip.resolve_destination")
	defer span.End()

	text := strings.TrimSpace(destination)
	point, err := p.geocoder.ResolveForward(ctx, text)
	if err != nil {
		return PlaceResolution{}, err
	}
	return PlaceResolution{Label: text, Point: point}, nil
}

// enrich fetches weather and a label for each sample in route order. Weather
// failures degrade the stop to description "unknown" and severity Good; the
// label is always resolved and never fails.
func (p *Planner) enrich(ctx context.Context, log zerolog.Logger, samples []route.Sample) ([]CityStop, severity.Level) {
	ctx, span := p.tracer.Start(ctx, "trip.enrich")
	defer span.End()

	stops := make([]CityStop, 0, len(samples))
	worst := severity.Good

	for _, sample := range samples {
		stop := CityStop{
			Sample:             sample,
			WeatherDescription: "unknown",
			Severity:           severity.Good,
		}

		obs, err := p.weather.Current(ctx, sample.Point)
		if err != nil {
			log.Warn().Err(err).
				Int("index", sample.Index).
				Float64("lat", sample.Point.Lat).
				Float64("lon", sample.Point.Lon).
				Msg("weather fetch failed, keeping stop without conditions")
		} else {
			stop.WeatherDescription = obs.Description
			stop.Severity = severity.Classify(obs.Description)
			p.rememberLocation(ctx, log, sample.Point)
		}

		stop.Label = p.geocoder.ResolveLabel(ctx, sample.Point)
		worst = severity.Max(worst, stop.Severity)
		stops = append(stops, stop)
	}

	return stops, worst
}

// rememberLocation persists the last-location preference after a successful
// weather fetch. Best-effort: a failed write is logged and ignored.
func (p *Planner) rememberLocation(ctx context.Context, log zerolog.Logger, point geo.Coordinate) {
	if p.prefs == nil {
		return
	}
	if err := p.prefs.SetLastLocation(ctx, point.String()); err != nil {
		log.Warn().Err(err).Msg("failed to persist last location")
	}
}

// requestAdvice asks the advice provider for the trip. Failures are fatal:
// the advice is the requested product, not decoration.
func (p *Planner) requestAdvice(ctx context.Context, origin, destination PlaceResolution, date time.Time) (string, error) {
	ctx, span := p.tracer.Start(ctx, "trip.advice")
	defer span.End()

	return p.advice.TripAdvice(ctx, origin.Label, destination.Label, date)
}

func (p *Planner) fail(ctx context.Context, log zerolog.Logger, err error) (*Plan, error) {
	p.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
	log.Debug().Err(err).Msg("trip plan failed")
	return nil, err
}
