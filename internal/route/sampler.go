// Package route produces evenly spaced sample points between two coordinates.
package route

import (
	"github.com/tripweather/tripweather/internal/geo"
	"github.com/tripweather/tripweather/pkg/polyline"
)

// DefaultSampleCount is the number of segments sampled along a route,
// yielding DefaultSampleCount+1 points including both endpoints.
const DefaultSampleCount = 5

// Sample is one point along the route. Index 0 is the origin and the highest
// index is the destination.
type Sample struct {
	Point geo.Coordinate
	Index int
}

// SamplePoints returns count+1 samples linearly interpolated between origin
// and destination at t = i/count. The straight line is a deliberate
// simplification: this is weather sampling, not road routing. Deterministic,
// no I/O.
func SamplePoints(origin, destination geo.Coordinate, count int) []Sample {
	if count < 1 {
		count = DefaultSampleCount
	}

	samples := make([]Sample, 0, count+1)
	for i := 0; i <= count; i++ {
		t := float64(i) / float64(count)
		samples = append(samples, Sample{
			Point: geo.Coordinate{
				Lat: origin.Lat + (destination.Lat-origin.Lat)*t,
				Lon: origin.Lon + (destination.Lon-origin.Lon)*t,
			},
			Index: i,
		})
	}
	return samples
}

// Geometry returns the encoded polyline of the sampled points for rendering.
func Geometry(samples []Sample) string {
	coords := make([]geo.Coordinate, len(samples))
	for i, s := range samples {
		coords[i] = s.Point
	}
	return polyline.Encode(coords)
}
