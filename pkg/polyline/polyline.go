// Package polyline encodes coordinate sequences using Google's polyline
// algorithm (precision 5), the format map renderers expect for route overlays.
// The algorithm is documented at:
// https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"math"

	"github.com/tripweather/tripweather/internal/geo"
)

// Encode encodes a coordinate sequence into a polyline string.
func Encode(coords []geo.Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	out := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLon := 0

	for _, c := range coords {
		lat := int(math.Round(c.Lat * 1e5))
		lon := int(math.Round(c.Lon * 1e5))

		out = appendValue(out, lat-prevLat)
		out = appendValue(out, lon-prevLon)

		prevLat = lat
		prevLon = lon
	}

	return string(out)
}

// appendValue appends one delta value encoded in 5-bit chunks.
func appendValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}
