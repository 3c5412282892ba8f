// internal/service/geo/service.go

package geo

import (
	"math"
	"strconv"
	"strings"

	"emojimap/internal/domain/place"
)

// milesPerDegree is the planar approximation used for buffers
const milesPerDegree = 69.0

// ParseLocation parses a "lat,lng" string. The second return value is false
// when the string is malformed or a coordinate is out of range.
func ParseLocation(s string) (place.Location, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return place.Location{}, false
	}

	lat, ok := ParseCoordinate(parts[0])
	if !ok || lat < -90 || lat > 90 {
		return place.Location{}, false
	}

	lng, ok := ParseCoordinate(parts[1])
	if !ok || lng < -180 || lng > 180 {
		return place.Location{}, false
	}

	return place.Location{Latitude: lat, Longitude: lng}, true
}

// IsValidLocation checks if a "lat,lng" string holds two in-range coordinates
func IsValidLocation(s string) bool {
	_, ok := ParseLocation(s)
	return ok
}

// CreateLocationBuffer returns a rectangle around location extending radiusMiles
// in each direction. It returns false when the location is invalid, in which
// case no geographic restriction should be applied.
//
// The conversion is planar and does not wrap at the anti-meridian or poles.
func CreateLocationBuffer(location string, radiusMiles float64) (place.LocationBuffer, bool) {
	center, ok := ParseLocation(location)
	if !ok {
		return place.LocationBuffer{}, false
	}

	if math.IsNaN(radiusMiles) || math.IsInf(radiusMiles, 0) || radiusMiles < 0 {
		radiusMiles = 0
	}

	latDelta := radiusMiles / milesPerDegree
	lngDelta := radiusMiles / (milesPerDegree * math.Cos(center.Latitude*math.Pi/180.0))

	return place.LocationBuffer{
		Low: place.Location{
			Latitude:  center.Latitude - latDelta,
			Longitude: center.Longitude - lngDelta,
		},
		High: place.Location{
			Latitude:  center.Latitude + latDelta,
			Longitude: center.Longitude + lngDelta,
		},
	}, true
}

// RoundLocation rewrites a valid "lat,lng" string with the given number of
// decimal places
func RoundLocation(location string, precision int) (string, bool) {
	loc, ok := ParseLocation(location)
	if !ok {
		return "", false
	}
	if precision < 0 {
		precision = 0
	}

	return strconv.FormatFloat(loc.Latitude, 'f', precision, 64) + "," +
		strconv.FormatFloat(loc.Longitude, 'f', precision, 64), true
}

// ParseCoordinate parses a single finite coordinate value
func ParseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
