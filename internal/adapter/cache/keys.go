// internal/adapter/cache/keys.go

package cache

import (
	"strings"

	"emojimap/internal/service/geo"
)

// Namespace scopes and versions cache keys
type Namespace struct {
	Name    string
	Version string
}

// Prefix returns "<name>:<version>:"
func (n Namespace) Prefix() string {
	return n.Name + ":" + n.Version + ":"
}

// NearbyKey builds a nearby cache key with coordinates rounded to precision
// decimals. It returns false for an invalid location.
func NearbyKey(ns Namespace, location string, precision int) (string, bool) {
	rounded, ok := geo.RoundLocation(location, precision)
	if !ok {
		return "", false
	}
	return ns.Prefix() + rounded, true
}

// PhotoKey builds a photo cache key for a place id
func PhotoKey(ns Namespace, placeID string) (string, bool) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return "", false
	}
	return ns.Prefix() + placeID, true
}

// ValidNearbyKey checks a nearby key before it is written. The suffix must be
// two comma separated parts of which at least one is numeric, so
// "places:v2:40.71,special" passes.
func ValidNearbyKey(key, prefix string) bool {
	suffix, ok := strings.CutPrefix(key, prefix)
	if !ok || prefix == "" {
		return false
	}
	return looseLocation(suffix)
}

// ValidPhotoKey checks a photo key before it is written
func ValidPhotoKey(key, prefix string) bool {
	suffix, ok := strings.CutPrefix(key, prefix)
	if !ok || prefix == "" {
		return false
	}
	return strings.TrimSpace(suffix) != ""
}

func looseLocation(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return false
	}

	lat, lng := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if lat == "" || lng == "" {
		return false
	}

	_, latOK := geo.ParseCoordinate(lat)
	_, lngOK := geo.ParseCoordinate(lng)
	return latOK || lngOK
}
