// internal/domain/place/service.go

package place

import (
	"context"
)

// NearbyRequest holds caller parameters for a nearby search
type NearbyRequest struct {
	TextQuery   string
	Location    string // "lat,lng"
	OpenNow     bool
	Limit       int
	RadiusMiles float64
	CacheKey    string // empty means no caching
	BypassCache bool
	PageToken   string
}

// PhotoRequest holds caller parameters for a place photo lookup
type PhotoRequest struct {
	ID          string
	Limit       int
	BypassCache bool
}

// SearchParams are the inputs to an upstream text search
type SearchParams struct {
	TextQuery   string
	Location    string
	OpenNow     bool
	Limit       int
	BufferMiles float64
	PageToken   string
}

// SearchResult is the raw upstream search outcome
type SearchResult struct {
	Places        []RawPlace
	Count         int
	CacheHit      bool
	NextPageToken string
}

// NearbyService defines the nearby places pipeline
type NearbyService interface {
	// FetchNearbyPlaces returns simplified places for a query around a location
	FetchNearbyPlaces(ctx context.Context, req NearbyRequest) (Envelope[SimplifiedPlace], error)
}

// PhotoService defines the place photo pipeline
type PhotoService interface {
	// FetchPlacePhotos returns resolved photo URLs for a place
	FetchPlacePhotos(ctx context.Context, req PhotoRequest) (Envelope[string], error)
}
