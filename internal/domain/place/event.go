// internal/domain/place/event.go

package place

import (
	"context"
	"time"
)

// EventType names a pipeline event
type EventType string

const (
	EventSearchCompleted EventType = "search.completed"
	EventPhotosFetched   EventType = "photos.fetched"
)

// SearchEvent describes one orchestrated nearby search
type SearchEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	TextQuery string            `json:"textQuery"`
	Location  string            `json:"location"`
	CacheKey  string            `json:"cacheKey,omitempty"`
	CacheHit  bool              `json:"cacheHit"`
	Count     int               `json:"count"`
	Paginated bool              `json:"paginated"`
	Stats     *FilterStatistics `json:"stats,omitempty"`
	Time      time.Time         `json:"time"`
}

// PhotosEvent describes one place photo lookup
type PhotosEvent struct {
	ID       string    `json:"id"`
	Type     EventType `json:"type"`
	PlaceID  string    `json:"placeId"`
	CacheHit bool      `json:"cacheHit"`
	Count    int       `json:"count"`
	Failed   int       `json:"failed"`
	Time     time.Time `json:"time"`
}

// EventPublisher announces pipeline results. Failures never affect the
// response.
type EventPublisher interface {
	PublishSearch(ctx context.Context, event SearchEvent)
	PublishPhotos(ctx context.Context, event PhotosEvent)
}
