// internal/service/nearby/service.go

// Package nearby orchestrates cached nearby place searches.
package nearby

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"emojimap/internal/adapter/cache"
	"emojimap/internal/domain/place"
)

// Upstream performs raw text searches
type Upstream interface {
	FetchFromUpstream(ctx context.Context, params place.SearchParams) place.SearchResult
}

// Config holds orchestrator settings
type Config struct {
	DefaultRadiusMiles float64
}

// Service implements place.NearbyService
type Service struct {
	upstream   Upstream
	store      cache.Store
	writer     *cache.Writer[place.SimplifiedPlace]
	normalizer *Normalizer
	events     place.EventPublisher
	config     Config
	flight     singleflight.Group
}

// NewService creates a nearby service. A nil store disables caching and a nil
// publisher disables events.
func NewService(
	upstream Upstream,
	store cache.Store,
	writer *cache.Writer[place.SimplifiedPlace],
	normalizer *Normalizer,
	events place.EventPublisher,
	config Config,
) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Service{
		upstream:   upstream,
		store:      store,
		writer:     writer,
		normalizer: normalizer,
		events:     events,
		config:     config,
	}
}

// FetchNearbyPlaces returns places for req, from cache when the cached entry
// holds at least req.Limit places
func (s *Service) FetchNearbyPlaces(ctx context.Context, req place.NearbyRequest) (place.Envelope[place.SimplifiedPlace], error) {
	bypass := req.BypassCache
	paginated := req.PageToken != ""
	if paginated {
		bypass = true
	}

	cacheKey := req.CacheKey
	if s.store == nil || s.writer == nil {
		cacheKey = ""
	}

	switch {
	case paginated:
		log.Printf("[places] skipping cache read for %q: paginated request", req.TextQuery)
	case bypass:
		log.Printf("[places] skipping cache read for %q: cache bypassed", req.TextQuery)
	case cacheKey == "":
		log.Printf("[places] skipping cache read for %q: no cache key", req.TextQuery)
	default:
		if env, ok := s.readCache(ctx, cacheKey, req.Limit); ok {
			s.publish(ctx, req, cacheKey, env, nil)
			return env, nil
		}
	}

	result := s.search(ctx, req)
	if err := ctx.Err(); err != nil {
		return place.Envelope[place.SimplifiedPlace]{}, fmt.Errorf("nearby search for %q: %w", req.TextQuery, err)
	}

	data, stats := s.normalizer.ProcessGoogleResponse(result.Places, req.TextQuery)
	env := place.NewEnvelope(data, false)
	env.NextPageToken = result.NextPageToken

	switch {
	case cacheKey == "":
		log.Printf("[places] skipping cache write for %q: no cache key", req.TextQuery)
	case paginated:
		log.Printf("[places] skipping cache write for %s: paginated request", cacheKey)
	case env.Count < 1:
		log.Printf("[places] skipping cache write for %s: no results", cacheKey)
	default:
		s.writer.SetCacheResults(ctx, cacheKey, &env)
	}

	s.publish(ctx, req, cacheKey, env, &stats)
	return env, nil
}

func (s *Service) readCache(ctx context.Context, key string, limit int) (place.Envelope[place.SimplifiedPlace], bool) {
	cached, ok, err := cache.Read[place.SimplifiedPlace](ctx, s.store, key)
	switch {
	case err != nil:
		log.Printf("[places] cache read error for %s, fetching upstream: %v", key, err)
		return place.Envelope[place.SimplifiedPlace]{}, false
	case !ok:
		log.Printf("[places] cache miss for %s", key)
		return place.Envelope[place.SimplifiedPlace]{}, false
	case limit > 0 && len(cached) < limit:
		log.Printf("[places] insufficient cache for %s: have %d, need %d", key, len(cached), limit)
		return place.Envelope[place.SimplifiedPlace]{}, false
	}

	if limit > 0 {
		cached = cached[:limit]
	}
	log.Printf("[places] cache hit for %s: returning %d places", key, len(cached))
	return place.NewEnvelope(cached, true), true
}

// search shares one upstream call between identical concurrent requests
func (s *Service) search(ctx context.Context, req place.NearbyRequest) place.SearchResult {
	radius := req.RadiusMiles
	if radius <= 0 {
		radius = s.config.DefaultRadiusMiles
	}

	params := place.SearchParams{
		TextQuery:   req.TextQuery,
		Location:    req.Location,
		OpenNow:     req.OpenNow,
		Limit:       req.Limit,
		BufferMiles: radius,
		PageToken:   req.PageToken,
	}

	key := fmt.Sprintf("%s|%s|%t|%d|%g|%s", params.TextQuery, params.Location, params.OpenNow, params.Limit, params.BufferMiles, params.PageToken)
	v, _, shared := s.flight.Do(key, func() (interface{}, error) {
		return s.upstream.FetchFromUpstream(context.WithoutCancel(ctx), params), nil
	})
	if shared {
		log.Printf("[places] shared upstream search for %q", req.TextQuery)
	}

	return v.(place.SearchResult)
}

func (s *Service) publish(ctx context.Context, req place.NearbyRequest, key string, env place.Envelope[place.SimplifiedPlace], stats *place.FilterStatistics) {
	if s.events == nil {
		return
	}
	s.events.PublishSearch(ctx, place.SearchEvent{
		TextQuery: req.TextQuery,
		Location:  req.Location,
		CacheKey:  key,
		CacheHit:  env.CacheHit,
		Count:     env.Count,
		Paginated: req.PageToken != "",
		Stats:     stats,
	})
}
