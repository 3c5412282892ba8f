// internal/service/photos/service.go

// Package photos resolves and caches place photo URLs.
package photos

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"emojimap/internal/adapter/cache"
	"emojimap/internal/adapter/google"
	"emojimap/internal/domain/place"
)

// Upstream resolves photo metadata and media URLs
type Upstream interface {
	FetchPhotoMetadata(ctx context.Context, placeID string) ([]string, error)
	FetchPhoto(ctx context.Context, photoName string, maxHeight float64) (*url.URL, error)
}

// Config holds photo pipeline settings
type Config struct {
	Namespace   cache.Namespace
	MaxHeight   float64
	Concurrency int
}

// Service implements place.PhotoService
type Service struct {
	upstream Upstream
	store    cache.Store
	writer   *cache.Writer[string]
	events   place.EventPublisher
	config   Config
}

// NewService creates a photo service. A nil store disables caching and a nil
// publisher disables events.
func NewService(upstream Upstream, store cache.Store, writer *cache.Writer[string], events place.EventPublisher, config Config) *Service {
	if config.Concurrency <= 0 {
		config.Concurrency = 5
	}
	return &Service{
		upstream: upstream,
		store:    store,
		writer:   writer,
		events:   events,
		config:   config,
	}
}

// FetchPlacePhotos returns up to req.Limit photo URLs for a place. Only a
// missing id or a failed metadata lookup is an error; individual photo
// failures are logged and dropped.
func (s *Service) FetchPlacePhotos(ctx context.Context, req place.PhotoRequest) (place.Envelope[string], error) {
	placeID := strings.TrimSpace(req.ID)
	if placeID == "" {
		return place.Envelope[string]{}, google.ErrEmptyPlaceID
	}

	cacheKey := ""
	if s.store != nil && s.writer != nil {
		cacheKey, _ = cache.PhotoKey(s.config.Namespace, placeID)
	}

	switch {
	case req.BypassCache:
		log.Printf("[photos] skipping cache read for %s: cache bypassed", placeID)
	case cacheKey == "":
		log.Printf("[photos] skipping cache read for %s: no cache key", placeID)
	default:
		if env, ok := s.readCache(ctx, cacheKey, req.Limit); ok {
			s.publish(ctx, placeID, env, 0)
			return env, nil
		}
	}

	names, err := s.upstream.FetchPhotoMetadata(ctx, placeID)
	if err != nil {
		return place.Envelope[string]{}, fmt.Errorf("error fetching photo metadata for %s: %w", placeID, err)
	}

	if req.Limit > 0 && len(names) > req.Limit {
		names = names[:req.Limit]
	}

	urls, failed := s.resolveAll(ctx, names)
	if failed > 0 {
		log.Printf("[photos] %d of %d photos failed for %s", failed, len(names), placeID)
	}

	env := place.NewEnvelope(urls, false)
	switch {
	case cacheKey == "":
		log.Printf("[photos] skipping cache write for %s: no cache key", placeID)
	case env.Count < 1:
		log.Printf("[photos] skipping cache write for %s: no photos resolved", placeID)
	default:
		s.writer.SetCacheResults(ctx, cacheKey, &env)
	}

	s.publish(ctx, placeID, env, failed)
	return env, nil
}

func (s *Service) readCache(ctx context.Context, key string, limit int) (place.Envelope[string], bool) {
	cached, ok, err := cache.Read[string](ctx, s.store, key)
	switch {
	case err != nil:
		log.Printf("[photos] cache read error for %s, fetching upstream: %v", key, err)
		return place.Envelope[string]{}, false
	case !ok:
		log.Printf("[photos] cache miss for %s", key)
		return place.Envelope[string]{}, false
	case limit > 0 && len(cached) < limit:
		log.Printf("[photos] insufficient cache for %s: have %d, need %d", key, len(cached), limit)
		return place.Envelope[string]{}, false
	}

	if limit > 0 {
		cached = cached[:limit]
	}
	log.Printf("[photos] cache hit for %s: returning %d photos", key, len(cached))
	return place.NewEnvelope(cached, true), true
}

// resolveAll resolves every name concurrently and waits for all of them.
// Successes keep the order of names.
func (s *Service) resolveAll(ctx context.Context, names []string) ([]string, int) {
	results := make([]string, len(names))

	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			u, err := s.upstream.FetchPhoto(ctx, name, s.config.MaxHeight)
			if err != nil {
				log.Printf("[photos] error resolving %s: %v", name, err)
				return nil
			}
			results[i] = u.String()
			return nil
		})
	}
	_ = g.Wait()

	urls := make([]string, 0, len(names))
	for _, u := range results {
		if u != "" {
			urls = append(urls, u)
		}
	}

	return urls, len(names) - len(urls)
}

func (s *Service) publish(ctx context.Context, placeID string, env place.Envelope[string], failed int) {
	if s.events == nil {
		return
	}
	s.events.PublishPhotos(ctx, place.PhotosEvent{
		PlaceID:  placeID,
		CacheHit: env.CacheHit,
		Count:    env.Count,
		Failed:   failed,
	})
}
