// internal/adapter/cache/writer.go

package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"emojimap/internal/domain/place"
)

// KeyValidator reports whether a key may be written under prefix
type KeyValidator func(key, prefix string) bool

// Writer validates and persists pipeline results
type Writer[T any] struct {
	store    Store
	ns       Namespace
	ttl      time.Duration
	validKey KeyValidator
	label    string
}

// NewNearbyWriter creates a writer for nearby search results
func NewNearbyWriter(store Store, ns Namespace, ttl time.Duration) *Writer[place.SimplifiedPlace] {
	return &Writer[place.SimplifiedPlace]{
		store:    store,
		ns:       ns,
		ttl:      ttl,
		validKey: ValidNearbyKey,
		label:    "nearby",
	}
}

// NewPhotoWriter creates a writer for resolved photo URLs
func NewPhotoWriter(store Store, ns Namespace, ttl time.Duration) *Writer[string] {
	return &Writer[string]{
		store:    store,
		ns:       ns,
		ttl:      ttl,
		validKey: ValidPhotoKey,
		label:    "photos",
	}
}

// SetCacheResults writes payload under key. Empty payloads and malformed keys
// are skipped, and store failures are logged only.
func (w *Writer[T]) SetCacheResults(ctx context.Context, key string, payload *place.Envelope[T]) {
	if payload == nil || payload.Count <= 0 {
		log.Printf("[cache:%s] refusing to cache empty payload for key %q", w.label, key)
		return
	}

	if !w.validKey(key, w.ns.Prefix()) {
		log.Printf("[cache:%s] refusing to cache invalid key %q (expected prefix %q)", w.label, key, w.ns.Prefix())
		return
	}

	data, err := json.Marshal(payload.Data)
	if err != nil {
		log.Printf("[cache:%s] error marshaling payload for key %s: %v", w.label, key, err)
		return
	}

	if err := w.store.Set(ctx, key, data, w.ttl); err != nil {
		log.Printf("[cache:%s] error writing key %s: %v", w.label, key, err)
		return
	}

	log.Printf("[cache:%s] cached %d entries under %s for %s", w.label, payload.Count, key, w.ttl)
}
