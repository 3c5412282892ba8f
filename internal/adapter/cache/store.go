// internal/adapter/cache/store.go

// Package cache persists pipeline results in a key-value store with TTLs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store is a key-value store with per-entry expiry. Every call may fail;
// callers treat failures as a miss.
type Store interface {
	// Get returns the stored value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Read loads and decodes a cached list
func Read[T any](ctx context.Context, store Store, key string) ([]T, bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("error reading cache key %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("error decoding cache key %s: %w", key, err)
	}

	return items, true, nil
}
