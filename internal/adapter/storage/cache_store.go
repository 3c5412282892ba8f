// internal/adapter/storage/cache_store.go

// Package storage holds the PostgreSQL-backed persistence for cached results.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const createCacheTable = `
	CREATE TABLE IF NOT EXISTS place_cache (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)
`

// CacheStore implements a TTL key-value store on a PostgreSQL table
type CacheStore struct {
	db *pgxpool.Pool
}

// NewCacheStore creates a new cache store
func NewCacheStore(db *pgxpool.Pool) *CacheStore {
	return &CacheStore{
		db: db,
	}
}

// Connect opens a connection pool and verifies it
func Connect(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the cache table if it does not exist
func (s *CacheStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createCacheTable); err != nil {
		return fmt.Errorf("error creating place_cache table: %w", err)
	}
	return nil
}

// Get returns the unexpired value stored under key
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `
		SELECT value::text
		FROM place_cache
		WHERE key = $1 AND expires_at > now()
	`

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error querying cache entry: %w", err)
	}

	return []byte(value), true, nil
}

// Set upserts value under key, expiring after ttl
func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO place_cache (key, value, expires_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key) DO UPDATE
		SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.Exec(ctx, query, key, string(value), time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("error saving cache entry: %w", err)
	}

	return nil
}

// DeleteExpired removes expired rows and returns how many were removed
func (s *CacheStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM place_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired cache entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RunJanitor deletes expired rows every interval until ctx is done
func (s *CacheStore) RunJanitor(ctx context.Context, interval time.Duration, logf func(string, ...any)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				logf("Error purging cache: %v", err)
				continue
			}
			if n > 0 {
				logf("Purged %d expired cache entries", n)
			}
		}
	}
}
