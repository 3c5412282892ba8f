package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Requires a reachable PostgreSQL; set TEST_DATABASE_URL to run.
func TestCacheStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	pool, err := Connect(ctx, poolConfig)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer pool.Close()

	store := NewCacheStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	key := "places:v2:test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM place_cache WHERE key = $1`, key)
	})

	if _, ok, err := store.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v", ok, err)
	}

	if err := store.Set(ctx, key, []byte(`[{"id":"a"}]`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(value) != `[{"id": "a"}]` {
		t.Errorf("Get() = %s", value)
	}

	// Overwrite with an already expired entry
	if err := store.Set(ctx, key, []byte(`[]`), -time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Error("expected expired entry to be hidden")
	}

	n, err := store.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n < 1 {
		t.Errorf("DeleteExpired() = %d, want at least 1", n)
	}
}
