// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"emojimap/internal/adapter/cache"
	"emojimap/internal/adapter/events"
	"emojimap/internal/adapter/google"
	"emojimap/internal/adapter/storage"
	"emojimap/internal/config"
	"emojimap/internal/domain/place"
	"emojimap/internal/server"
	"emojimap/internal/server/handlers"
	"emojimap/internal/service/category"
	"emojimap/internal/service/nearby"
	"emojimap/internal/service/photos"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize cache backend
	store, closeStore, err := initCache(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeStore()

	// Initialize event publisher
	var eventConn events.Conn
	if cfg.NATS.URL != "" {
		natsConn, err := initNATS(cfg.NATS)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsConn.Close()
		eventConn = natsConn
	} else {
		log.Println("NATS_URL not set, search events disabled")
	}
	publisher := events.NewPublisher(eventConn, events.Config{SubjectPrefix: cfg.NATS.SubjectPrefix})

	// Initialize upstream client
	placesClient := google.NewClient(google.Config{
		APIKey:             cfg.Google.APIKey,
		SearchEndpoint:     cfg.Google.SearchEndpoint,
		DetailEndpoint:     cfg.Google.DetailEndpoint,
		MediaBase:          cfg.Google.MediaBase,
		Timeout:            cfg.Google.Timeout,
		DefaultPageSize:    cfg.Search.DefaultLimit,
		MaxPageSize:        cfg.Search.MaxPageSize,
		RankPreference:     cfg.Search.RankPreference,
		DefaultBufferMiles: cfg.Search.DefaultRadiusMiles,
		DefaultPhotoHeight: cfg.Photos.DefaultMaxHeight,
		MaxPhotoHeight:     cfg.Photos.MaxHeight,
	})

	// Initialize services
	taxonomy := category.DefaultTaxonomy()
	nearbyNS := cache.Namespace{Name: cfg.Cache.NearbyNamespace, Version: cfg.Cache.NearbyVersion}
	photoNS := cache.Namespace{Name: cfg.Cache.PhotoNamespace, Version: cfg.Cache.PhotoVersion}

	nearbyService := nearby.NewService(
		placesClient,
		store,
		cache.NewNearbyWriter(store, nearbyNS, cfg.Cache.NearbyTTL),
		nearby.NewNormalizer(category.NewResolver(taxonomy)),
		publisher,
		nearby.Config{DefaultRadiusMiles: cfg.Search.DefaultRadiusMiles},
	)

	photoService := photos.NewService(
		placesClient,
		store,
		cache.NewPhotoWriter(store, photoNS, cfg.Cache.PhotoTTL),
		publisher,
		photos.Config{
			Namespace:   photoNS,
			MaxHeight:   float64(cfg.Photos.DefaultMaxHeight),
			Concurrency: cfg.Photos.Concurrency,
		},
	)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		nearbyService,
		photoService,
		func(location string) (string, bool) {
			return cache.NearbyKey(nearbyNS, location, cfg.Cache.KeyPrecision)
		},
		handlers.PlacesConfig{
			DefaultLimit:      cfg.Search.DefaultLimit,
			DefaultPhotoLimit: cfg.Photos.DefaultLimit,
			CacheableQuery:    cacheableQuery(cfg.Search, taxonomy),
		},
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d (cache backend: %s)", cfg.Server.Host, cfg.Server.Port, cfg.Cache.Backend)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	cancel()
	log.Println("Shutdown complete")
}

var (
	_ place.NearbyService  = (*nearby.Service)(nil)
	_ place.PhotoService   = (*photos.Service)(nil)
	_ place.EventPublisher = (*events.Publisher)(nil)
)

// cacheableQuery returns the keyword list whose nearby results are cached,
// defaulting to every category name in the taxonomy
func cacheableQuery(cfg config.SearchConfig, taxonomy *category.Taxonomy) string {
	if cfg.CacheableQuery != "" {
		return cfg.CacheableQuery
	}

	categories := taxonomy.Categories()
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, "|")
}

// Initialize the configured cache backend
func initCache(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		log.Println("Using in-memory cache")
		return cache.NewMemoryStore(), func() {}, nil

	case config.BackendPostgres:
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}

		store := storage.NewCacheStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		go store.RunJanitor(ctx, cfg.Cache.PurgeInterval, log.Printf)

		return store, db.Close, nil

	default:
		client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}

		return cache.NewRedisStore(client), func() { client.Close() }, nil
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	return storage.Connect(ctx, poolConfig)
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
