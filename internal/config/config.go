// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Cache backends
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Google      GoogleConfig
	Search      SearchConfig
	Photos      PhotosConfig
	Cache       CacheConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	NATS        NATSConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// GoogleConfig holds Places API configuration
type GoogleConfig struct {
	APIKey         string
	SearchEndpoint string
	DetailEndpoint string
	MediaBase      string
	Timeout        time.Duration
}

// SearchConfig holds nearby search configuration
type SearchConfig struct {
	DefaultLimit       int
	MaxPageSize        int
	RankPreference     string
	DefaultRadiusMiles float64
	CacheableQuery     string
}

// PhotosConfig holds photo pipeline configuration
type PhotosConfig struct {
	DefaultLimit     int
	DefaultMaxHeight int
	MaxHeight        int
	Concurrency      int
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Backend         string
	NearbyNamespace string
	NearbyVersion   string
	PhotoNamespace  string
	PhotoVersion    string
	NearbyTTL       time.Duration
	PhotoTTL        time.Duration
	KeyPrecision    int
	PurgeInterval   time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration. An empty URL disables events.
type NATSConfig struct {
	URL            string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 25*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Google: GoogleConfig{
			APIKey:         getEnv("GOOGLE_PLACES_API_KEY", ""),
			SearchEndpoint: getEnv("GOOGLE_PLACES_SEARCH_ENDPOINT", "https://places.googleapis.com/v1/places:searchText"),
			DetailEndpoint: getEnv("GOOGLE_PLACES_DETAIL_ENDPOINT", "https://places.googleapis.com/v1"),
			MediaBase:      getEnv("GOOGLE_PLACES_MEDIA_BASE", "https://places.googleapis.com/v1"),
			Timeout:        getEnvAsDuration("GOOGLE_PLACES_TIMEOUT", 8*time.Second),
		},
		Search: SearchConfig{
			DefaultLimit:       getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxPageSize:        getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 50),
			RankPreference:     getEnv("SEARCH_RANK_PREFERENCE", "DISTANCE"),
			DefaultRadiusMiles: getEnvAsFloat("SEARCH_DEFAULT_RADIUS_MILES", 1.0),
			CacheableQuery:     getEnv("SEARCH_CACHEABLE_QUERY", ""),
		},
		Photos: PhotosConfig{
			DefaultLimit:     getEnvAsInt("PHOTO_DEFAULT_LIMIT", 10),
			DefaultMaxHeight: getEnvAsInt("PHOTO_DEFAULT_MAX_HEIGHT", 800),
			MaxHeight:        getEnvAsInt("PHOTO_MAX_HEIGHT", 1600),
			Concurrency:      getEnvAsInt("PHOTO_CONCURRENCY", 5),
		},
		Cache: CacheConfig{
			Backend:         strings.ToLower(getEnv("CACHE_BACKEND", BackendRedis)),
			NearbyNamespace: getEnv("CACHE_NEARBY_NAMESPACE", "places"),
			NearbyVersion:   getEnv("CACHE_NEARBY_VERSION", "v2"),
			PhotoNamespace:  getEnv("CACHE_PHOTO_NAMESPACE", "photos"),
			PhotoVersion:    getEnv("CACHE_PHOTO_VERSION", "v1"),
			NearbyTTL:       getEnvAsDuration("CACHE_NEARBY_TTL", 24*time.Hour),
			PhotoTTL:        getEnvAsDuration("CACHE_PHOTO_TTL", 7*24*time.Hour),
			KeyPrecision:    getEnvAsInt("CACHE_KEY_PRECISION", 2),
			PurgeInterval:   getEnvAsDuration("CACHE_PURGE_INTERVAL", 10*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "emojimap"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			SubjectPrefix:  getEnv("NATS_SUBJECT_PREFIX", "places"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Google.APIKey == "" && config.Environment != "development" {
		return fmt.Errorf("GOOGLE_PLACES_API_KEY must be set in non-development environments")
	}

	switch config.Cache.Backend {
	case BackendRedis, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}

	if config.Cache.KeyPrecision < 0 || config.Cache.KeyPrecision > 6 {
		return fmt.Errorf("cache key precision must be between 0 and 6, got %d", config.Cache.KeyPrecision)
	}

	if config.Cache.NearbyTTL <= 0 || config.Cache.PhotoTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	if config.Cache.PurgeInterval <= 0 {
		return fmt.Errorf("cache purge interval must be positive, got %s", config.Cache.PurgeInterval)
	}

	if config.Photos.Concurrency < 1 {
		return fmt.Errorf("photo concurrency must be at least 1, got %d", config.Photos.Concurrency)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
