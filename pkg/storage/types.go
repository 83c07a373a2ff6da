package storage

import (
	"context"
	"time"
)

// SeenStore is a set of processed incident IDs. Implementations are safe
// for concurrent use.
type SeenStore interface {
	// Contains reports whether id was inserted and has not expired.
	Contains(ctx context.Context, id string) (bool, error)

	// Insert records id as seen now. Inserting twice refreshes its age.
	Insert(ctx context.Context, id string) error

	// Len returns the number of live IDs.
	Len(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a seen-store backend.
type Config struct {
	// Backend is "memory", "redis" or "sqlite"
	Backend string `json:"backend"`

	// TTL expires IDs after this long; zero keeps them forever
	TTL time.Duration `json:"ttl"`

	// Redis configuration
	Redis RedisConfig `json:"redis"`

	// SQLite configuration
	SQLite SQLiteConfig `json:"sqlite"`
}

// RedisConfig holds Redis-specific configuration.
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string `json:"address"`

	// Password is the Redis password (optional)
	Password string `json:"password"`

	// Database is the Redis database number (0-15)
	Database int `json:"database"`

	// KeyPrefix is the prefix for all Redis keys
	KeyPrefix string `json:"key_prefix"`
}

// SQLiteConfig holds SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is a file path or DSN; ":memory:" is allowed
	Path string `json:"path"`
}

// Backend names
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

const (
	defaultKeyPrefix = "statuswatch"
	defaultSQLiteDSN = "data/seen.db"
)
