package config

import "time"

// Config represents the main application configuration structure.
// It holds everything the status page watcher needs at startup: the
// webhook server settings, the poller, the seen-store backend and sinks.
type Config struct {
	// HTTP server port (e.g., "8000")
	Port string

	// Application environment (e.g., "development", "production")
	Environment string

	// Logging level (e.g., "info", "debug", "warn", "error")
	LogLevel string

	// Incident feed poller configuration
	Poller PollerConfig

	// Webhook receiver configuration
	Webhook WebhookConfig

	// Seen-store configuration
	Storage StorageConfig

	// Event sink configuration
	Sinks SinksConfig
}

// PollerConfig holds configuration for the incident feed poller.
type PollerConfig struct {
	// Whether the poller runs at all
	Enabled bool

	// Incident list endpoint
	URL string

	// Wait between poll cycles
	Interval time.Duration

	// Per-request timeout; defaults to Interval
	Timeout time.Duration

	// Record incidents of the first successful cycle without emitting them
	SeedOnStart bool
}

// WebhookConfig holds configuration for the webhook receiver.
type WebhookConfig struct {
	// Dedup policy: none, separate or shared
	Dedup string
}

// SinksConfig holds configuration for event sinks.
type SinksConfig struct {
	// Console block output (enabled unless explicitly disabled)
	Console bool

	// HTTP forwarding sink
	Forward ForwardConfig
}

// ForwardConfig configures the HTTP forwarding sink.
type ForwardConfig struct {
	Enabled bool

	// Endpoint receiving event JSON
	URL string

	// Bearer token, taken from FORWARD_TOKEN when set
	Token string

	// Request timeout in seconds (default: 30)
	TimeoutSeconds int
}

// ServerConfig represents server-related configuration settings.
type ServerConfig struct {
	// HTTP server port (e.g., "8000")
	Port string `yaml:"port"`

	// Application environment (e.g., "development", "production")
	Environment string `yaml:"environment"`

	// Logging level (e.g., "info", "debug", "warn", "error")
	LogLevel string `yaml:"log_level"`
}

// PollerYAMLConfig mirrors PollerConfig for YAML unmarshaling.
type PollerYAMLConfig struct {
	// Pointer so an absent key keeps the poller on
	Enabled *bool `yaml:"enabled"`

	URL string `yaml:"url"`

	// Interval as a duration string (e.g., "60s", "5m")
	Interval string `yaml:"interval"`

	// Timeout as a duration string
	Timeout string `yaml:"timeout"`

	SeedOnStart bool `yaml:"seed_on_start"`
}

// WebhookYAMLConfig mirrors WebhookConfig for YAML unmarshaling.
type WebhookYAMLConfig struct {
	Dedup string `yaml:"dedup"`
}

// StorageConfig holds configuration for the seen-incident store.
type StorageConfig struct {
	// Backend: memory, redis or sqlite
	Backend string `yaml:"backend"`

	// Forget seen IDs after this long; 0 keeps them forever
	TTL time.Duration `yaml:"-"`

	// TTL as a duration string (YAML only)
	TTLString string `yaml:"ttl"`

	// Redis storage configuration
	Redis RedisYAMLConfig `yaml:"redis"`

	// SQLite storage configuration
	SQLite SQLiteYAMLConfig `yaml:"sqlite"`
}

// RedisYAMLConfig represents Redis configuration from YAML files.
type RedisYAMLConfig struct {
	// Redis server address (e.g., "localhost:6379")
	Address string `yaml:"address"`

	// Redis password for authentication
	Password string `yaml:"password"`

	// Redis database number (0-15)
	Database int `yaml:"database"`

	// Key prefix for all Redis keys (e.g., "statuswatch")
	KeyPrefix string `yaml:"key_prefix"`
}

// SQLiteYAMLConfig represents SQLite configuration from YAML files.
type SQLiteYAMLConfig struct {
	// Database file path or DSN (e.g., "data/seen.db")
	Path string `yaml:"path"`
}

// SinksYAMLConfig mirrors SinksConfig for YAML unmarshaling.
type SinksYAMLConfig struct {
	Console *bool             `yaml:"console"`
	Forward ForwardYAMLConfig `yaml:"forward"`
}

// ForwardYAMLConfig mirrors ForwardConfig for YAML unmarshaling.
type ForwardYAMLConfig struct {
	Enabled        bool   `yaml:"enabled"`
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// YAMLConfig represents the structure of the YAML configuration file.
type YAMLConfig struct {
	Server  ServerConfig      `yaml:"server"`
	Poller  PollerYAMLConfig  `yaml:"poller"`
	Webhook WebhookYAMLConfig `yaml:"webhook"`
	Storage StorageConfig     `yaml:"storage"`
	Sinks   SinksYAMLConfig   `yaml:"sinks"`
}
