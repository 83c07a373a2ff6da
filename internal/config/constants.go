package config

import "time"

// Default configuration values
const (
	// DefaultPort is the default HTTP port for the webhook receiver
	DefaultPort = "8000"

	// DefaultEnvironment is the default deployment environment
	DefaultEnvironment = "development"

	// DefaultLogLevel is the default logging level
	DefaultLogLevel = "info"

	// DefaultConfigPath is where the YAML configuration is looked up
	DefaultConfigPath = "configs/config.yaml"
)

// Poller defaults
const (
	// DefaultPollURL is the provider's public incident feed
	DefaultPollURL = "https://status.openai.com/api/v2/incidents.json"

	// DefaultPollInterval is the fixed wait between poll cycles
	DefaultPollInterval = 60 * time.Second
)

// Valid environment values
const (
	ValidEnvironmentDevelopment = "development"
	ValidEnvironmentProduction  = "production"
)

// Valid log level values
const (
	ValidLogLevelDebug = "debug"
	ValidLogLevelInfo  = "info"
	ValidLogLevelWarn  = "warn"
	ValidLogLevelError = "error"
)

// Seen-store backends
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendSQLite = "sqlite"
)

// Webhook dedup policies
const (
	// WebhookDedupNone re-emits every webhook delivery
	WebhookDedupNone = "none"

	// WebhookDedupSeparate gives the webhook path its own seen store
	WebhookDedupSeparate = "separate"

	// WebhookDedupShared makes the webhook path consult the poller's store
	WebhookDedupShared = "shared"
)
