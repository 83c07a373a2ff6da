package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Flags defines the interface for command-line flag access.
// It keeps the config package independent of the flag implementation.
type Flags interface {
	GetPort() string
	GetEnvironment() string
	GetLogLevel() string
	GetConfigPath() string
}

// LoadWithFlags creates a new Config instance by loading configuration from
// the YAML file and applying environment and command-line overrides.
//
// Configuration precedence (highest to lowest):
// 1. Command-line flags (server settings only)
// 2. Environment variables
// 3. YAML configuration file
// 4. Default values
//
// Parameters:
//   - flgs: Command-line flags interface (can be nil)
func LoadWithFlags(flgs Flags) *Config {
	path := DefaultConfigPath
	if flgs != nil && flgs.GetConfigPath() != "" {
		path = flgs.GetConfigPath()
	}
	yamlConfig := loadFromYAML(path)

	port := getEnv("PORT", yamlConfig.Server.Port)
	if port == "" {
		port = DefaultPort
	}
	if flgs != nil && flgs.GetPort() != "" {
		port = flgs.GetPort()
	}

	environment := getEnv("ENVIRONMENT", yamlConfig.Server.Environment)
	if environment == "" {
		environment = DefaultEnvironment
	}
	if flgs != nil && flgs.GetEnvironment() != "" {
		environment = flgs.GetEnvironment()
	}

	logLevel := getEnv("LOG_LEVEL", yamlConfig.Server.LogLevel)
	if logLevel == "" {
		logLevel = DefaultLogLevel
	}
	if flgs != nil && flgs.GetLogLevel() != "" {
		logLevel = flgs.GetLogLevel()
	}

	pollerEnabled := true
	if yamlConfig.Poller.Enabled != nil {
		pollerEnabled = *yamlConfig.Poller.Enabled
	}

	pollURL := getEnv("POLL_URL", yamlConfig.Poller.URL)
	if pollURL == "" {
		pollURL = DefaultPollURL
	}

	pollInterval := parseDuration(getEnv("POLL_INTERVAL", yamlConfig.Poller.Interval), DefaultPollInterval)
	pollTimeout := parseDuration(yamlConfig.Poller.Timeout, pollInterval)

	// Redis address from environment variables or YAML config
	redisConfig := yamlConfig.Storage.Redis
	redisHost := getEnv("REDIS_HOST", "")
	redisPort := getEnv("REDIS_PORT", "")
	redisAddress := redisConfig.Address
	if redisHost != "" && redisPort != "" {
		redisAddress = redisHost + ":" + redisPort
	} else if redisHost != "" {
		redisAddress = redisHost + ":6379" // Default port
	}

	consoleSink := true
	if yamlConfig.Sinks.Console != nil {
		consoleSink = *yamlConfig.Sinks.Console
	}

	return &Config{
		Port:        port,
		Environment: environment,
		LogLevel:    logLevel,
		Poller: PollerConfig{
			Enabled:     pollerEnabled,
			URL:         pollURL,
			Interval:    pollInterval,
			Timeout:     pollTimeout,
			SeedOnStart: yamlConfig.Poller.SeedOnStart,
		},
		Webhook: WebhookConfig{
			Dedup: normalizeDedupPolicy(yamlConfig.Webhook.Dedup),
		},
		Storage: StorageConfig{
			Backend: normalizeBackend(yamlConfig.Storage.Backend),
			TTL:     parseDuration(yamlConfig.Storage.TTLString, 0),
			Redis: RedisYAMLConfig{
				Address:   redisAddress,
				Password:  getEnv("REDIS_PASSWORD", redisConfig.Password),
				Database:  redisConfig.Database,
				KeyPrefix: redisConfig.KeyPrefix,
			},
			SQLite: yamlConfig.Storage.SQLite,
		},
		Sinks: SinksConfig{
			Console: consoleSink,
			Forward: ForwardConfig{
				Enabled:        yamlConfig.Sinks.Forward.Enabled,
				URL:            yamlConfig.Sinks.Forward.URL,
				Token:          getEnv("FORWARD_TOKEN", yamlConfig.Sinks.Forward.Token),
				TimeoutSeconds: yamlConfig.Sinks.Forward.TimeoutSeconds,
			},
		},
	}
}

func loadFromYAML(path string) *YAMLConfig {
	config := &YAMLConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return &YAMLConfig{}
	}
	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseDuration returns fallback for empty, invalid or negative values.
func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func normalizeDedupPolicy(policy string) string {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case WebhookDedupSeparate:
		return WebhookDedupSeparate
	case WebhookDedupShared:
		return WebhookDedupShared
	default:
		return WebhookDedupNone
	}
}

func normalizeBackend(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case StoreBackendRedis:
		return StoreBackendRedis
	case StoreBackendSQLite:
		return StoreBackendSQLite
	default:
		return StoreBackendMemory
	}
}
