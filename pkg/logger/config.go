package logger

import (
	"github.com/redhat-appstudio/statuspage-watcher/internal/config"
)

// FromConfig derives logger settings from the application config: JSON in
// production, colored console output otherwise. Logs go to stderr so the
// event blocks on stdout stay clean.
func FromConfig(cfg *config.Config) *Config {
	loggerConfig := DefaultConfig()

	if cfg.LogLevel != "" {
		loggerConfig.Level = LogLevel(cfg.LogLevel)
	}

	if cfg.Environment == config.ValidEnvironmentProduction {
		loggerConfig.Format = FormatJSON
	}

	return loggerConfig
}

func InitFromConfig(cfg *config.Config) error {
	return Init(FromConfig(cfg))
}
