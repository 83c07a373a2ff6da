package main

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"

	"github.com/redhat-appstudio/statuspage-watcher/internal/config"
	"github.com/redhat-appstudio/statuspage-watcher/internal/version"
)

// Help and version text
const (
	AppName        = "Status Page Watcher"
	AppDescription = "Watches the OpenAI status page by polling and by webhook"
)

var (
	validEnvironments = []string{config.ValidEnvironmentDevelopment, config.ValidEnvironmentProduction}
	validLogLevels    = []string{config.ValidLogLevelDebug, config.ValidLogLevelInfo, config.ValidLogLevelWarn, config.ValidLogLevelError}
)

// ServerFlags holds all command-line flags for the watcher. Empty values
// mean "not set" so environment variables and YAML still apply.
type ServerFlags struct {
	// HTTP server port number
	Port string
	// Deployment environment (development/production)
	Environment string
	// Logging verbosity level (debug/info/warn/error)
	LogLevel string
	// YAML configuration file
	ConfigPath string

	// Show help information and exit
	Help bool
	// Show version information and exit
	Version bool
}

// parseFlags parses args (without the program name) into ServerFlags.
func parseFlags(args []string) (*ServerFlags, error) {
	f := &ServerFlags{}
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.Port, "port", "",
		fmt.Sprintf("Server port number (default: %s)", config.DefaultPort))
	fs.StringVar(&f.Environment, "env", "",
		fmt.Sprintf("Deployment environment: %s (default: %s)",
			strings.Join(validEnvironments, ", "), config.DefaultEnvironment))
	fs.StringVar(&f.LogLevel, "log-level", "",
		fmt.Sprintf("Log level: %s (default: %s)", strings.Join(validLogLevels, ", "), config.DefaultLogLevel))
	fs.StringVar(&f.ConfigPath, "config", "",
		fmt.Sprintf("Path to the YAML configuration (default: %s)", config.DefaultConfigPath))

	fs.BoolVar(&f.Help, "help", false, "Show help information and exit")
	fs.BoolVar(&f.Help, "h", false, "Show help information and exit (short form)")
	fs.BoolVar(&f.Version, "version", false, "Show version information and exit")
	fs.BoolVar(&f.Version, "v", false, "Show version information and exit (short form)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// showHelp writes usage information to w.
func (f *ServerFlags) showHelp(w io.Writer) {
	fmt.Fprintf(w, "%s - %s\n", AppName, AppDescription)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  statuspage-watcher [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "FLAGS:")
	fmt.Fprintln(w, "    -port string")
	fmt.Fprintf(w, "          Server port (default: %s, env: PORT)\n", config.DefaultPort)
	fmt.Fprintln(w, "    -env string")
	fmt.Fprintf(w, "          Environment: %s (env: ENVIRONMENT)\n", strings.Join(validEnvironments, ", "))
	fmt.Fprintln(w, "    -log-level string")
	fmt.Fprintf(w, "          Log level: %s (env: LOG_LEVEL)\n", strings.Join(validLogLevels, ", "))
	fmt.Fprintln(w, "    -config string")
	fmt.Fprintf(w, "          YAML configuration file (default: %s)\n", config.DefaultConfigPath)
	fmt.Fprintln(w, "    -help, -h")
	fmt.Fprintln(w, "          Show this help information")
	fmt.Fprintln(w, "    -version, -v")
	fmt.Fprintln(w, "          Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ENVIRONMENT:")
	fmt.Fprintln(w, "  POLL_URL, POLL_INTERVAL        Incident feed and wait between polls")
	fmt.Fprintln(w, "  REDIS_HOST, REDIS_PORT         Redis seen store (storage.backend: redis)")
	fmt.Fprintln(w, "  REDIS_PASSWORD, FORWARD_TOKEN  Secrets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  # Poll and listen for webhooks on port 8000")
	fmt.Fprintln(w, "  statuspage-watcher")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  # Production logging, custom config")
	fmt.Fprintln(w, "  statuspage-watcher -env production -config /etc/watcher/config.yaml")
}

// showVersion writes version and build information to w.
func (f *ServerFlags) showVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", AppName, version.GetVersion())
	fmt.Fprintf(w, "Build info: %s\n", version.GetBuildInfo())
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
}

// validate checks the effective configuration values.
func validate(cfg *config.Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if !slices.Contains(validEnvironments, cfg.Environment) {
		return fmt.Errorf("invalid environment: %s (must be one of: %s)", cfg.Environment, strings.Join(validEnvironments, ", "))
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", cfg.LogLevel, strings.Join(validLogLevels, ", "))
	}
	return nil
}

// Interface methods for config package
// These methods implement the config.Flags interface to allow the config package
// to access flag values without depending on the specific flag implementation.

// GetPort returns the configured server port number.
func (f *ServerFlags) GetPort() string {
	return f.Port
}

// GetEnvironment returns the configured deployment environment.
func (f *ServerFlags) GetEnvironment() string {
	return f.Environment
}

// GetLogLevel returns the configured logging verbosity level.
func (f *ServerFlags) GetLogLevel() string {
	return f.LogLevel
}

// GetConfigPath returns the YAML configuration path.
func (f *ServerFlags) GetConfigPath() string {
	return f.ConfigPath
}
