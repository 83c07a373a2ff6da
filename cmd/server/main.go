package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redhat-appstudio/statuspage-watcher/internal/config"
	"github.com/redhat-appstudio/statuspage-watcher/internal/server"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"

	"github.com/joho/godotenv"
)

// main is the entry point for the status page watcher.
// It performs the following operations:
//  1. Parses command-line flags
//  2. Loads environment variables from .env file if present
//  3. Loads configuration from YAML with environment and flag overrides
//  4. Initializes the HTTP server, sinks and seen stores
//  5. Starts incident polling (if enabled) and the webhook receiver
//  6. Shuts down on SIGINT or SIGTERM
func main() {
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n", err)
		(&ServerFlags{}).showHelp(os.Stderr)
		os.Exit(2)
	}
	if flags.Help {
		flags.showHelp(os.Stdout)
		return
	}
	if flags.Version {
		flags.showVersion(os.Stdout)
		return
	}

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}

	cfg := config.LoadWithFlags(flags)
	if err := validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize server: %v", err)
	}

	logger.Infof("Starting on port %s", cfg.Port)
	logger.Infof("Environment: %s", cfg.Environment)
	logger.Infof("Log level: %s", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
