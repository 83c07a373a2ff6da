package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/redhat-appstudio/statuspage-watcher/apis/common"
	"github.com/redhat-appstudio/statuspage-watcher/apis/health"
	"github.com/redhat-appstudio/statuspage-watcher/apis/prometheus"
	"github.com/redhat-appstudio/statuspage-watcher/apis/webhook"
	"github.com/redhat-appstudio/statuspage-watcher/internal/config"
	"github.com/redhat-appstudio/statuspage-watcher/internal/handlers"
	"github.com/redhat-appstudio/statuspage-watcher/internal/version"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/metrics"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/monitors/openai"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/sinks"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 10 * time.Second

// Seen-store stream names
const (
	streamPoller  = string(statuspage.SourcePoller)
	streamWebhook = string(statuspage.SourceWebhook)
)

// Server represents the HTTP server instance with all its components.
// It encapsulates the Fiber application, configuration, the poller and the
// seen stores it has to close on shutdown.
type Server struct {
	// app is the Fiber HTTP application instance
	app *fiber.App

	// cfg contains the server configuration
	cfg *config.Config

	// monitor polls the incident feed; nil when polling is disabled
	monitor *openai.Monitor

	// stores are closed on shutdown
	stores map[string]storage.SeenStore
}

// New creates and initializes a new Server instance with the provided configuration.
// It sets up the Fiber application with middleware, routes, sinks and the poller.
// The server will be ready to start after this function returns.
func New(cfg *config.Config) (*Server, error) {
	// Initialize logger first
	if err := logger.InitFromConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return newServer(cfg, os.Stdout)
}

// newServer builds the server with console output going to out.
func newServer(cfg *config.Config, out io.Writer) (*Server, error) {
	recorder := metrics.NewRecorder()
	manager := buildSinks(cfg.Sinks, out)

	s := &Server{
		cfg:    cfg,
		stores: make(map[string]storage.SeenStore),
	}

	// The poller's tracker exists whenever something reads its store
	var pollerTracker *statuspage.Tracker
	if cfg.Poller.Enabled || cfg.Webhook.Dedup == config.WebhookDedupShared {
		store, err := s.openStore(cfg.Storage, streamPoller)
		if err != nil {
			return nil, err
		}
		pollerTracker = statuspage.NewTracker(store, cfg.Poller.SeedOnStart)
	}

	var webhookTracker *statuspage.Tracker
	switch cfg.Webhook.Dedup {
	case config.WebhookDedupSeparate:
		store, err := s.openStore(cfg.Storage, streamWebhook)
		if err != nil {
			s.closeStores()
			return nil, err
		}
		webhookTracker = statuspage.NewTracker(store, false)
	case config.WebhookDedupShared:
		webhookTracker = pollerTracker
	}
	logger.Infof("Webhook dedup policy: %s", cfg.Webhook.Dedup)

	if cfg.Poller.Enabled {
		pollCfg := openai.Config{
			URL:      cfg.Poller.URL,
			Interval: cfg.Poller.Interval,
			Timeout:  cfg.Poller.Timeout,
		}
		incidents := openai.NewIncidents(openai.NewClientFor(pollCfg), pollerTracker, manager, s.stores[streamPoller], recorder)
		s.monitor = openai.NewMonitor(pollCfg, incidents)
		logger.Infof("Incident polling enabled - URL: %s, interval: %v, seed on start: %t",
			cfg.Poller.URL, cfg.Poller.Interval, cfg.Poller.SeedOnStart)
	} else {
		logger.Infof("Incident polling: disabled")
	}

	// Create Fiber app with faster JSON encoder
	app := fiber.New(fiber.Config{
		AppName:               "Status Page Watcher " + version.GetVersion(),
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(common.ErrorResponse{
				Error:   true,
				Message: err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	counters := make(map[string]health.Counter, len(s.stores))
	for stream, store := range s.stores {
		counters[stream] = store
	}
	var poller health.PollerStatus
	if s.monitor != nil {
		poller = s.monitor
	}

	handlers.SetupRoutes(app, handlers.Routes{
		Webhook: webhook.NewHandler(manager, webhookTracker, recorder),
		Health:  health.NewHandler(poller, counters),
		Metrics: prometheus.NewHandler(recorder),
	})

	s.app = app
	return s, nil
}

// buildSinks registers the console sink and, when configured, the forwarder.
func buildSinks(cfg config.SinksConfig, out io.Writer) *sinks.Manager {
	manager := sinks.NewManager()
	if cfg.Console {
		manager.RegisterSink(sinks.ConsoleSinkName, sinks.NewConsoleSink(out))
	}

	forward := sinks.NewForwardSink(cfg.Forward.URL, cfg.Forward.Token, cfg.Forward.Enabled, cfg.Forward.TimeoutSeconds)
	if forward.IsEnabled() {
		manager.RegisterSink(sinks.ForwardSinkName, forward)
		logger.Infof("Event forwarding: enabled (url: %s)", cfg.Forward.URL)
	} else if cfg.Forward.Enabled {
		logger.Warnf("Event forwarding enabled but no URL configured")
	}

	logger.Infof("Event sinks: %v", manager.Names())
	return manager
}

func (s *Server) openStore(cfg config.StorageConfig, stream string) (storage.SeenStore, error) {
	store, err := storage.NewSeenStore(storageConfig(cfg), stream)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s seen store: %w", stream, err)
	}
	s.stores[stream] = store
	logger.Infof("Seen store for %s: %s (ttl: %v)", stream, cfg.Backend, cfg.TTL)
	return store, nil
}

// storageConfig converts the YAML-facing config into the storage package's.
func storageConfig(cfg config.StorageConfig) storage.Config {
	return storage.Config{
		Backend: cfg.Backend,
		TTL:     cfg.TTL,
		Redis: storage.RedisConfig{
			Address:   cfg.Redis.Address,
			Password:  cfg.Redis.Password,
			Database:  cfg.Redis.Database,
			KeyPrefix: cfg.Redis.KeyPrefix,
		},
		SQLite: storage.SQLiteConfig{
			Path: cfg.SQLite.Path,
		},
	}
}

// Start starts the poller and the HTTP server, then blocks until ctx is
// cancelled or the listener fails. Cancelling ctx shuts everything down.
func (s *Server) Start(ctx context.Context) error {
	if s.monitor != nil {
		logger.Info("Starting incident polling thread...")
		go s.monitor.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on :%s", s.cfg.Port)
		errCh <- s.app.Listen(":" + s.cfg.Port)
	}()

	select {
	case err := <-errCh:
		s.monitor.Stop()
		s.closeStores()
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the poller, drains in-flight requests and closes stores.
func (s *Server) Shutdown() error {
	logger.Info("Shutting down...")
	s.monitor.Stop()

	err := s.app.ShutdownWithTimeout(shutdownTimeout)
	s.closeStores()
	logger.Sync()
	return err
}

func (s *Server) closeStores() {
	for stream, store := range s.stores {
		if err := store.Close(); err != nil {
			logger.Warnf("Failed to close %s seen store: %v", stream, err)
		}
	}
}
