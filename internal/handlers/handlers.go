package handlers

import (
	"github.com/redhat-appstudio/statuspage-watcher/apis/health"
	"github.com/redhat-appstudio/statuspage-watcher/apis/prometheus"
	"github.com/redhat-appstudio/statuspage-watcher/apis/webhook"
	"github.com/redhat-appstudio/statuspage-watcher/internal/version"

	"github.com/gofiber/fiber/v2"
)

// Routes bundles the API handlers the server mounts.
type Routes struct {
	Webhook *webhook.Handler
	Health  *health.Handler

	// Metrics may be nil; the metric endpoints then answer 503
	Metrics *prometheus.Handler
}

// SetupRoutes configures all HTTP routes for the status page watcher.
// It registers API endpoints using the API machinery pattern.
// This function should be called during server initialization.
func SetupRoutes(app *fiber.App, routes Routes) {
	// Register all APIs here - just add one line per API
	webhook.RegisterRoutes(app, routes.Webhook)
	health.RegisterRoutes(app, routes.Health)
	prometheus.RegisterRoutes(app, routes.Metrics)

	// Root endpoint
	app.Get("/", RootHandler)
}

// RootHandler handles requests to the root endpoint ("/").
// It returns basic server information including name, version, and available API endpoints.
func RootHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Status Page Watcher",
		"version": version.GetShortVersion(),
		"docs":    "/api/v1/health",
		"webhook": "/webhook",
		"metrics": "/metrics",
	})
}
