package prometheus

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// RegisterRoutes exposes the watcher's metrics. /metrics serves the
// exposition format for scrapers; /api/v1/label/__name__/values lists metric
// names the way the Prometheus HTTP API does, for Grafana's metric browser.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	v1 := app.Group("/api/v1")

	if handler == nil {
		unavailable := func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "error",
				"error":  "metrics not available",
			})
		}
		app.Get("/metrics", unavailable)
		v1.Get("/label/__name__/values", unavailable)
		return
	}

	app.Get("/metrics", adaptor.HTTPHandler(handler.recorder.Handler()))
	v1.Get("/label/__name__/values", handler.GetMetricNames)
}
