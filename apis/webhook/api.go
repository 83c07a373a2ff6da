package webhook

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the Statuspage webhook receiver.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Post("/webhook", handler.Receive)
}
