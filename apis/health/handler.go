package health

import (
	"context"
	"time"

	"github.com/redhat-appstudio/statuspage-watcher/internal/version"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/monitors/openai"

	"github.com/gofiber/fiber/v2"
)

var startTime = time.Now()

// PollerStatus is implemented by *openai.Monitor.
type PollerStatus interface {
	Status() openai.Status
}

// Counter is implemented by every seen store.
type Counter interface {
	Len(ctx context.Context) (int, error)
}

// Handler serves the health endpoint.
type Handler struct {
	poller PollerStatus
	stores map[string]Counter
}

// NewHandler creates a health handler. poller may be nil when polling is
// disabled; stores maps stream names to their seen stores.
func NewHandler(poller PollerStatus, stores map[string]Counter) *Handler {
	return &Handler{poller: poller, stores: stores}
}

// Health handles health check requests and returns server status information.
// It provides uptime, version, poller state and seen counts for monitoring purposes.
func (h *Handler) Health(c *fiber.Ctx) error {
	uptime := time.Since(startTime)

	response := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Version:   version.GetShortVersion(),
		Uptime:    uptime.String(),
	}

	if h.poller != nil {
		status := h.poller.Status()
		response.Poller = &PollerHealth{Ready: status.IsReady(), Status: status}
		if !status.IsReady() {
			response.Status = StatusDegraded
		}
	}

	if len(h.stores) > 0 {
		response.Seen = make(map[string]int, len(h.stores))
		for stream, store := range h.stores {
			n, err := store.Len(c.UserContext())
			if err != nil {
				logger.Warnf("Failed to count %s seen store: %v", stream, err)
				continue
			}
			response.Seen[stream] = n
		}
	}

	return c.JSON(response)
}
