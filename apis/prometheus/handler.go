package prometheus

import (
	"sort"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Handler handles metric API requests.
type Handler struct {
	recorder *metrics.Recorder
}

// NewHandler creates a handler backed by recorder's registry.
func NewHandler(recorder *metrics.Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// GetMetricNames handles GET /api/v1/label/__name__/values
// Returns all metric names currently in the registry
func (h *Handler) GetMetricNames(c *fiber.Ctx) error {
	families, err := h.recorder.Registry().Gather()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":    "error",
			"errorType": "internal",
			"error":     err.Error(),
		})
	}

	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	sort.Strings(names)

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   names,
	})
}
