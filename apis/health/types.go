package health

import (
	"time"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/monitors/openai"
)

// Health status values
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthResponse represents the health check response structure.
// It contains server status information for monitoring and health checks,
// including uptime, version, poller state and seen-store sizes.
type HealthResponse struct {
	// Status is "healthy", or "degraded" while the poller is not ready
	Status string `json:"status"`

	// Timestamp is when the health check was performed
	Timestamp time.Time `json:"timestamp"`

	// Version is the server version information
	Version string `json:"version"`

	// Uptime is the server uptime duration
	Uptime string `json:"uptime"`

	// Poller is nil when polling is disabled
	Poller *PollerHealth `json:"poller,omitempty"`

	// Seen maps each stream to the number of IDs in its store
	Seen map[string]int `json:"seen,omitempty"`
}

// PollerHealth reports the poll loop's recent history.
type PollerHealth struct {
	Ready bool `json:"ready"`
	openai.Status
}
