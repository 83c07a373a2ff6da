package openai

import (
	"context"
	"sync"
	"time"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
)

// Config holds the poller knobs.
type Config struct {
	URL      string
	Interval time.Duration

	// Timeout bounds each fetch; zero means Interval
	Timeout time.Duration
}

// Status describes the recent health of the poll loop.
type Status struct {
	LastAttempt         time.Time `json:"last_attempt"`
	LastSuccess         time.Time `json:"last_success"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	Cycles              int       `json:"cycles"`
	Seeding             bool      `json:"seeding"`
}

// IsReady reports whether the feed was fetched at least once and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailureThreshold
}

// Monitor drives Incidents.Check on a fixed interval. The first check runs
// immediately; the next one starts interval after the previous finished, so
// cycles never overlap.
type Monitor struct {
	incidents *Incidents
	interval  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool

	statusMu sync.RWMutex
	status   Status
}

// NewMonitor creates a monitor for cfg. Non-positive intervals fall back to
// DefaultCheckInterval.
func NewMonitor(cfg Config, incidents *Incidents) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCheckInterval
	}
	m := &Monitor{
		incidents: incidents,
		interval:  cfg.Interval,
	}
	if incidents != nil && incidents.tracker != nil {
		m.status.Seeding = incidents.tracker.Seeding()
	}
	return m
}

// NewClientFor builds the fetch client for cfg.
func NewClientFor(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = cfg.Interval
	}
	return NewClient(cfg.URL, timeout)
}

// Start polls until ctx is cancelled or Stop is called. It blocks; a second
// concurrent call returns immediately.
func (m *Monitor) Start(ctx context.Context) {
	if m == nil || m.incidents == nil {
		return
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.mu.Unlock()

	defer func() {
		cancel()
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	logger.Infof("Starting status page monitoring - url: %s, interval: %v", m.incidents.client.url, m.interval)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Infof("Status page monitoring stopped")
			return
		case <-timer.C:
			m.runCycle(ctx)
			timer.Reset(m.interval)
		}
	}
}

// Stop cancels a running Start.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// Status returns a snapshot of the loop's recent health.
func (m *Monitor) Status() Status {
	if m == nil {
		return Status{}
	}
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

func (m *Monitor) runCycle(ctx context.Context) {
	at := time.Now()
	_, err := m.incidents.Check(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debugf("Incident check interrupted by shutdown: %v", err)
		} else {
			logger.Errorf("Incident check failed: %v", err)
		}
	}

	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	m.status.Cycles++
	m.status.LastAttempt = at
	m.status.Seeding = m.incidents.tracker.Seeding()
	if err != nil {
		m.status.ConsecutiveFailures++
		m.status.LastError = err.Error()
		return
	}
	m.status.ConsecutiveFailures = 0
	m.status.LastError = ""
	m.status.LastSuccess = at
}
