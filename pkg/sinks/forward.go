package sinks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

const defaultForwardTimeoutSeconds = 30

// ForwardSink POSTs every event as JSON to a downstream endpoint.
type ForwardSink struct {
	// Indicates if the sink is enabled
	enabled bool

	// Endpoint receiving the events
	url string

	// Bearer token, sent only when non-empty
	token string

	httpClient *http.Client
}

// NewForwardSink creates a forwarder. A non-positive timeout falls back to
// 30 seconds.
func NewForwardSink(url, token string, enabled bool, timeoutSeconds int) *ForwardSink {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultForwardTimeoutSeconds
	}

	return &ForwardSink{
		enabled:    enabled,
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
}

// IsEnabled returns whether the sink is enabled
func (f *ForwardSink) IsEnabled() bool {
	return f.enabled && f.url != ""
}

// Emit sends the event. Disabled sinks drop events silently.
func (f *ForwardSink) Emit(ctx context.Context, event statuspage.Event) error {
	if !f.IsEnabled() {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrForwardEncode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrForwardRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return fmt.Errorf("%s %d (failed to read response body: %v)", ErrForwardStatus, resp.StatusCode, err)
		}
		return fmt.Errorf("%s %d: %s", ErrForwardStatus, resp.StatusCode, string(body))
	}

	logger.Debugf("Forwarded %s event from %s: %s", event.Kind, event.Source, event.Event.Product)
	return nil
}
