package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

// CacheToken holds the validators echoed back on the next request.
type CacheToken struct {
	ETag         string
	LastModified string
}

// FetchResult is the outcome of one conditional GET.
type FetchResult struct {
	// NotModified is set on 304; Incidents is nil then
	NotModified bool
	Incidents   []statuspage.Incident
}

// Client fetches the incident feed with conditional requests. It remembers
// the ETag and Last-Modified of the last 200 response.
type Client struct {
	httpClient *http.Client
	url        string

	mu    sync.Mutex
	token CacheToken
}

// NewClient creates a client whose requests give up after timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultStatusURL
	}
	if timeout <= 0 {
		timeout = DefaultCheckInterval
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url: url,
	}
}

// Token returns the cached validators.
func (c *Client) Token() CacheToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// FetchIncidents performs one conditional GET. A 304 leaves the cache
// untouched. A 200 replaces both validators with whatever the response
// carried, absent headers included, before the body is decoded.
func (c *Client) FetchIncidents(ctx context.Context) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	token := c.Token()
	if token.ETag != "" {
		req.Header.Set(headerIfNoneMatch, token.ETag)
	}
	if token.LastModified != "" {
		req.Header.Set(headerIfModifiedSince, token.LastModified)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrHTTPRequest, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		logger.Debugf("Incident feed not modified (etag %q)", token.ETag)
		return &FetchResult{NotModified: true}, nil
	case http.StatusOK:
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s %d: %s", ErrUnexpected, resp.StatusCode, string(body))
	}

	c.mu.Lock()
	c.token = CacheToken{
		ETag:         resp.Header.Get(headerETag),
		LastModified: resp.Header.Get(headerLastModified),
	}
	c.mu.Unlock()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var list statuspage.IncidentList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrIncidentParse, err)
	}

	return &FetchResult{Incidents: list.Incidents}, nil
}
