package openai

import "time"

// API configuration constants
const (
	// DefaultStatusURL is OpenAI's Statuspage incident feed
	DefaultStatusURL = "https://status.openai.com/api/v2/incidents.json"

	// DefaultCheckInterval is the wait between the end of one cycle and the
	// start of the next
	DefaultCheckInterval = 60 * time.Second

	// readyFailureThreshold is the number of consecutive failed cycles after
	// which the monitor stops reporting ready
	readyFailureThreshold = 3
)

// Conditional request headers
const (
	headerETag            = "ETag"
	headerLastModified    = "Last-Modified"
	headerIfNoneMatch     = "If-None-Match"
	headerIfModifiedSince = "If-Modified-Since"
)

// Error messages
const (
	ErrHTTPRequest   = "HTTP request failed"
	ErrIncidentFetch = "failed to fetch incidents"
	ErrIncidentParse = "failed to parse incident data"
	ErrUnexpected    = "unexpected response status"
)
