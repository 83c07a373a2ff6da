package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/storage"
)

// feedResponse is what the fake status page answers next.
type feedResponse struct {
	status       int
	etag         string
	lastModified string
	body         string
	incidents    []statuspage.Incident
}

// fakeFeed is a scripted Statuspage endpoint. Once the script runs out the
// last response repeats.
type fakeFeed struct {
	mu        sync.Mutex
	responses []feedResponse
	requests  []http.Header
}

func newFakeFeed(t *testing.T, responses ...feedResponse) (*fakeFeed, *httptest.Server) {
	t.Helper()
	feed := &fakeFeed{responses: responses}
	srv := httptest.NewServer(http.HandlerFunc(feed.serve))
	t.Cleanup(srv.Close)
	return feed, srv
}

func (f *fakeFeed) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Header.Clone())
	resp := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()

	if resp.etag != "" {
		w.Header().Set("ETag", resp.etag)
	}
	if resp.lastModified != "" {
		w.Header().Set("Last-Modified", resp.lastModified)
	}
	if resp.status == 0 {
		resp.status = http.StatusOK
	}
	w.WriteHeader(resp.status)

	switch {
	case resp.body != "":
		_, _ = w.Write([]byte(resp.body))
	case resp.status == http.StatusOK:
		_ = json.NewEncoder(w).Encode(statuspage.IncidentList{Incidents: resp.incidents})
	}
}

func (f *fakeFeed) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeFeed) request(i int) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

// closedURL returns the address of a server that is no longer listening, so
// requests fail at the transport level.
func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// hangingURL returns a server that never answers until the client gives up.
func hangingURL(t *testing.T) string {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })
	return srv.URL
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []statuspage.Event
}

func (r *recordingEmitter) Emit(_ context.Context, event statuspage.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestIncidents(url string, seed bool) (*Incidents, *recordingEmitter, *storage.MemoryStore) {
	store := storage.NewMemoryStore(0)
	emitter := &recordingEmitter{}
	client := NewClient(url, 0)
	return NewIncidents(client, statuspage.NewTracker(store, seed), emitter, store, nil), emitter, store
}

func testIncident(id, name string) statuspage.Incident {
	return statuspage.Incident{
		ID:         id,
		Name:       name,
		Status:     "investigating",
		Impact:     "minor",
		Components: []statuspage.Component{{Name: "Chat"}},
	}
}
