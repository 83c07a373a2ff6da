package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/storage"
)

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

type brokenStore struct{}

func (brokenStore) Contains(context.Context, string) (bool, error) { return false, errors.New("down") }
func (brokenStore) Insert(context.Context, string) error           { return errors.New("down") }

func newTestApp(tracker *statuspage.Tracker) (*fiber.App, *recordingEmitter) {
	emitter := &recordingEmitter{}
	handler := NewHandler(emitter, tracker, nil)
	handler.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, emitter
}

// observeLogs routes the package logger into an in-memory core for one test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prevLogger, prevSugar := logger.Logger, logger.Sugar
	logger.Logger = zap.New(core)
	logger.Sugar = logger.Logger.Sugar()
	t.Cleanup(func() { logger.Logger, logger.Sugar = prevLogger, prevSugar })
	return logs
}

func post(t *testing.T, app *fiber.App, body string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))
}

func TestReceive_Classification(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		kind   statuspage.Kind
		event  statuspage.NormalizedEvent
		detail string
	}{
		{
			name:  "component update",
			body:  `{"component_update": {"new_status": "operational"}, "component": {"name": "API"}}`,
			kind:  statuspage.KindComponent,
			event: statuspage.NormalizedEvent{Product: "OpenAI API - API", Status: "Operational"},
		},
		{
			name: "incident",
			body: `{"incident": {"id": "i1", "name": "X", "status": "investigating", "impact": "minor",
				"components": [{"name": "Chat"}], "incident_updates": [{"body": "Looking"}]}}`,
			kind: statuspage.KindIncident,
			event: statuspage.NormalizedEvent{
				Product: "OpenAI API - Chat",
				Status:  "X — Investigating (Minor impact)",
				Message: "Looking",
			},
		},
		{
			name:   "unknown shape",
			body:   `{"hello": "world"}`,
			kind:   statuspage.KindUnknown,
			detail: statuspage.ErrPayloadShape,
		},
		{
			name:   "malformed body",
			body:   `not json`,
			kind:   statuspage.KindUnknown,
			detail: statuspage.ErrPayloadDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, emitter := newTestApp(nil)
			post(t, app, tt.body)

			require.Len(t, emitter.events, 1)
			got := emitter.events[0]
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, statuspage.SourceWebhook, got.Source)
			assert.Equal(t, tt.event, got.Event)
			assert.Contains(t, got.Detail, tt.detail)
			assert.Equal(t, 2025, got.At.Year())
		})
	}
}

func TestReceive_NoDedupEmitsEveryDelivery(t *testing.T) {
	app, emitter := newTestApp(nil)
	body := `{"incident": {"id": "i1", "name": "X"}}`

	post(t, app, body)
	post(t, app, body)
	assert.Len(t, emitter.events, 2)
}

func TestReceive_Dedup(t *testing.T) {
	tracker := statuspage.NewTracker(storage.NewMemoryStore(0), false)
	app, emitter := newTestApp(tracker)

	post(t, app, `{"incident": {"id": "i1", "name": "X", "status": "investigating"}}`)
	post(t, app, `{"incident": {"id": "i1", "name": "X", "status": "resolved"}}`)
	post(t, app, `{"component_update": {"id": "i1", "new_status": "operational"}}`)
	post(t, app, `{"component_update": {"new_status": "operational"}}`)
	post(t, app, `{"component_update": {"new_status": "operational"}}`)

	kinds := make([]statuspage.Kind, 0, len(emitter.events))
	for _, e := range emitter.events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []statuspage.Kind{
		statuspage.KindIncident,
		statuspage.KindComponent,
		statuspage.KindComponent,
		statuspage.KindComponent,
	}, kinds, "repeat incident dropped, component ids namespaced, id-less updates always emitted")
}

func TestReceive_SharedWithPoller(t *testing.T) {
	store := storage.NewMemoryStore(0)
	tracker := statuspage.NewTracker(store, false)
	_, ok, err := tracker.ObserveIncident(context.Background(), statuspage.Incident{ID: "polled"})
	require.NoError(t, err)
	require.True(t, ok)

	app, emitter := newTestApp(tracker)
	post(t, app, `{"incident": {"id": "polled", "name": "X"}}`)
	assert.Empty(t, emitter.events)
}

func TestReceive_StoreErrorStillEmits(t *testing.T) {
	app, emitter := newTestApp(statuspage.NewTracker(brokenStore{}, false))
	post(t, app, `{"incident": {"id": "i1", "name": "X"}}`)
	assert.Len(t, emitter.events, 1)
}

func TestReceive_LogsStructuredFields(t *testing.T) {
	logs := observeLogs(t)

	app, _ := newTestApp(statuspage.NewTracker(brokenStore{}, false))
	post(t, app, `{"hello": "world"}`)
	post(t, app, `{"incident": {"id": "i1", "name": "X"}}`)

	unknown := logs.FilterMessage("Unknown webhook payload").All()
	require.Len(t, unknown, 1)
	assert.Equal(t, zapcore.WarnLevel, unknown[0].Level)
	assert.Contains(t, unknown[0].ContextMap()["reason"], statuspage.ErrPayloadShape)

	failed := logs.FilterMessage("Webhook dedup check failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, "i1", failed[0].ContextMap()["key"])
	assert.Equal(t, "down", failed[0].ContextMap()["error"])
}

func TestReceive_LogsDroppedDuplicate(t *testing.T) {
	logs := observeLogs(t)

	app, _ := newTestApp(statuspage.NewTracker(storage.NewMemoryStore(0), false))
	post(t, app, `{"incident": {"id": "i1", "name": "X"}}`)
	post(t, app, `{"incident": {"id": "i1", "name": "X"}}`)

	dropped := logs.FilterMessage("Dropping duplicate webhook delivery").All()
	require.Len(t, dropped, 1)
	assert.Equal(t, zapcore.DebugLevel, dropped[0].Level)
	assert.Equal(t, "i1", dropped[0].ContextMap()["key"])
}
