package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/monitors/openai"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/storage"
)

type staticPoller openai.Status

func (s staticPoller) Status() openai.Status { return openai.Status(s) }

func getHealth(t *testing.T, handler *Handler) HealthResponse {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app, handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	store := storage.NewMemoryStore(0)
	require.NoError(t, store.Insert(context.Background(), "inc-1"))

	tests := []struct {
		name        string
		poller      PollerStatus
		status      string
		expectReady bool
	}{
		{name: "poller disabled", poller: nil, status: StatusHealthy},
		{name: "poller ready", poller: staticPoller{LastSuccess: time.Now(), Cycles: 4}, status: StatusHealthy, expectReady: true},
		{name: "poller failing", poller: staticPoller{LastSuccess: time.Now(), ConsecutiveFailures: 3, LastError: "boom"}, status: StatusDegraded},
		{name: "poller never succeeded", poller: staticPoller{}, status: StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := getHealth(t, NewHandler(tt.poller, map[string]Counter{"poller": store}))

			assert.Equal(t, tt.status, body.Status)
			assert.NotEmpty(t, body.Version)
			assert.Equal(t, map[string]int{"poller": 1}, body.Seen)
			if tt.poller == nil {
				assert.Nil(t, body.Poller)
				return
			}
			require.NotNil(t, body.Poller)
			assert.Equal(t, tt.expectReady, body.Poller.Ready)
			assert.Equal(t, tt.poller.Status().ConsecutiveFailures, body.Poller.ConsecutiveFailures)
		})
	}
}
