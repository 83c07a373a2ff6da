package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/metrics"
)

func TestMetricsEndpoint(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.RecordWebhookDelivery("incident")

	app := fiber.New()
	RegisterRoutes(app, NewHandler(recorder))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `statuswatch_webhook_deliveries_total{kind="incident"} 1`)
}

func TestGetMetricNames(t *testing.T) {
	recorder := metrics.NewRecorder()
	recorder.SetSeen("poller", 2)

	app := fiber.New()
	RegisterRoutes(app, NewHandler(recorder))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/label/__name__/values", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status string   `json:"status"`
		Data   []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Contains(t, body.Data, "statuswatch_seen_incidents")
	assert.IsIncreasing(t, body.Data)
}

func TestRegisterRoutes_NilHandler(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, nil)

	for _, path := range []string{"/metrics", "/api/v1/label/__name__/values"} {
		t.Run(path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		})
	}
}
