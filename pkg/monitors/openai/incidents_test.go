package openai

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/metrics"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

func TestIncidents_Check_EmitsEachIncidentOnce(t *testing.T) {
	incidents := []statuspage.Incident{testIncident("a", "First"), testIncident("b", "Second"), {Name: "No id"}}
	_, srv := newFakeFeed(t, feedResponse{incidents: incidents})
	check, emitter, store := newTestIncidents(srv.URL, false)
	ctx := context.Background()

	result, err := check.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, CycleResult{Result: metrics.ResultOK, Fetched: 3, Emitted: 2, Suppressed: 1}, result)

	require.Equal(t, 2, emitter.count())
	first := emitter.events[0]
	assert.Equal(t, statuspage.KindIncident, first.Kind)
	assert.Equal(t, statuspage.SourcePoller, first.Source)
	assert.Equal(t, "OpenAI API - Chat", first.Event.Product)
	assert.Equal(t, "First — Investigating (Minor impact)", first.Event.Status)
	assert.False(t, first.At.IsZero())

	result, err = check.Check(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Emitted, "ids from the previous cycle are suppressed")
	assert.Equal(t, 2, emitter.count())

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIncidents_Check_Seeding(t *testing.T) {
	_, srv := newFakeFeed(t,
		feedResponse{status: http.StatusNotModified},
		feedResponse{incidents: []statuspage.Incident{testIncident("a", "Old"), testIncident("b", "Old")}},
		feedResponse{incidents: []statuspage.Incident{testIncident("a", "Old"), testIncident("c", "New")}},
	)
	check, emitter, _ := newTestIncidents(srv.URL, true)
	ctx := context.Background()

	result, err := check.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, metrics.ResultNotModified, result.Result)
	assert.True(t, check.tracker.Seeding(), "only a 200 ends seeding")

	result, err = check.Check(ctx)
	require.NoError(t, err)
	assert.True(t, result.Seeded)
	assert.Zero(t, emitter.count())

	result, err = check.Check(ctx)
	require.NoError(t, err)
	assert.False(t, result.Seeded)
	require.Equal(t, 1, emitter.count())
	assert.Equal(t, "New — Investigating (Minor impact)", emitter.events[0].Event.Status)
}

func TestIncidents_Check_FetchError(t *testing.T) {
	_, srv := newFakeFeed(t, feedResponse{status: http.StatusServiceUnavailable})
	check, emitter, _ := newTestIncidents(srv.URL, true)

	result, err := check.Check(context.Background())
	assert.ErrorContains(t, err, ErrIncidentFetch)
	assert.Equal(t, metrics.ResultError, result.Result)
	assert.Zero(t, emitter.count())
	assert.True(t, check.tracker.Seeding())
}

func TestIncidents_Check_RecordsMetrics(t *testing.T) {
	_, srv := newFakeFeed(t, feedResponse{incidents: []statuspage.Incident{testIncident("a", "A")}})
	check, _, _ := newTestIncidents(srv.URL, false)
	check.recorder = metrics.NewRecorder()

	_, err := check.Check(context.Background())
	require.NoError(t, err)

	families, err := check.recorder.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["statuswatch_poll_cycles_total"])
	assert.True(t, names["statuswatch_events_emitted_total"])
	assert.True(t, names["statuswatch_seen_incidents"])
}
