package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/metrics"
	"github.com/redhat-appstudio/statuspage-watcher/pkg/statuspage"
)

// Emitter receives new incidents. *sinks.Manager satisfies it.
type Emitter interface {
	Emit(ctx context.Context, event statuspage.Event) error
}

// Counter reports the size of a seen store for the gauge.
type Counter interface {
	Len(ctx context.Context) (int, error)
}

// CycleResult summarises one Check.
type CycleResult struct {
	// Result is one of metrics.ResultOK, ResultNotModified, ResultError
	Result     string
	Fetched    int
	Emitted    int
	Suppressed int
	Seeded     bool
}

// Incidents runs one poll cycle: fetch, dedup, emit.
type Incidents struct {
	client   *Client
	tracker  *statuspage.Tracker
	emitter  Emitter
	seen     Counter
	recorder *metrics.Recorder
	now      func() time.Time
}

// NewIncidents wires a cycle runner. seen and recorder may be nil.
func NewIncidents(client *Client, tracker *statuspage.Tracker, emitter Emitter, seen Counter, recorder *metrics.Recorder) *Incidents {
	return &Incidents{
		client:   client,
		tracker:  tracker,
		emitter:  emitter,
		seen:     seen,
		recorder: recorder,
		now:      time.Now,
	}
}

// Check fetches the feed and hands every unseen incident to the emitter.
// Store failures skip the incident and the cycle carries on. Seeding ends
// after the first cycle that got a 200.
func (i *Incidents) Check(ctx context.Context) (CycleResult, error) {
	start := time.Now()

	fetched, err := i.client.FetchIncidents(ctx)
	if err != nil {
		i.recorder.RecordPollCycle(metrics.ResultError, time.Since(start))
		return CycleResult{Result: metrics.ResultError}, fmt.Errorf("%s: %w", ErrIncidentFetch, err)
	}
	if fetched.NotModified {
		i.recorder.RecordPollCycle(metrics.ResultNotModified, time.Since(start))
		return CycleResult{Result: metrics.ResultNotModified}, nil
	}

	result := CycleResult{Result: metrics.ResultOK, Fetched: len(fetched.Incidents)}
	for _, incident := range fetched.Incidents {
		event, ok, err := i.tracker.ObserveIncident(ctx, incident)
		if err != nil {
			logger.Errorf("Failed to track incident %s: %v", incident.ID, err)
			continue
		}
		if !ok {
			result.Suppressed++
			i.recorder.RecordSuppressed(string(statuspage.SourcePoller))
			continue
		}

		result.Emitted++
		i.recorder.RecordEmitted(string(statuspage.SourcePoller), string(statuspage.KindIncident))
		if i.emitter == nil {
			continue
		}
		// sink failures are logged by the emitter and never undo the insert
		_ = i.emitter.Emit(ctx, statuspage.Event{
			Kind:   statuspage.KindIncident,
			Source: statuspage.SourcePoller,
			Event:  event,
			At:     i.now(),
		})
	}

	if i.tracker.EndSeeding() {
		result.Seeded = true
		logger.Infof("Seeded seen store with %d existing incident(s)", result.Fetched)
	}
	i.updateSeenGauge(ctx)

	duration := time.Since(start)
	i.recorder.RecordPollCycle(metrics.ResultOK, duration)

	if result.Emitted > 0 {
		logger.Infof("Incident check: %d fetched, %d new, %d already seen (%v)",
			result.Fetched, result.Emitted, result.Suppressed, duration)
	} else {
		logger.Debugf("Incident check: %d fetched, no new incidents (%v)", result.Fetched, duration)
	}
	return result, nil
}

func (i *Incidents) updateSeenGauge(ctx context.Context) {
	if i.seen == nil || i.recorder == nil {
		return
	}
	n, err := i.seen.Len(ctx)
	if err != nil {
		logger.Warnf("Failed to count seen incidents: %v", err)
		return
	}
	i.recorder.SetSeen(string(statuspage.SourcePoller), n)
}
