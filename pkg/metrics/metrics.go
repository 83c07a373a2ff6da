package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "statuswatch"

// Poll cycle results
const (
	ResultOK          = "ok"
	ResultNotModified = "not_modified"
	ResultError       = "error"
)

// Recorder owns a private Prometheus registry and the watcher's collectors.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	pollCycles       *prometheus.CounterVec
	pollDuration     prometheus.Histogram
	eventsEmitted    *prometheus.CounterVec
	eventsSuppressed *prometheus.CounterVec
	webhookDelivered *prometheus.CounterVec
	seenIncidents    *prometheus.GaugeVec
}

// NewRecorder registers all collectors, plus the Go and process collectors,
// on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pollCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Poll cycles by result (ok, not_modified, error).",
		}, []string{"result"}),
		pollDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Duration of a poll cycle, including processing.",
			Buckets:   prometheus.DefBuckets,
		}),
		eventsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_emitted_total",
			Help:      "Events handed to sinks by source and kind.",
		}, []string{"source", "kind"}),
		eventsSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_suppressed_total",
			Help:      "Incidents dropped as already seen or seeded.",
		}, []string{"source"}),
		webhookDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_deliveries_total",
			Help:      "Webhook deliveries by classified kind.",
		}, []string{"kind"}),
		seenIncidents: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seen_incidents",
			Help:      "Number of IDs held in each seen store.",
		}, []string{"stream"}),
	}
}

// RecordPollCycle counts one poll cycle and observes its duration.
func (r *Recorder) RecordPollCycle(result string, duration time.Duration) {
	if r == nil {
		return
	}
	r.pollCycles.WithLabelValues(result).Inc()
	r.pollDuration.Observe(duration.Seconds())
}

func (r *Recorder) RecordEmitted(source, kind string) {
	if r == nil {
		return
	}
	r.eventsEmitted.WithLabelValues(source, kind).Inc()
}

func (r *Recorder) RecordSuppressed(source string) {
	if r == nil {
		return
	}
	r.eventsSuppressed.WithLabelValues(source).Inc()
}

func (r *Recorder) RecordWebhookDelivery(kind string) {
	if r == nil {
		return
	}
	r.webhookDelivered.WithLabelValues(kind).Inc()
}

// SetSeen publishes the current size of a stream's seen store.
func (r *Recorder) SetSeen(stream string, n int) {
	if r == nil {
		return
	}
	r.seenIncidents.WithLabelValues(stream).Set(float64(n))
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
