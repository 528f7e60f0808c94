// Package metrics exports taskbrain counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskbrain"

// Recorder owns a private registry so tests can create as many as they like.
// A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	tasksCaptured   *prometheus.CounterVec
	trackerLatency  *prometheus.HistogramVec
	refits          *prometheus.CounterVec
	suggestions     *prometheus.CounterVec
	completions     prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	profilesTracked prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.tasksCaptured = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_captured_total",
		Help:      "Tasks captured, by predicted category and result.",
	}, []string{"category", "status"})

	r.trackerLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "request_duration_seconds",
		Help:      "Remote task creation latency.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"status"})

	r.refits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "learner",
		Name:      "refits_total",
		Help:      "Learner refits by outcome.",
	}, []string{"status", "degraded"})

	r.suggestions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suggestions_served_total",
		Help:      "Suggestions returned, by kind.",
	}, []string{"kind"})

	r.completions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completions_served_total",
		Help:      "Smart completions returned.",
	})

	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})

	r.httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	r.profilesTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "learner",
		Name:      "profiles",
		Help:      "User profiles held in memory.",
	})

	r.registry.MustRegister(
		r.tasksCaptured, r.trackerLatency, r.refits, r.suggestions, r.completions,
		r.httpRequests, r.httpLatency, r.profilesTracked,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) TaskCaptured(category, status string) {
	if r == nil {
		return
	}
	r.tasksCaptured.WithLabelValues(category, status).Inc()
}

func (r *Recorder) TrackerRequest(status string, d time.Duration) {
	if r == nil {
		return
	}
	r.trackerLatency.WithLabelValues(status).Observe(d.Seconds())
}

func (r *Recorder) Refit(status string, degraded bool) {
	if r == nil {
		return
	}
	label := "false"
	if degraded {
		label = "true"
	}
	r.refits.WithLabelValues(status, label).Inc()
}

func (r *Recorder) SuggestionServed(kind string) {
	if r == nil {
		return
	}
	r.suggestions.WithLabelValues(kind).Inc()
}

func (r *Recorder) CompletionsServed(n int) {
	if r == nil {
		return
	}
	r.completions.Add(float64(n))
}

func (r *Recorder) HTTPRequest(method, route, code string, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, code).Inc()
	r.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (r *Recorder) SetProfiles(n int) {
	if r == nil {
		return
	}
	r.profilesTracked.Set(float64(n))
}
