package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeAccepted = "accepted"
	OutcomeLocked   = "locked"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"

	OutcomeInserted  = "inserted"
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeMalformed = "malformed"
)

// Recorder exposes pick'em counters on a private Prometheus registry.
// A nil Recorder drops every observation.
type Recorder struct {
	registry         *prometheus.Registry
	predictions      *prometheus.CounterVec
	ingestRecords    *prometheus.CounterVec
	resultsApplied   *prometheus.CounterVec
	badgesAwarded    *prometheus.CounterVec
	feedFetches      *prometheus.CounterVec
	feedFetchLatency prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// NewRecorder registers all collectors on a fresh registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_predictions_total",
			Help: "Prediction submissions by outcome.",
		}, []string{"outcome"}),
		ingestRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_ingest_records_total",
			Help: "Feed records merged into the game catalog by outcome.",
		}, []string{"outcome"}),
		resultsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_results_applied_total",
			Help: "Final result applications by outcome.",
		}, []string{"outcome"}),
		badgesAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_badges_awarded_total",
			Help: "Newly awarded badges.",
		}, []string{"badge"}),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_feed_fetches_total",
			Help: "Upstream feed fetch attempts by source and result.",
		}, []string{"source", "result"}),
		feedFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pickem_feed_fetch_seconds",
			Help:    "Upstream feed fetch latency.",
			Buckets: prometheus.DefBuckets,
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pickem_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}

	r.registry.MustRegister(
		r.predictions,
		r.ingestRecords,
		r.resultsApplied,
		r.badgesAwarded,
		r.feedFetches,
		r.feedFetchLatency,
		r.httpRequests,
		prometheus.NewGoCollector(),
	)
	return r
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) RecordPrediction(outcome string) {
	if r == nil {
		return
	}
	r.predictions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordIngest(outcome string) {
	if r == nil {
		return
	}
	r.ingestRecords.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordResult(outcome string) {
	if r == nil {
		return
	}
	r.resultsApplied.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordBadge(badge string) {
	if r == nil {
		return
	}
	r.badgesAwarded.WithLabelValues(badge).Inc()
}

// RecordFeedFetch tracks one upstream call and its latency
func (r *Recorder) RecordFeedFetch(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.feedFetches.WithLabelValues(source, result).Inc()
	r.feedFetchLatency.Observe(duration.Seconds())
}

func (r *Recorder) RecordHTTP(route string, code int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Registry returns the underlying registry for tests and extra collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
