package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pevans/adwatch/apperr"
)

// Metrics holds the counters for a single run. adwatch is a one-shot
// process, so the values are exported by writing a textfile for the
// node_exporter textfile collector rather than by serving /metrics.
type Metrics struct {
	registry *prometheus.Registry

	LinksCollected   *prometheus.CounterVec
	PostingsSkipped  prometheus.Counter
	PostingsNew      prometheus.Counter
	Failures         *prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge
	RunDuration      prometheus.Gauge
}

// New creates a set of metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LinksCollected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adwatch_links_collected_total",
				Help: "Posting links collected from search and feed pages.",
			},
			[]string{"source"}, // source: search, feed
		),
		PostingsSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adwatch_postings_skipped_total",
				Help: "Collected postings skipped because they were already seen.",
			},
		),
		PostingsNew: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "adwatch_postings_new_total",
				Help: "Postings extracted and reported for the first time.",
			},
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adwatch_failures_total",
				Help: "Failed units of work by pipeline stage and failure kind.",
			},
			[]string{"stage", "kind"},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "adwatch_last_run_timestamp_seconds",
				Help: "Unix time the last run finished.",
			},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "adwatch_run_duration_seconds",
				Help: "Wall-clock duration of the last run.",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFailure counts a failed unit of work. Errors without a kind are
// counted as "UNKNOWN".
func (m *Metrics) RecordFailure(stage string, err error) {
	kind := string(apperr.KindOf(err))
	if kind == "" {
		kind = "UNKNOWN"
	}
	m.Failures.WithLabelValues(stage, kind).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return apperr.New(apperr.KindWrite, "write metrics", path, err)
	}
	return nil
}
