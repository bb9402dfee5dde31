package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "headline_comb"

// Ingest article outcomes.
const (
	OutcomeStored    = "stored"
	OutcomeDuplicate = "duplicate"
	OutcomeDiscarded = "discarded"
	OutcomeFailed    = "failed"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ingestArticles *prometheus.CounterVec
	ingestRuns     *prometheus.CounterVec
	queryRequests  *prometheus.CounterVec
	queryDuration  prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ingestArticles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_articles_total",
		Help:      "Articles seen by ingest runs, by outcome",
	}, []string{"source", "outcome"})
	m.ingestRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_runs_total",
		Help:      "Completed ingest runs, by status",
	}, []string{"source", "status"})
	m.queryRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_requests_total",
		Help:      "Query requests, by status",
	}, []string{"status"})
	m.queryDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Time spent answering query requests",
		Buckets:   prometheus.DefBuckets,
	})

	m.registry.MustRegister(
		m.ingestArticles,
		m.ingestRuns,
		m.queryRequests,
		m.queryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) AddIngestArticles(source, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ingestArticles.WithLabelValues(source, outcome).Add(float64(n))
}

func (m *Metrics) IncIngestRun(source, status string) {
	if m == nil {
		return
	}
	m.ingestRuns.WithLabelValues(source, status).Inc()
}

func (m *Metrics) ObserveQuery(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryRequests.WithLabelValues(status).Inc()
	m.queryDuration.Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
