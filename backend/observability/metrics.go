package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigworks",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gigworks",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	llmRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigworks",
		Subsystem: "advisor",
		Name:      "llm_requests_total",
		Help:      "Total LLM calls by kind (report, question) and outcome.",
	}, []string{"kind", "outcome"})

	llmRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gigworks",
		Subsystem: "advisor",
		Name:      "llm_request_duration_seconds",
		Help:      "LLM call latency by kind.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"kind"})

	datasetsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gigworks",
		Subsystem: "ingest",
		Name:      "datasets_total",
		Help:      "Total datasets ingested by source (upload, sample).",
	}, []string{"source"})

	gigRecordsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gigworks",
		Subsystem: "ingest",
		Name:      "gig_records_total",
		Help:      "Total gig records ingested.",
	})
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		llmRequestsTotal,
		llmRequestDuration,
		datasetsIngestedTotal,
		gigRecordsIngestedTotal,
	)
}

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path, status string, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordLLMRequest records one LLM call. Outcome is "ok" or "error".
func RecordLLMRequest(kind, outcome string, elapsed time.Duration) {
	llmRequestsTotal.WithLabelValues(kind, outcome).Inc()
	llmRequestDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordIngest records one ingested dataset and its row count.
func RecordIngest(source string, rows int) {
	datasetsIngestedTotal.WithLabelValues(source).Inc()
	gigRecordsIngestedTotal.Add(float64(rows))
}
