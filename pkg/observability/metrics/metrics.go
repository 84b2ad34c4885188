package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DatasetsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trialops_datasets_loaded_total",
			Help: "Number of milestone datasets accepted",
		},
	)

	DatasetsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trialops_datasets_rejected_total",
			Help: "Number of uploads rejected, by reason",
		},
		[]string{"reason"}, // schema, read
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trialops_evaluation_duration_seconds",
			Help:    "Time taken to evaluate one dashboard report",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	RiskFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trialops_risk_flags_total",
			Help: "Studies flagged by the risk scans",
		},
		[]string{"scan"}, // past_due, next_5w, beyond_5w
	)

	HGRACLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trialops_hgrac_lookups_total",
			Help: "HGRAC lookups by outcome",
		},
		[]string{"outcome"}, // hit, miss, error
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trialops_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)
)

func ObserveEvaluation(d time.Duration) {
	EvaluationDuration.Observe(d.Seconds())
}

func ObserveRiskFlags(scan string, n int) {
	RiskFlags.WithLabelValues(scan).Add(float64(n))
}

func ObserveHGRACLookup(outcome string) {
	HGRACLookups.WithLabelValues(outcome).Inc()
}

func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
