// Package metrics exposes Prometheus collectors for the recommendation pipeline.
//
// Usage:
//
//	metrics.RecordUpstream("aladin_search", err)
//	metrics.RecordISBNResolution(metrics.ISBNFromCatalog)
//	metrics.RecordCoverSource("kyobo")
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ISBN resolution outcomes
const (
	ISBNFromModel    = "model"
	ISBNFromCatalog  = "catalog"
	ISBNNotFound     = "not_found"
	ISBNLookupFailed = "lookup_failed"
)

var (
	// UpstreamRequestsTotal counts calls to external services by outcome.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperpharmacy_upstream_requests_total",
			Help: "Total number of requests made to upstream services",
		},
		[]string{"upstream", "outcome"},
	)

	// ISBNResolutionsTotal counts where each recommended book's ISBN came from.
	ISBNResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperpharmacy_isbn_resolutions_total",
			Help: "Total number of ISBN resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// CoverResolutionsTotal counts which cover source served each book.
	CoverResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperpharmacy_cover_resolutions_total",
			Help: "Total number of cover resolutions by source",
		},
		[]string{"source"},
	)

	// BatchesTotal counts recommendation batches by outcome.
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperpharmacy_recommendation_batches_total",
			Help: "Total number of recommendation batches",
		},
		[]string{"outcome"},
	)

	// BatchDuration tracks end-to-end assembly latency.
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paperpharmacy_recommendation_duration_seconds",
			Help:    "Duration of recommendation batch assembly in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	// BreakerState reports circuit breaker state (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "paperpharmacy_circuit_breaker_state",
			Help: "Circuit breaker state per upstream (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordUpstream records a single upstream request.
func RecordUpstream(upstream string, err error) {
	UpstreamRequestsTotal.WithLabelValues(upstream, outcome(err)).Inc()
}

// RecordISBNResolution records how a book's ISBN was obtained.
func RecordISBNResolution(result string) {
	ISBNResolutionsTotal.WithLabelValues(result).Inc()
}

// RecordCoverSource records the source that produced a cover.
func RecordCoverSource(source string) {
	CoverResolutionsTotal.WithLabelValues(source).Inc()
}

// RecordBatch records a finished batch and its duration.
func RecordBatch(err error, duration time.Duration) {
	BatchesTotal.WithLabelValues(outcome(err)).Inc()
	BatchDuration.Observe(duration.Seconds())
}

// SetBreakerState updates the breaker gauge.
func SetBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}
