// Package metrics defines the Prometheus collectors the ingestion engine
// registers against the default registry, grounded on the teacher's use
// of github.com/prometheus/client_golang for its own healthserver metrics
// endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RecordsTotal counts every record an ingest run produces, by document
// kind and pipeline.Outcome kind.
var RecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lex_ingest_records_total",
		Help: "Number of records processed by the ingestion pipeline, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// FetchDuration observes how long each HTTP fetch takes, by host.
var FetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "lex_fetch_duration_seconds",
		Help:    "Duration of outbound HTTP fetches issued by internal/fetch.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"host"},
)

// RateLimiterDelay observes the delay the adaptive rate limiter imposes
// before each request, by host.
var RateLimiterDelay = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "lex_rate_limiter_delay_seconds",
		Help:    "Delay imposed by the adaptive rate limiter before a request is issued.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"host"},
)

// CircuitBreakerState reports each host's circuit breaker state as a
// gauge (0 = closed, 1 = open, 2 = half-open), matching breaker.State's
// iota ordering.
var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "lex_circuit_breaker_state",
		Help: "Current circuit breaker state per host (0=closed, 1=open, 2=half-open).",
	},
	[]string{"host"},
)

// ObserveOutcome increments RecordsTotal for one document kind/outcome
// pair. Called once per pipeline.Outcome produced by a Stage-1 or
// Stage-2 run.
func ObserveOutcome(kind, outcome string) {
	RecordsTotal.WithLabelValues(kind, outcome).Inc()
}
