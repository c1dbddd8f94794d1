package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_connect",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creator_connect",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	tipsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_connect",
			Subsystem: "tips",
			Name:      "submitted_total",
			Help:      "Tip submissions by source and outcome.",
		},
		[]string{"source", "status", "partial"},
	)

	tipSubmitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "creator_connect",
			Subsystem: "tips",
			Name:      "submit_duration_seconds",
			Help:      "Duration of the tip submission pipeline, including confirmation wait.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
		[]string{"source"},
	)

	flowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_connect",
			Subsystem: "flow",
			Name:      "transitions_total",
			Help:      "Tip-flow state transitions.",
		},
		[]string{"variant", "from", "to"},
	)

	thankYouLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "creator_connect",
			Subsystem: "thankyou",
			Name:      "lookups_total",
			Help:      "Thank-you note lookups by result (hit, generated, fallback).",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		tipsSubmitted,
		tipSubmitDuration,
		flowTransitions,
		thankYouLookups,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordTipSubmission(source, status string, partial bool, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	tipsSubmitted.WithLabelValues(source, status, strconv.FormatBool(partial)).Inc()
	tipSubmitDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func RecordTransition(variant, from, to string) {
	flowTransitions.WithLabelValues(variant, from, to).Inc()
}

func RecordThankYouLookup(result string) {
	thankYouLookups.WithLabelValues(result).Inc()
}
