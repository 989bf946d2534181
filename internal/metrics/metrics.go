// Package metrics provides Prometheus instrumentation for shelfstock.
//
// HTTP traffic is recorded by [Middleware], labelled by chi route pattern so
// ids in paths do not explode cardinality. Stock movements and CSV imports
// are recorded by the core through the helpers at the bottom of this file.
// Everything is registered on [Registry] and exposed by [Handler].
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shelfstock"

var (
	// RequestDuration tracks HTTP latency by method, route and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// LedgerUnits counts units moved by successful ledger operations.
	LedgerUnits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "units_total",
			Help:      "Units moved by successful stock operations.",
		},
		[]string{"op"}, // "sell" | "restock"
	)

	// LedgerRejections counts stock operations refused by an invariant check.
	LedgerRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "rejections_total",
			Help:      "Stock operations rejected before mutation.",
		},
		[]string{"op", "reason"},
	)

	// ImportRows counts CSV data rows by outcome.
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "rows_total",
			Help:      "CSV import rows by outcome.",
		},
		[]string{"outcome"}, // "imported" | "skipped"
	)

	// ImportDuration tracks full-replace import latency.
	ImportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "import",
		Name:      "duration_seconds",
		Help:      "Duration of CSV imports in seconds.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})
)

// Registry holds every shelfstock collector plus Go runtime and process
// collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	Registry.MustRegister(
		RequestDuration,
		RequestInFlight,
		LedgerUnits,
		LedgerRejections,
		ImportRows,
		ImportDuration,
	)
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware records duration and in-flight gauges for every request.
// The route label is read after the handler ran, when chi has resolved it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the registry in Prometheus text and OpenMetrics formats.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// RecordMovement counts units moved by a successful ledger operation.
func RecordMovement(op string, units int) {
	LedgerUnits.WithLabelValues(op).Add(float64(units))
}

// RecordRejection counts a ledger operation refused before mutation.
func RecordRejection(op, reason string) {
	LedgerRejections.WithLabelValues(op, reason).Inc()
}

// RecordImport records the outcome of one CSV import.
func RecordImport(imported, skipped int, elapsed time.Duration) {
	ImportRows.WithLabelValues("imported").Add(float64(imported))
	ImportRows.WithLabelValues("skipped").Add(float64(skipped))
	ImportDuration.Observe(elapsed.Seconds())
}
