// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation metrics
	SimulationsTotal   *prometheus.CounterVec
	SimulationDuration prometheus.Histogram
	MonthsSimulated    prometheus.Counter

	// Config metrics
	ConfigsSaved  prometheus.Counter
	ConfigsLoaded prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	WSSessionsActive    prometheus.Gauge
	WSRecomputesTotal   prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "payoff_calculator"
	}

	return &Metrics{
		// Simulation metrics
		SimulationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_total",
			Help:      "Total number of simulations by status",
		}, []string{"status"}),
		SimulationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "duration_seconds",
			Help:      "Simulation execution duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		MonthsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "months_simulated_total",
			Help:      "Total number of months processed across all simulations",
		}),

		// Config metrics
		ConfigsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "saved_total",
			Help:      "Total number of configuration revisions saved",
		}),
		ConfigsLoaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "loaded_total",
			Help:      "Total number of configurations loaded by name",
		}),

		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		WSSessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "sessions_active",
			Help:      "Current number of open websocket recompute sessions",
		}),
		WSRecomputesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ws",
			Name:      "recomputes_total",
			Help:      "Total number of websocket recompute messages served",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful simulation run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSimulation records a completed simulation.
func RecordSimulation(status string, months int, durationSeconds float64) {
	DefaultMetrics.SimulationsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.SimulationDuration.Observe(durationSeconds)
	if months > 0 {
		DefaultMetrics.MonthsSimulated.Add(float64(months))
	}
}

// RecordConfigSaved increments the configs saved counter.
func RecordConfigSaved() {
	DefaultMetrics.ConfigsSaved.Inc()
}

// RecordConfigLoaded increments the configs loaded counter.
func RecordConfigLoaded() {
	DefaultMetrics.ConfigsLoaded.Inc()
}

// RecordHTTPRequest records an HTTP request outcome.
func RecordHTTPRequest(route, code string, durationSeconds float64) {
	DefaultMetrics.HTTPRequestsTotal.WithLabelValues(route, code).Inc()
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// WSSessionOpened marks a websocket session as active.
func WSSessionOpened() {
	DefaultMetrics.WSSessionsActive.Inc()
}

// WSSessionClosed marks a websocket session as finished.
func WSSessionClosed() {
	DefaultMetrics.WSSessionsActive.Dec()
}

// RecordWSRecompute increments the websocket recompute counter.
func RecordWSRecompute() {
	DefaultMetrics.WSRecomputesTotal.Inc()
}

// RecordSuccessfulRun updates the last successful run timestamp.
func RecordSuccessfulRun(unixSeconds int64) {
	DefaultMetrics.LastSuccessfulRun.Set(float64(unixSeconds))
}
