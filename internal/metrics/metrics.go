package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the dispatch service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	MissionsCreatedTotal     *prometheus.CounterVec
	MissionTransitionsTotal  *prometheus.CounterVec
	MissionDistanceKm        prometheus.Histogram
	HistoryRecordsAutoLogged prometheus.Counter
	MissionEventsDropped     prometheus.Counter
	MissionEventBacklog      prometheus.Gauge
}

// NewMetricsRegistry registers every metric with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dispatch_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method"},
		),

		// Database Metrics
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_db_queries_total",
				Help: "Total database queries by operation type and outcome",
			},
			[]string{"query_type", "outcome"},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dispatch_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"query_type"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		MissionsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_missions_created_total",
				Help: "Total missions created by cargo category",
			},
			[]string{"cargo_category"},
		),
		MissionTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dispatch_mission_transitions_total",
				Help: "Mission status transitions by source and target status",
			},
			[]string{"from", "to"},
		),
		MissionDistanceKm: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dispatch_mission_distance_km",
				Help:    "Great-circle distance of created missions in kilometers",
				Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250, 500, 1000},
			},
		),
		HistoryRecordsAutoLogged: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_history_records_auto_logged_total",
				Help: "History records appended by the history worker",
			},
		),
		MissionEventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dispatch_mission_events_dropped_total",
				Help: "Mission events that could not be published",
			},
		),
		MissionEventBacklog: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "dispatch_mission_event_backlog",
				Help: "Mission events waiting for the history workers",
			},
		),
	}
}

// ObserveQuery records one database operation.
func (m *MetricsRegistry) ObserveQuery(queryType string, seconds float64, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.DBQueriesTotal.WithLabelValues(queryType, outcome).Inc()
	m.DBQueryDuration.WithLabelValues(queryType).Observe(seconds)
}
