// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records store query latency by operation and collection.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epicfails_database_query_latency_seconds",
		Help:    "Store query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RelationToggles counts toggles by relation kind and resulting state.
	RelationToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_relation_toggles_total",
		Help: "Total number of like/bookmark toggles by resulting state",
	}, []string{"kind", "state"})

	// RelationConflicts counts duplicate-insert races recovered by the toggle engine.
	RelationConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_relation_conflicts_total",
		Help: "Total number of recovered duplicate relation inserts",
	}, []string{"kind"})

	// CascadeDeletedRecords counts records removed by post cascades per collection.
	CascadeDeletedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_cascade_deleted_records_total",
		Help: "Total number of records deleted by post cascades",
	}, []string{"collection"})

	// CascadeFailures counts aborted cascades by failing step.
	CascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_cascade_failures_total",
		Help: "Total number of post cascades aborted by step",
	}, []string{"step"})

	// PodiumCacheLookups counts podium cache hits and misses.
	PodiumCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_podium_cache_lookups_total",
		Help: "Podium cache lookups by result",
	}, []string{"result"})

	// ReportsFiled counts accepted moderation reports.
	ReportsFiled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epicfails_reports_filed_total",
		Help: "Total number of moderation reports filed",
	})

	// MailFailures counts outbound mails that could not be delivered.
	MailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_mail_failures_total",
		Help: "Total number of failed outbound mails by purpose",
	}, []string{"purpose"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epicfails_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epicfails_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
