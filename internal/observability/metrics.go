package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "waypoint_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebSocketGroupConnections is the gauge of chat connections per group.
	WebSocketGroupConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "waypoint_websocket_group_connections",
		Help: "Number of WebSocket connections per group",
	}, []string{"group_id"})

	// MessageThroughput counts chat messages processed per group and type.
	MessageThroughput = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_message_throughput_total",
		Help: "Total number of chat messages processed",
	}, []string{"group_id", "message_type"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "waypoint_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketEventsTotal counts WebSocket events by type.
	WebSocketEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_websocket_events_total",
		Help: "Total WebSocket events by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}

// WebSocketGroupMetrics tracks WebSocket connection counts per group.
type WebSocketGroupMetrics struct {
	mu          sync.Mutex
	groupCounts map[string]int
}

// NewWebSocketGroupMetrics returns a new WebSocketGroupMetrics instance.
func NewWebSocketGroupMetrics() *WebSocketGroupMetrics {
	return &WebSocketGroupMetrics{
		groupCounts: make(map[string]int),
	}
}

// IncrementGroup increments the connection count for the group.
func (m *WebSocketGroupMetrics) IncrementGroup(groupID string) {
	m.mu.Lock()
	m.groupCounts[groupID]++
	m.mu.Unlock()
	WebSocketGroupConnections.WithLabelValues(groupID).Inc()
	WebSocketConnectionsTotal.Inc()
}

// DecrementGroup decrements the connection count for the group.
func (m *WebSocketGroupMetrics) DecrementGroup(groupID string) {
	m.mu.Lock()
	if m.groupCounts[groupID] > 0 {
		m.groupCounts[groupID]--
	}
	m.mu.Unlock()
	WebSocketGroupConnections.WithLabelValues(groupID).Dec()
	WebSocketConnectionsTotal.Dec()
}

// GetGroupCount returns the current connection count for the group.
func (m *WebSocketGroupMetrics) GetGroupCount(groupID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.groupCounts[groupID]
}

// RecordMessage increments message throughput counters for the group and type.
func (*WebSocketGroupMetrics) RecordMessage(groupID, messageType string) {
	MessageThroughput.WithLabelValues(groupID, messageType).Inc()
}

// RecordWebSocketEvent increments the WebSocket events counter for the event type.
func (*WebSocketGroupMetrics) RecordWebSocketEvent(eventType string) {
	WebSocketEventsTotal.WithLabelValues(eventType).Inc()
}
