package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveWebSockets is the gauge of currently open WebSocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "waypoint_active_websockets",
		Help: "Number of currently open WebSocket connections",
	})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"operation"})

	// InvitesIssued counts group invites created, by invited role.
	InvitesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_invites_issued_total",
		Help: "Total number of group invites issued",
	}, []string{"role"})

	// PollVotesCast counts poll votes accepted, by poll mode.
	PollVotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waypoint_poll_votes_cast_total",
		Help: "Total number of poll votes accepted",
	}, []string{"mode"})
)

// InitMetrics sets up the fiberprometheus middleware for HTTP request metrics.
// The returned middleware still needs to be registered on the app.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
