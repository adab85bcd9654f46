// internal/common/metrics/metrics.go
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OutcomeSuccess is the outcome label for a remote call that produced a usable result.
const OutcomeSuccess = "success"

var (
	RemoteAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_remote_attempts_total",
			Help: "Total number of remote AI attempts by capability and outcome",
		},
		[]string{"capability", "outcome"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fallbacks_total",
			Help: "Total number of heuristic fallbacks by capability and failure reason",
		},
		[]string{"capability", "reason"},
	)

	RemoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_remote_duration_seconds",
			Help:    "Duration of remote AI attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"capability"},
	)

	AIActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_ai_active",
			Help: "1 when the most recent remote attempt succeeded, 0 otherwise",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"service", "route", "status"},
	)
)

// RemoteObserver records dispatcher attempts into the prometheus collectors above.
type RemoteObserver struct{}

func NewRemoteObserver() *RemoteObserver {
	return &RemoteObserver{}
}

func (RemoteObserver) RecordAttempt(_ context.Context, capability, outcome string, duration time.Duration) {
	RemoteAttempts.WithLabelValues(capability, outcome).Inc()
	RemoteDuration.WithLabelValues(capability).Observe(duration.Seconds())

	if outcome == OutcomeSuccess {
		AIActive.Set(1)
		return
	}
	AIActive.Set(0)
	Fallbacks.WithLabelValues(capability, outcome).Inc()
}

// GinMiddleware counts served requests per route template.
func GinMiddleware(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(service, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
