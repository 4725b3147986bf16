package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayRequests counts pass-through calls to upstream services by route and outcome.
var GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "classgate_gateway_requests_total",
	Help: "Upstream pass-through requests by route and status code.",
}, []string{"route", "status"})

// BackendLatency observes REST client round-trip time per resource.
var BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "classgate_backend_request_seconds",
	Help:    "Backend REST client request duration.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "resource"})

// PollerTicks counts completed unread-count refresh ticks.
var PollerTicks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "classgate_poller_ticks_total",
	Help: "Completed notification poller ticks.",
})

// PollerSkips counts ticks skipped because the previous one was still running.
var PollerSkips = promauto.NewCounter(prometheus.CounterOpts{
	Name: "classgate_poller_skips_total",
	Help: "Poller ticks skipped due to an outstanding run.",
})
