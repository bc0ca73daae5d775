package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RoomsActive tracks live rooms: +1 on create, -1 on destroy.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "locshare_rooms_active",
		Help: "Number of live rooms.",
	})

	// ConnectionsActive tracks open websocket connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "locshare_connections_active",
		Help: "Number of open websocket connections.",
	})

	// EventsTotal counts inbound session events. Labels are restricted to
	// known event names plus "unknown" and "malformed" to keep cardinality
	// fixed.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "locshare_events_total",
		Help: "Inbound session events handled, by event name.",
	}, []string{"event"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
