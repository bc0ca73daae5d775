package httpx

import (
	"net/http"

	"log/slog"

	"github.com/manish-mehra/locshare/internal/app"
	"github.com/manish-mehra/locshare/internal/session"
	"github.com/manish-mehra/locshare/internal/ws"
	"github.com/manish-mehra/locshare/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, store *session.Store) http.Handler {
	mw := NewMiddleware(cfg)
	api := &RoomsAPI{Store: store}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Room probe (rate limited)
	mux.Handle("/api/rooms/{id}", mw.Limit(http.HandlerFunc(api.Get)))

	// CORS applied globally
	return mw.Wrap(mux)
}
