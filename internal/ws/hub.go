package ws

import (
	"net/http"
	"sync"

	"log/slog"

	"github.com/google/uuid"

	"github.com/manish-mehra/locshare/internal/session"
	"github.com/manish-mehra/locshare/pkg/metrics"
)

// Hub is the connection registry: it maps connection ids to live channels
// and feeds decoded frames to the session coordinator. The hub owns
// connection lifecycles; the coordinator only ever sees ids.
type Hub struct {
	log   *slog.Logger
	coord *session.Coordinator

	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewHub wires the registry and the coordinator together; the hub itself
// is the coordinator's Sender.
func NewHub(logger *slog.Logger, store *session.Store) *Hub {
	h := &Hub{log: logger, conns: map[string]*Conn{}}
	h.coord = session.NewCoordinator(logger, store, h)
	return h
}

// Coordinator exposes the session coordinator driving this hub.
func (h *Hub) Coordinator() *session.Coordinator { return h.coord }

// ServeWS handles a new /ws connection for its whole lifetime: register,
// read loop, then disconnect teardown.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(conn, uuid.NewString())
	h.register(c)
	metrics.ConnectionsActive.Inc()
	h.log.Info("ws.connected", "conn", c.ID())

	// Outbound writer
	go c.WriteLoop(ctx)

	// Inbound reader: one frame at a time, in connection order
	for {
		frame, ok := c.Read(ctx)
		if !ok {
			break
		}
		h.coord.HandleFrame(c.ID(), frame)
	}

	// Teardown order matters: the coordinator must see the disconnect
	// before the channel disappears so departure events still route.
	h.coord.Disconnect(c.ID())
	h.unregister(c)
	metrics.ConnectionsActive.Dec()
	_ = c.Close()
	h.log.Info("ws.disconnected", "conn", c.ID())
}

// Send implements session.Sender. Frames to unknown ids are dropped:
// disconnect races are expected and benign.
func (h *Hub) Send(connID string, frame []byte) bool {
	h.mu.RLock()
	c := h.conns[connID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}
	return c.TrySend(frame)
}

func (h *Hub) register(c *Conn) {
	h.mu.Lock()
	h.conns[c.ID()] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c.ID())
	h.mu.Unlock()
}
