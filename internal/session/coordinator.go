package session

import (
	"encoding/json"
	"log/slog"

	"github.com/manish-mehra/locshare/pkg/metrics"
)

// Coordinator is the stateful core of the server: it owns the lifecycle of
// every room and turns inbound connection events into outbound deliveries.
// It never owns a connection; it only references connection ids and
// tolerates any id going stale mid-operation.
type Coordinator struct {
	log    *slog.Logger
	store  *Store
	router *Router
}

func NewCoordinator(logger *slog.Logger, store *Store, sender Sender) *Coordinator {
	return &Coordinator{log: logger, store: store, router: NewRouter(sender)}
}

// HandleFrame decodes one inbound frame from connID and dispatches it.
// Malformed frames and unknown event names are logged and dropped; a
// misbehaving connection must never corrupt room state.
func (c *Coordinator) HandleFrame(connID string, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil || env.Event == "" {
		metrics.EventsTotal.WithLabelValues("malformed").Inc()
		c.log.Debug("session.frame.malformed", "conn", connID, "err", err)
		return
	}

	switch env.Event {
	case EventCreateRoom:
		var d createRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			metrics.EventsTotal.WithLabelValues("malformed").Inc()
			c.log.Debug("session.payload.malformed", "conn", connID, "event", env.Event, "err", err)
			return
		}
		metrics.EventsTotal.WithLabelValues(env.Event).Inc()
		c.CreateRoom(connID, d.Position)

	case EventJoinRoom:
		var d joinRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil || d.RoomID == "" {
			metrics.EventsTotal.WithLabelValues("malformed").Inc()
			c.log.Debug("session.payload.malformed", "conn", connID, "event", env.Event, "err", err)
			return
		}
		metrics.EventsTotal.WithLabelValues(env.Event).Inc()
		c.JoinRoom(connID, d.RoomID)

	case EventUpdateLocation:
		var d updateLocationData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			metrics.EventsTotal.WithLabelValues("malformed").Inc()
			c.log.Debug("session.payload.malformed", "conn", connID, "event", env.Event, "err", err)
			return
		}
		metrics.EventsTotal.WithLabelValues(env.Event).Inc()
		c.UpdateLocation(connID, d.Position)

	default:
		metrics.EventsTotal.WithLabelValues("unknown").Inc()
		c.log.Debug("session.event.unknown", "conn", connID, "event", env.Event)
	}
}

// CreateRoom starts a new room hosted by connID. A connection may host at
// most one room; a duplicate create is rejected with an error response and
// leaves the existing room untouched.
func (c *Coordinator) CreateRoom(connID string, pos Position) {
	snap, err := c.store.Create(connID, pos)
	if err != nil {
		c.log.Debug("room.create.rejected", "conn", connID, "err", err)
		c.router.Unicast(connID, EventCreateRoomResponse, statusData{Status: StatusError})
		return
	}

	metrics.RoomsActive.Inc()
	c.log.Info("room.created", "room", snap.RoomID, "host", connID)
	c.router.Unicast(connID, EventRoomCreated, roomCreatedData{
		RoomID:              snap.RoomID,
		Position:            pos,
		TotalConnectedUsers: snap.Members,
	})
}

// JoinRoom adds connID to an existing room. A join against a room whose
// host already disconnected resolves to ERROR, never to a half-torn-down
// room. New members immediately receive the host's last known position so
// they need not wait for the next update.
func (c *Coordinator) JoinRoom(connID, roomID string) {
	snap, left, err := c.store.AddMember(roomID, connID)
	if err != nil {
		c.log.Debug("room.join.rejected", "conn", connID, "room", roomID, "err", err)
		c.router.Unicast(connID, EventRoomJoined, statusData{Status: StatusError})
		return
	}

	// Switching rooms implicitly leaves the previous one.
	if left != nil {
		c.router.Unicast(left.HostID, EventUserLeftRoom, memberChangeData{
			UserID:              connID,
			TotalConnectedUsers: left.Members,
		})
	}

	c.log.Info("room.joined", "room", roomID, "conn", connID, "members", len(snap.Members))
	c.router.Unicast(connID, EventRoomJoined, statusData{Status: StatusOK})
	c.router.Unicast(snap.HostID, EventUserJoinedRoom, memberChangeData{
		UserID:              connID,
		TotalConnectedUsers: snap.Members,
	})
	if snap.Position != nil {
		c.router.Unicast(connID, EventUpdateLocationResponse, positionData{Position: *snap.Position})
	}
}

// UpdateLocation records the host's position and broadcasts it to the
// room's members only. An update from a connection that hosts nothing is a
// protocol violation and is ignored without mutating any room.
func (c *Coordinator) UpdateLocation(connID string, pos Position) {
	snap, err := c.store.SetPosition(connID, pos)
	if err != nil {
		c.log.Debug("location.update.ignored", "conn", connID, "err", err)
		return
	}
	c.router.RoomCast(snap.Members, EventUpdateLocationResponse, positionData{Position: pos})
}

// Disconnect reacts to a connection going away. If it hosted a room, every
// other member is told the room is gone and the room vanishes atomically;
// the host is never reassigned. If it was viewing a room, the host learns
// it left. Anything else is a no-op.
func (c *Coordinator) Disconnect(connID string) {
	res := c.store.Disconnect(connID)

	if res.Left != nil {
		c.router.Unicast(res.Left.HostID, EventUserLeftRoom, memberChangeData{
			UserID:              connID,
			TotalConnectedUsers: res.Left.Members,
		})
	}
	if res.Destroyed != nil {
		metrics.RoomsActive.Dec()
		c.log.Info("room.destroyed", "room", res.Destroyed.RoomID, "host", connID)
		c.router.RoomCastExcept(res.Destroyed.Members, connID, EventRoomDestroyed, statusData{Status: StatusOK})
	}
}
