package session

// Sender delivers one encoded frame to one connection. Delivery to an id
// with no live channel returns false; callers treat that as a benign
// disconnect race, never an error.
type Sender interface {
	Send(connID string, frame []byte) bool
}

// Router fans events out to connections. All modes are fire-and-forget: no
// acknowledgement, no retry. A host-cast is a unicast to the room's
// Snapshot.HostID.
type Router struct {
	sender Sender
}

func NewRouter(sender Sender) *Router {
	return &Router{sender: sender}
}

// Unicast sends one event to one connection.
func (r *Router) Unicast(connID, event string, data any) {
	r.sender.Send(connID, encodeEvent(event, data))
}

// RoomCast sends one event to every member in the snapshot list. The frame
// is encoded once; members who disconnect between snapshot and delivery
// simply miss it.
func (r *Router) RoomCast(members []string, event string, data any) {
	frame := encodeEvent(event, data)
	for _, m := range members {
		r.sender.Send(m, frame)
	}
}

// RoomCastExcept is RoomCast minus one connection.
func (r *Router) RoomCastExcept(members []string, except, event string, data any) {
	frame := encodeEvent(event, data)
	for _, m := range members {
		if m == except {
			continue
		}
		r.sender.Send(m, frame)
	}
}
