package session

import "encoding/json"

// Position is a geographic coordinate reported by a room's host.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Envelope is the wire frame for every inbound and outbound event:
// {"event": "...", "data": {...}}
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Inbound event names.
const (
	EventCreateRoom     = "createRoom"
	EventJoinRoom       = "joinRoom"
	EventUpdateLocation = "updateLocation"
)

// Outbound event names.
const (
	EventRoomCreated            = "roomCreated"
	EventCreateRoomResponse     = "createRoomResponse"
	EventRoomJoined             = "roomJoined"
	EventUserJoinedRoom         = "userJoinedRoom"
	EventUserLeftRoom           = "userLeftRoom"
	EventUpdateLocationResponse = "updateLocationResponse"
	EventRoomDestroyed          = "roomDestroyed"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

type createRoomData struct {
	Position Position `json:"position"`
}

type joinRoomData struct {
	RoomID string `json:"roomId"`
}

type updateLocationData struct {
	Position Position `json:"position"`
}

type roomCreatedData struct {
	RoomID              string   `json:"roomId"`
	Position            Position `json:"position"`
	TotalConnectedUsers []string `json:"totalConnectedUsers"`
}

type statusData struct {
	Status string `json:"status"`
}

type memberChangeData struct {
	UserID              string   `json:"userId"`
	TotalConnectedUsers []string `json:"totalConnectedUsers"`
}

type positionData struct {
	Position Position `json:"position"`
}

// encodeEvent marshals an event envelope. Payloads are fixed structs, so
// marshalling cannot fail.
func encodeEvent(event string, data any) []byte {
	raw, _ := json.Marshal(data)
	b, _ := json.Marshal(Envelope{Event: event, Data: raw})
	return b
}
