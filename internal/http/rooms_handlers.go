package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/manish-mehra/locshare/internal/session"
)

// RoomsAPI is a read-only probe over the live room table. The web client
// uses it to render its "room doesn't exist" page before opening a socket.
type RoomsAPI struct{ Store *session.Store }

type roomResponse struct {
	RoomID              string `json:"roomId"`
	TotalConnectedUsers int    `json:"totalConnectedUsers"`
}

// Get reports whether a room is live and how many members it has. There is
// deliberately no list endpoint: room ids act like capabilities and
// enumerating them would leak live sessions.
func (a *RoomsAPI) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	snap, ok := a.Store.Get(id)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	writeJSON(w, roomResponse{RoomID: snap.RoomID, TotalConnectedUsers: len(snap.Members)})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
