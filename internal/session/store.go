package session

import (
	"crypto/rand"
	"errors"
	"sync"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrAlreadyHosting = errors.New("connection already hosts a room")
	ErrNotHost        = errors.New("connection is not a room host")
)

// Room codes are short, lowercase, and URL-path friendly.
const roomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

const minRoomIDLen = 4

type room struct {
	id       string
	hostID   string
	members  []string // join order, host first
	position *Position
}

// Snapshot is an immutable view of a room taken under the store lock.
// Members is a copy; callers may hold it across sends.
type Snapshot struct {
	RoomID   string
	HostID   string
	Members  []string
	Position *Position
}

// Departure describes a room a connection just left, as seen after the
// removal.
type Departure struct {
	RoomID  string
	HostID  string
	Members []string
}

// DisconnectResult reports what a connection's disconnect did to the table:
// the room it hosted (now destroyed) and/or the room it was viewing.
type DisconnectResult struct {
	Destroyed *Snapshot
	Left      *Departure
}

// Store owns the table of live rooms. A room exists here if and only if its
// host connection is still live; destruction removes the whole record
// atomically. All operations are safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	idLen int

	rooms   map[string]*room
	hosting map[string]string // host conn id -> room id
	viewing map[string]string // viewer conn id -> room id
}

func NewStore(idLen int) *Store {
	if idLen < minRoomIDLen {
		idLen = minRoomIDLen
	}
	return &Store{
		idLen:   idLen,
		rooms:   map[string]*room{},
		hosting: map[string]string{},
		viewing: map[string]string{},
	}
}

// Create inserts a new room hosted by hostID with its initial position.
// Returns ErrAlreadyHosting if the connection already hosts a live room.
func (s *Store) Create(hostID string, pos Position) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.hosting[hostID]; ok {
		return Snapshot{}, ErrAlreadyHosting
	}

	// Re-roll on collision; never overwrite a live room.
	id := randomRoomID(s.idLen)
	for s.rooms[id] != nil {
		id = randomRoomID(s.idLen)
	}

	p := pos
	rm := &room{id: id, hostID: hostID, members: []string{hostID}, position: &p}
	s.rooms[id] = rm
	s.hosting[hostID] = id
	return snapshotOf(rm), nil
}

// Get returns a snapshot of a live room.
func (s *Store) Get(roomID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rm := s.rooms[roomID]
	if rm == nil {
		return Snapshot{}, false
	}
	return snapshotOf(rm), true
}

// AddMember joins connID to a live room. If the connection was viewing a
// different room it is removed from that room first; the non-nil Departure
// describes it. Hosts cannot join rooms as viewers.
func (s *Store) AddMember(roomID, connID string) (Snapshot, *Departure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm := s.rooms[roomID]
	if rm == nil {
		return Snapshot{}, nil, ErrRoomNotFound
	}
	if _, ok := s.hosting[connID]; ok {
		return Snapshot{}, nil, ErrAlreadyHosting
	}

	var left *Departure
	if prev, ok := s.viewing[connID]; ok && prev != roomID {
		left = s.removeViewer(prev, connID)
	}

	if !rm.hasMember(connID) {
		rm.members = append(rm.members, connID)
	}
	s.viewing[connID] = roomID
	return snapshotOf(rm), left, nil
}

// RemoveMember takes a viewer out of a room. Removing the host is refused:
// the only way a host leaves is room destruction.
func (s *Store) RemoveMember(roomID, connID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rm := s.rooms[roomID]
	if rm == nil {
		return Snapshot{}, ErrRoomNotFound
	}
	if connID != rm.hostID && s.viewing[connID] == roomID {
		s.removeViewer(roomID, connID)
	}
	return snapshotOf(rm), nil
}

// SetPosition records the host's latest position. Only a connection that
// currently hosts a room may update it.
func (s *Store) SetPosition(hostID string, pos Position) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.hosting[hostID]
	if !ok {
		return Snapshot{}, ErrNotHost
	}
	rm := s.rooms[id]
	p := pos
	rm.position = &p
	return snapshotOf(rm), nil
}

// Destroy removes a room and all of its membership bookkeeping in one step.
func (s *Store) Destroy(roomID string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroy(roomID)
}

// Disconnect handles a connection going away: tears down the room it hosted
// and/or removes it from the room it was viewing. Unknown connections are a
// no-op.
func (s *Store) Disconnect(connID string) DisconnectResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res DisconnectResult
	if id, ok := s.viewing[connID]; ok {
		res.Left = s.removeViewer(id, connID)
	}
	if id, ok := s.hosting[connID]; ok {
		if snap, ok := s.destroy(id); ok {
			res.Destroyed = &snap
		}
	}
	return res
}

// MembersOf returns the current member ids of a room.
func (s *Store) MembersOf(roomID string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rm := s.rooms[roomID]
	if rm == nil {
		return nil, false
	}
	return append([]string(nil), rm.members...), true
}

// Len reports the number of live rooms.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// destroy must be called with the lock held.
func (s *Store) destroy(roomID string) (Snapshot, bool) {
	rm := s.rooms[roomID]
	if rm == nil {
		return Snapshot{}, false
	}
	snap := snapshotOf(rm)
	for _, m := range rm.members {
		if s.viewing[m] == roomID {
			delete(s.viewing, m)
		}
	}
	delete(s.hosting, rm.hostID)
	delete(s.rooms, roomID)
	return snap, true
}

// removeViewer must be called with the lock held.
func (s *Store) removeViewer(roomID, connID string) *Departure {
	delete(s.viewing, connID)
	rm := s.rooms[roomID]
	if rm == nil {
		return nil
	}
	for i, m := range rm.members {
		if m == connID {
			rm.members = append(rm.members[:i], rm.members[i+1:]...)
			break
		}
	}
	return &Departure{
		RoomID:  rm.id,
		HostID:  rm.hostID,
		Members: append([]string(nil), rm.members...),
	}
}

func (r *room) hasMember(connID string) bool {
	for _, m := range r.members {
		if m == connID {
			return true
		}
	}
	return false
}

func snapshotOf(rm *room) Snapshot {
	snap := Snapshot{
		RoomID:  rm.id,
		HostID:  rm.hostID,
		Members: append([]string(nil), rm.members...),
	}
	if rm.position != nil {
		p := *rm.position
		snap.Position = &p
	}
	return snap
}

func randomRoomID(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = roomIDAlphabet[int(b[i])%len(roomIDAlphabet)]
	}
	return string(b)
}
