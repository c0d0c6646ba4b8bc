package realtime

import "sync"

// AdminRoom is the fixed broadcast scope for privileged connections.
const AdminRoom = "admin"

// UserRoom names a user's personal notification room.
func UserRoom(userID string) string {
	return "user:" + userID
}

// AppointmentRoom names the status-update room for one appointment.
func AppointmentRoom(appointmentID string) string {
	return "appointment:" + appointmentID
}

// RoomRouter maps connections onto broadcast scopes. Membership mirrors
// the presence lifecycle: LeaveAll runs on disconnect so a dead
// connection is never a push target.
type RoomRouter struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{} // room -> connection IDs
	conns map[string]map[string]struct{} // connection ID -> rooms
}

func NewRoomRouter() *RoomRouter {
	return &RoomRouter{
		rooms: make(map[string]map[string]struct{}),
		conns: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to a room.
func (r *RoomRouter) Join(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rooms[room] == nil {
		r.rooms[room] = make(map[string]struct{})
	}
	r.rooms[room][connID] = struct{}{}
	if r.conns[connID] == nil {
		r.conns[connID] = make(map[string]struct{})
	}
	r.conns[connID][room] = struct{}{}
}

// Leave removes the connection from a room.
func (r *RoomRouter) Leave(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(connID, room)
}

// LeaveAll removes the connection from every room it joined.
func (r *RoomRouter) LeaveAll(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for room := range r.conns[connID] {
		r.leaveLocked(connID, room)
	}
}

func (r *RoomRouter) leaveLocked(connID, room string) {
	if set := r.rooms[room]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.rooms, room)
		}
	}
	if set := r.conns[connID]; set != nil {
		delete(set, room)
		if len(set) == 0 {
			delete(r.conns, connID)
		}
	}
}

// Members returns the connection IDs currently in a room.
func (r *RoomRouter) Members(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.rooms[room]))
	for id := range r.rooms[room] {
		ids = append(ids, id)
	}
	return ids
}
