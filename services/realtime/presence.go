package realtime

import "sync"

// PresenceRegistry tracks which users currently hold live connections.
// State is process-local and dies with the process; the durable
// notification store covers anything missed while offline.
type PresenceRegistry struct {
	mu    sync.RWMutex
	users map[string]map[string]struct{} // userID -> connection IDs
	conns map[string]string              // connection ID -> userID
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		users: make(map[string]map[string]struct{}),
		conns: make(map[string]string),
	}
}

// Connect binds a connection to a user. A user may hold any number of
// simultaneous connections.
func (p *PresenceRegistry) Connect(userID, connID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.users[userID] == nil {
		p.users[userID] = make(map[string]struct{})
	}
	p.users[userID][connID] = struct{}{}
	p.conns[connID] = userID
}

// Disconnect removes the connection via the reverse index. It returns
// the owning user (if the connection was authenticated) and whether this
// was the user's last connection.
func (p *PresenceRegistry) Disconnect(connID string) (userID string, wasLast bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	userID, ok := p.conns[connID]
	if !ok {
		return "", false
	}
	delete(p.conns, connID)
	if set := p.users[userID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(p.users, userID)
			return userID, true
		}
	}
	return userID, false
}

// UserFor resolves the authenticated user behind a connection.
func (p *PresenceRegistry) UserFor(connID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	userID, ok := p.conns[connID]
	return userID, ok
}

// IsOnline reports whether the user has at least one live connection.
func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users[userID]) > 0
}

// Connections returns the user's current connection IDs.
func (p *PresenceRegistry) Connections(userID string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.users[userID]))
	for id := range p.users[userID] {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of distinct users online.
func (p *PresenceRegistry) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.users)
}
