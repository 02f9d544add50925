package services

import (
	"sort"
	"sync"
)

// PresenceRegistry tracks which users currently hold at least one open
// realtime connection. Connections are counted per user so a second tab
// does not flap presence. Process-lifetime only; restarts start empty.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[uint]int
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		conns: make(map[uint]int),
	}
}

// Add records a connection for the user and reports whether the user
// just came online (first connection).
func (p *PresenceRegistry) Add(userID uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conns[userID]++
	return p.conns[userID] == 1
}

// Remove drops a connection for the user and reports whether the user
// went offline (last connection closed).
func (p *PresenceRegistry) Remove(userID uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, ok := p.conns[userID]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(p.conns, userID)
		return true
	}
	p.conns[userID] = n - 1
	return false
}

// Snapshot returns the online user ids in ascending order.
func (p *PresenceRegistry) Snapshot() []uint {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]uint, 0, len(p.conns))
	for id := range p.conns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Contains reports whether the user has at least one open connection.
func (p *PresenceRegistry) Contains(userID uint) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.conns[userID] > 0
}

// Count returns the number of distinct online users.
func (p *PresenceRegistry) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.conns)
}
