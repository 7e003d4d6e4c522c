package collection

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// janitorInterval is how often idle sessions are swept.
const janitorInterval = time.Minute

// Manager hands out one Collection per authenticated user and evicts
// sessions that have been idle longer than the configured TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	ttl      time.Duration

	now func() time.Time
}

type session struct {
	collection *Collection
	lastSeen   time.Time
}

// NewManager creates a session manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Manager{
		sessions: make(map[uuid.UUID]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the user's collection, creating it on first access.
// Every access refreshes the session's idle timer.
func (m *Manager) Get(userID uuid.UUID) *Collection {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = &session{collection: New()}
		m.sessions[userID] = s
	}
	s.lastSeen = m.now()
	return s.collection
}

// Drop discards the user's session, forcing a fresh load on next access.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until the context is cancelled. Intended to
// be started once from the composition root.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	for userID, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, userID)
		}
	}
}
