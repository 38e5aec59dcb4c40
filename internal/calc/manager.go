package calc

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")
	// ErrManagerClosed is returned once the manager has been shut down.
	ErrManagerClosed = errors.New("session manager closed")
)

const defaultSessionTTL = 30 * time.Minute

type sessionEntry struct {
	mu       sync.Mutex
	session  *Session
	lastUsed time.Time
}

// Manager owns the calculator sessions of the running process.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
	closed   bool
}

// NewManager creates a manager whose sessions expire after ttl of
// inactivity. A non-positive ttl selects the default of 30 minutes.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Manager{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the idle expiry applied to sessions.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create registers a fresh session and returns its initial state.
func (m *Manager) Create() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return State{}, ErrManagerClosed
	}
	m.sweepLocked()

	id := uuid.NewString()
	s := NewSession(id)
	m.sessions[id] = &sessionEntry{session: s, lastUsed: m.now()}
	return s.State(), nil
}

// With runs fn with exclusive access to the session.
func (m *Manager) With(id string, fn func(*Session) error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrManagerClosed
	}
	m.sweepLocked()
	entry, ok := m.sessions[id]
	if ok {
		entry.lastUsed = m.now()
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

// Snapshot returns the current state of a session.
func (m *Manager) Snapshot(id string) (State, error) {
	var st State
	err := m.With(id, func(s *Session) error {
		st = s.State()
		return nil
	})
	return st, err
}

// Delete discards a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	return len(m.sessions)
}

// Close drops every session and rejects further use.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.sessions = make(map[string]*sessionEntry)
}

func (m *Manager) sweepLocked() {
	cutoff := m.now().Add(-m.ttl)
	for id, entry := range m.sessions {
		if entry.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
