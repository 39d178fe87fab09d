package games

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("game session not found")

// Session binds a running engine to its player.
type Session struct {
	ID        string
	UserID    string
	Engine    Engine
	CreatedAt time.Time

	// Cancel stops any background loop the engine runs (scoopd). Always
	// non-nil; a no-op for purely reactive engines.
	Cancel func()
}

// Manager is the registry the HTTP layer drives engines through.
// Sessions are keyed by generated id and owned by exactly one user.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	newID    func() string
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Add registers a new session for an engine.
func (m *Manager) Add(userID string, engine Engine, cancel func()) *Session {
	if cancel == nil {
		cancel = func() {}
	}
	s := &Session{
		ID:        m.newID(),
		UserID:    userID,
		Engine:    engine,
		CreatedAt: m.now(),
		Cancel:    cancel,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session if it exists and belongs to the user.
func (m *Manager) Get(id, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session and cancels its background work. Idempotent.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Cancel()
	}
}

// Reap drops every completed session. Callers run it after reading a
// final state so finished games do not accumulate.
func (m *Manager) Reap() {
	m.mu.Lock()
	var done []*Session
	for id, s := range m.sessions {
		if s.Engine.Complete() {
			done = append(done, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range done {
		s.Cancel()
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close cancels and drops everything.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		s.Cancel()
	}
}
