package storage

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/paperpharmacy/paperpharmacy/internal/session"
)

// ErrNotFound is returned for unknown session ids
var ErrNotFound = errors.New("session not found")

// SessionStore keeps session snapshots in memory. Snapshots are values and
// are replaced wholesale on every update.
type SessionStore struct {
	sessions map[string]session.State
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session.State),
	}
}

// Create starts a new session with a random id
func (s *SessionStore) Create() session.State {
	state := session.New(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state
	return state
}

func (s *SessionStore) Get(sessionID string) (session.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, exists := s.sessions[sessionID]
	return state, exists
}

func (s *SessionStore) Set(state session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state
}

// Update applies fn to the current snapshot under the write lock and stores
// the result unless fn fails.
func (s *SessionStore) Update(sessionID string, fn func(session.State) (session.State, error)) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.sessions[sessionID]
	if !exists {
		return session.State{}, ErrNotFound
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	next.ID = sessionID
	s.sessions[sessionID] = next
	return next, nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
