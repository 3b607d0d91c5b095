package http

import (
	"errors"
	"sync"

	"github.com/Chanakya-ux/KGPT-client/internal/chat"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps chat sessions in memory.
// TODO: evict sessions idle for longer than a configurable TTL.
type SessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*chat.Session
	newSession func() *chat.Session
}

// NewSessionStore creates a store that builds sessions with newSession.
func NewSessionStore(newSession func() *chat.Session) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*chat.Session),
		newSession: newSession,
	}
}

func (s *SessionStore) Create() *chat.Session {
	session := s.newSession()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = session
	return session
}

func (s *SessionStore) Get(id string) (*chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
