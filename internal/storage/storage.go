package storage

import (
	"errors"
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// SessionStore keeps live estimator sessions in memory. Sessions are not
// safe for concurrent use, so every access goes through View or Update.
type SessionStore struct {
	sessions map[string]*estimator.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*estimator.Session),
	}
}

func (s *SessionStore) Add(session *estimator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// View runs fn with read access to a session.
func (s *SessionStore) View(sessionID string, fn func(*estimator.Session) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return ErrNotFound
	}
	return fn(session)
}

// Update runs fn with exclusive access to a session.
func (s *SessionStore) Update(sessionID string, fn func(*estimator.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return ErrNotFound
	}
	return fn(session)
}

// Each runs fn for every session, oldest first, under a read lock.
func (s *SessionStore) Each(fn func(*estimator.Session)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*estimator.Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	for _, session := range list {
		fn(session)
	}
}

func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return exists
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
