package usecase

import (
	"sync"
	"time"
)

// SessionStore holds live quiz sessions in memory, keyed by session id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*QuizSession
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*QuizSession),
		ttl:      ttl,
	}
}

func (s *SessionStore) Put(session *QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// With runs fn while holding the session's lock. Sessions owned by another user are reported as missing.
func (s *SessionStore) With(id, userID string, fn func(session *QuizSession) error) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok || session.UserID != userID {
		return ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()
	session.Touch()
	return fn(session)
}

func (s *SessionStore) Remove(id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok || session.UserID != userID {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep drops sessions idle for longer than the TTL and returns them. Busy sessions are left for the next sweep.
func (s *SessionStore) Sweep() []*QuizSession {
	if s.ttl <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*QuizSession
	for id, session := range s.sessions {
		if !session.TryLock() {
			continue
		}
		if session.IdleSince() > s.ttl {
			delete(s.sessions, id)
			expired = append(expired, session)
		}
		session.Unlock()
	}
	return expired
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
