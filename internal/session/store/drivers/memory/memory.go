// Package memory is an in-memory session store used by tests and as a
// non-durable fallback. It mirrors the Sessions contract of the durable
// drivers, including complete-record semantics under concurrency.
package memory

import (
	"context"
	"sync"

	"github.com/ksef-tools/ksefauth/internal/session/domain"
	"github.com/ksef-tools/ksefauth/internal/session/store"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]domain.Session),
	}
}

func (s *Store) Sessions() store.Sessions       { return s }
func (s *Store) Close() error                   { return nil }
func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Get(ctx context.Context, principalID string) (domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[principalID]
	if !ok {
		return domain.Session{}, store.ErrNotFound
	}
	return session, nil
}

func (s *Store) Put(ctx context.Context, principalID string, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[principalID] = session
	return nil
}

func (s *Store) All(ctx context.Context) (map[string]domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.Session, len(s.sessions))
	for id, session := range s.sessions {
		out[id] = session
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, principalID)
	return nil
}
