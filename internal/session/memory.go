package session

import (
	"context"
	"sync"
)

// MemoryStore is the process-local session backend. A restart abandons all
// open dialogues, which is acceptable for this bot.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (s *MemoryStore) Get(_ context.Context, ownerID int64) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[ownerID]
	if !ok {
		return newIdle(ownerID), nil
	}
	return clone(sess), nil
}

func (s *MemoryStore) SetState(_ context.Context, ownerID int64, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[ownerID]
	if !ok {
		sess = newIdle(ownerID)
	}
	sess.State = state
	s.sessions[ownerID] = sess
	return nil
}

func (s *MemoryStore) SetField(_ context.Context, ownerID int64, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[ownerID]
	if !ok {
		sess = newIdle(ownerID)
	}
	if sess.Scratch == nil {
		sess.Scratch = make(map[string]string)
	}
	sess.Scratch[key] = value
	s.sessions[ownerID] = sess
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[ownerID] = newIdle(ownerID)
	return nil
}

// clone copies the scratch map so callers cannot mutate stored state.
func clone(sess Session) Session {
	if sess.Scratch == nil {
		return sess
	}
	scratch := make(map[string]string, len(sess.Scratch))
	for k, v := range sess.Scratch {
		scratch[k] = v
	}
	sess.Scratch = scratch
	return sess
}
