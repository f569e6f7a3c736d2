package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	m      map[string]BattleSession
	byUser map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: map[string]BattleSession{}, byUser: map[string]string{}}
}

func (s *MemoryStore) Get(_ context.Context, id string) (BattleSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[id]
	return v, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, v BattleSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[v.ID] = v
	s.byUser[v.UserID] = v.ID
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, id string, lastActivity, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	if !ok {
		return false, nil
	}
	v.LastActivity = lastActivity
	v.ExpiresAt = expiresAt
	s.m[id] = v
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[id]
	if !ok {
		return nil
	}
	delete(s.m, id)
	if s.byUser[v.UserID] == id {
		delete(s.byUser, v.UserID)
	}
	return nil
}

func (s *MemoryStore) ForUser(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUser[userID]
	return id, ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]BattleSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]BattleSession, 0, len(s.m))
	for _, v := range s.m {
		out = append(out, v)
	}
	return out, nil
}

func (s *MemoryStore) NewID() string {
	return uuid.NewString()
}
