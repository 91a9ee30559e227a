package user

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryStore is a Finder over a fixed set of users, for tests and local runs.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[bson.ObjectID]User
}

func NewMemoryStore(users ...User) *MemoryStore {
	s := &MemoryStore{users: make(map[bson.ObjectID]User, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

// Add inserts or replaces u.
func (s *MemoryStore) Add(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *MemoryStore) FindByID(_ context.Context, id bson.ObjectID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
