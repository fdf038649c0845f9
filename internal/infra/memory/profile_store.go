package memory

import (
	"context"
	"sync"
)

// ProfileStore keeps player names in process memory.
type ProfileStore struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{names: make(map[string]string)}
}

func (s *ProfileStore) PlayerName(_ context.Context, profileID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.names[profileID], nil
}

func (s *ProfileStore) SetPlayerName(_ context.Context, profileID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names[profileID] = name
	return nil
}
