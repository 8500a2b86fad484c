package otp

import (
	"context"
	"sync"
)

// MemoryStore keeps challenges in a process-local map. Expired entries are
// not swept in the background; expiry is checked lazily at verify time, so
// the map only ever holds one entry per phone that has an outstanding code.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]Challenge
}

// NewMemoryStore builds an empty in-process challenge store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]Challenge)}
}

func (s *MemoryStore) Get(_ context.Context, phone string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[phone]
	if !ok {
		return nil, nil
	}
	copied := challenge
	return &copied, nil
}

func (s *MemoryStore) Put(_ context.Context, challenge *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.Phone] = *challenge
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, phone)
	return nil
}
