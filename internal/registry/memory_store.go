package registry

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	ordered []string
	members map[string]struct{}
}

// NewMemoryStore constructs an in-memory whitelist store. Membership is kept
// in insertion order and removal preserves the order of remaining entries.
func NewMemoryStore() Store {
	return &memoryStore{members: make(map[string]struct{})}
}

func (s *memoryStore) Add(_ context.Context, addresses []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching state.
	seen := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		if _, exists := s.members[addr]; exists {
			return ErrAlreadyWhitelisted
		}
		if _, dup := seen[addr]; dup {
			return ErrAlreadyWhitelisted
		}
		seen[addr] = struct{}{}
	}

	for _, addr := range addresses {
		s.members[addr] = struct{}{}
		s.ordered = append(s.ordered, addr)
	}
	return nil
}

func (s *memoryStore) Remove(_ context.Context, addresses []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		if _, exists := s.members[addr]; !exists {
			return ErrNotWhitelisted
		}
		if _, dup := seen[addr]; dup {
			return ErrNotWhitelisted
		}
		seen[addr] = struct{}{}
	}

	for _, addr := range addresses {
		delete(s.members, addr)
	}
	remaining := s.ordered[:0]
	for _, addr := range s.ordered {
		if _, gone := seen[addr]; !gone {
			remaining = append(remaining, addr)
		}
	}
	s.ordered = remaining
	return nil
}

func (s *memoryStore) Contains(_ context.Context, address string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[address]
	return ok, nil
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}
