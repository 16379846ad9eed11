package custody

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrAlreadyInitialized occurs when bootstrap runs against a deployment
	// that already exists.
	ErrAlreadyInitialized = errors.New("custody deployment already initialized")

	// ErrNotInitialized occurs when a mutating operation runs before bootstrap.
	ErrNotInitialized = errors.New("custody deployment not initialized")
)

// Store persists the singleton deployment record.
type Store interface {
	Create(ctx context.Context, deployment Deployment) error
	Get(ctx context.Context) (Deployment, error)
}

type memoryStore struct {
	mu         sync.RWMutex
	deployment Deployment
	exists     bool
}

// NewMemoryStore constructs an in-memory deployment store for tests and local
// development.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Create(_ context.Context, deployment Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exists {
		return ErrAlreadyInitialized
	}
	s.deployment = deployment
	s.exists = true
	return nil
}

func (s *memoryStore) Get(_ context.Context) (Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.exists {
		return Deployment{}, ErrNotInitialized
	}
	return s.deployment, nil
}
