package credstore

import (
	"context"
	"sync"

	"github.com/kypgh/fitbook-client/internal/domain"
)

// Memory is an in-process credential store, used in tests and for
// embedders that manage persistence themselves
type Memory struct {
	mu   sync.RWMutex
	pair *domain.TokenPair
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the stored pair, or ErrNotFound when absent
func (m *Memory) Load(ctx context.Context) (*domain.TokenPair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pair == nil {
		return nil, ErrNotFound
	}
	copied := *m.pair
	return &copied, nil
}

// Save persists the pair, overwriting any existing one
func (m *Memory) Save(ctx context.Context, pair *domain.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *pair
	m.pair = &copied
	return nil
}

// Delete removes the stored pair
func (m *Memory) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pair = nil
	return nil
}
