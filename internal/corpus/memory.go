package corpus

import (
	"context"
	"sync"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// MemoryStore keeps claims in process memory
type MemoryStore struct {
	claims []model.Claim
	closed bool
	mu     sync.Mutex
}

// NewMemoryStore creates an empty memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds a claim to the end of the history
func (s *MemoryStore) Append(ctx context.Context, claim model.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	s.claims = append(s.claims, claim)
	return nil
}

// List returns a copy of every claim in insertion order
func (s *MemoryStore) List(ctx context.Context) ([]model.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	out := make([]model.Claim, len(s.claims))
	copy(out, s.claims)
	return out, nil
}

// Close marks the store closed
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
