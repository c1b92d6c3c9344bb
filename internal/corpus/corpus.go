// Package corpus holds the append-only history of evaluated claims.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// ErrStoreClosed is returned by stores used after Close
var ErrStoreClosed = errors.New("claim store is closed")

// Store persists claims in insertion order
type Store interface {
	// Append adds a claim to the end of the history
	Append(ctx context.Context, claim model.Claim) error

	// List returns every stored claim in insertion order
	List(ctx context.Context) ([]model.Claim, error)

	// Close releases any held resources
	Close() error
}

// Corpus serializes access to a Store. Readers get a snapshot copy, and
// appends are applied one at a time.
type Corpus struct {
	store Store
	mu    sync.RWMutex
}

// New wraps store in a Corpus
func New(store Store) *Corpus {
	return &Corpus{store: store}
}

// NewInMemory returns a Corpus backed by a MemoryStore
func NewInMemory() *Corpus {
	return New(NewMemoryStore())
}

// Snapshot returns the history as it stands now. Appends that happen after
// Snapshot returns are not visible in the returned slice.
func (c *Corpus) Snapshot(ctx context.Context) ([]model.Claim, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	claims, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}

// Append adds an evaluated claim to the history
func (c *Corpus) Append(ctx context.Context, claim model.Claim) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Append(ctx, claim); err != nil {
		return fmt.Errorf("append claim %s: %w", claim.ID, err)
	}
	return nil
}

// Close closes the underlying store
func (c *Corpus) Close() error {
	return c.store.Close()
}
