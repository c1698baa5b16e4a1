// Package cart keeps each buyer's server-side cart and the rules for adding to it.
package cart

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Item is one cart line. The JSON shape matches the client-local cart so a
// browser cart can be merged as-is.
type Item struct {
	PromptID string    `json:"promptId"`
	AddedAt  time.Time `json:"addedAt"`
}

// Store persists cart items per owner key.
type Store interface {
	// Add returns false when the prompt is already in the owner's cart. A zero
	// AddedAt is stamped with the current time.
	Add(ctx context.Context, owner string, it Item) (bool, error)
	// Remove is a no-op when the prompt is absent.
	Remove(ctx context.Context, owner, promptID string) error
	// List returns the owner's items, newest first.
	List(ctx context.Context, owner string) ([]Item, error)
	Clear(ctx context.Context, owner string) error
}

func sortNewestFirst(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].PromptID < items[j].PromptID
		}
		return items[i].AddedAt.After(items[j].AddedAt)
	})
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]map[string]time.Time
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]map[string]time.Time),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Add(ctx context.Context, owner string, it Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[owner]
	if !ok {
		c = make(map[string]time.Time)
		s.carts[owner] = c
	}
	if _, exists := c[it.PromptID]; exists {
		return false, nil
	}
	at := it.AddedAt.UTC()
	if it.AddedAt.IsZero() {
		at = s.now()
	}
	c[it.PromptID] = at
	return true, nil
}

func (s *MemoryStore) Remove(ctx context.Context, owner, promptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts[owner], promptID)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, owner string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, 0, len(s.carts[owner]))
	for id, at := range s.carts[owner] {
		items = append(items, Item{PromptID: id, AddedAt: at})
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *MemoryStore) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, owner)
	return nil
}

var _ Store = (*MemoryStore)(nil)
