package prompt

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemRepo is an in-process Repository used for local development and tests.
type MemRepo struct {
	mu    sync.RWMutex
	items map[string]*Prompt
	now   func() time.Time
}

func NewMemRepo() *MemRepo {
	return &MemRepo{items: make(map[string]*Prompt), now: time.Now}
}

func clonePrompt(p *Prompt) Prompt {
	cp := *p
	cp.ImageURLs = append([]string{}, p.ImageURLs...)
	return cp
}

func (r *MemRepo) Create(ctx context.Context, p *Prompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	cp := clonePrompt(p)
	r.items[p.ID] = &cp
	return nil
}

func (r *MemRepo) GetByID(ctx context.Context, id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clonePrompt(p)
	return &cp, nil
}

func (r *MemRepo) List(ctx context.Context, q Query) ([]Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q = q.Normalize()
	needle := strings.ToLower(q.Q)
	out := []Prompt{}
	for _, p := range r.items {
		if q.ActiveOnly && !p.IsActive {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, clonePrompt(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if q.Offset >= len(out) {
		return []Prompt{}, nil
	}
	end := q.Offset + q.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[q.Offset:end], nil
}

func (r *MemRepo) Update(ctx context.Context, id string, patch UpdatePromptRequest) (*Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(p)
	p.UpdatedAt = r.now().UTC()
	cp := clonePrompt(p)
	return &cp, nil
}

func (r *MemRepo) Deactivate(ctx context.Context, id string) (*Prompt, error) {
	active := false
	return r.Update(ctx, id, UpdatePromptRequest{IsActive: &active})
}

func (r *MemRepo) FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(ids))
	out := []Prompt{}
	for _, id := range ids {
		p, ok := r.items[id]
		if !ok || seen[id] || (activeOnly && !p.IsActive) {
			continue
		}
		seen[id] = true
		out = append(out, clonePrompt(p))
	}
	return out, nil
}

var _ Repository = (*MemRepo)(nil)
