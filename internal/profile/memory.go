package profile

import (
	"context"
	"sync"
	"time"
)

type MemRepo struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewMemRepo() *MemRepo {
	return &MemRepo{profiles: make(map[string]*Profile)}
}

func (r *MemRepo) Upsert(ctx context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if cur, ok := r.profiles[p.ClerkID]; ok {
		p.ID, p.CreatedAt = cur.ID, cur.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	r.profiles[p.ClerkID] = &cp
	return nil
}

func (r *MemRepo) GetByClerkID(ctx context.Context, clerkID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[clerkID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemRepo) Update(ctx context.Context, clerkID string, patch Patch) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[clerkID]
	if !ok {
		return nil, ErrNotFound
	}
	if patch.Email != "" {
		p.Email = patch.Email
	}
	if patch.Nickname != "" {
		p.Nickname = patch.Nickname
	}
	if patch.AvatarURL != "" {
		avatar := patch.AvatarURL
		p.AvatarURL = &avatar
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (r *MemRepo) Delete(ctx context.Context, clerkID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[clerkID]; !ok {
		return false, nil
	}
	delete(r.profiles, clerkID)
	return true, nil
}

var _ Repository = (*MemRepo)(nil)
