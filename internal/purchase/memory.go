package purchase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/prompt-store/internal/prompt"
)

// MemRepo keeps purchases in memory; listings join against catalog.
type MemRepo struct {
	mu      sync.RWMutex
	rows    []Purchase
	keys    map[string]bool
	catalog Catalog
}

func NewMemRepo(catalog Catalog) *MemRepo {
	return &MemRepo{keys: make(map[string]bool), catalog: catalog}
}

func uniqueKey(p Purchase) string {
	return p.BuyerID + "\x00" + p.PromptID + "\x00" + p.PaymentOrderID
}

func (r *MemRepo) Record(ctx context.Context, rows []Purchase) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	inserted := 0
	for _, p := range rows {
		k := uniqueKey(p)
		if r.keys[k] {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
		r.keys[k] = true
		r.rows = append(r.rows, p)
		inserted++
	}
	return inserted, nil
}

func (r *MemRepo) HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.rows {
		if p.BuyerID == buyerID && p.PromptID == promptID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]Entry, error) {
	r.mu.RLock()
	mine := []Purchase{}
	for _, p := range r.rows {
		if p.BuyerID == buyerID {
			mine = append(mine, p)
		}
	}
	r.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if offset >= len(mine) {
		return []Entry{}, nil
	}
	end := offset + limit
	if end > len(mine) {
		end = len(mine)
	}
	mine = mine[offset:end]

	ids := make([]string, len(mine))
	for i, p := range mine {
		ids[i] = p.PromptID
	}
	byID := map[string]prompt.Prompt{}
	if r.catalog != nil {
		found, err := r.catalog.FindByIDs(ctx, ids, false)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			byID[p.ID] = p
		}
	}

	out := make([]Entry, 0, len(mine))
	for _, p := range mine {
		e := Entry{Purchase: p}
		if pr, ok := byID[p.PromptID]; ok {
			sum := pr.Summary()
			e.Prompt = &sum
		}
		out = append(out, e)
	}
	return out, nil
}

var _ Repository = (*MemRepo)(nil)
