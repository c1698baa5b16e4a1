package order

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemRepo keeps orders in process memory.
type MemRepo struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

func NewMemRepo() *MemRepo {
	return &MemRepo{orders: make(map[string]*Order)}
}

func cloneOrder(o *Order) Order {
	cp := *o
	cp.Lines = append([]Line{}, o.Lines...)
	return cp
}

func (r *MemRepo) Create(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	cp := cloneOrder(o)
	r.orders[o.ID] = &cp
	return nil
}

func (r *MemRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (r *MemRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out := []Order{}
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			cp := cloneOrder(o)
			cp.Lines = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []Order{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *MemRepo) Transition(ctx context.Context, id string, from, to Status, paymentKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != from {
		return ErrStaleStatus
	}
	o.Status = to
	if paymentKey != "" {
		o.PaymentKey = paymentKey
	}
	o.UpdatedAt = time.Now().UTC()
	return nil
}

var _ Repository = (*MemRepo)(nil)
