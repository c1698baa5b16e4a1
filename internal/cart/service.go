package cart

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/MikeMC777/prompt-store/internal/apperr"
	"github.com/MikeMC777/prompt-store/internal/prompt"
)

const (
	CodeAlreadyInCart    = "ALREADY_IN_CART"
	CodeAlreadyPurchased = "ALREADY_PURCHASED"
)

type Catalog interface {
	FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]prompt.Prompt, error)
}

// Entitlements answers whether a buyer already owns a prompt.
type Entitlements interface {
	HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error)
}

// Entry is a cart item joined with its catalog summary. Prompt is nil when the
// prompt was removed from the catalog; Available is false when it is inactive.
type Entry struct {
	PromptID  string          `json:"promptId"`
	AddedAt   time.Time       `json:"addedAt"`
	Prompt    *prompt.Summary `json:"prompt"`
	Available bool            `json:"available"`
}

// View is the enriched cart returned to clients.
type View struct {
	Items []Entry `json:"items"`
	Count int     `json:"count"`
	// Total sums the prices of available items.
	Total int64 `json:"total"`
}

// PromptIDs returns the ids of available items in cart order.
func (v View) PromptIDs() []string {
	ids := make([]string, 0, len(v.Items))
	for _, e := range v.Items {
		if e.Available {
			ids = append(ids, e.PromptID)
		}
	}
	return ids
}

type MergeResult struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

type Service struct {
	store     Store
	catalog   Catalog
	purchases Entitlements
}

func NewService(store Store, catalog Catalog, purchases Entitlements) *Service {
	return &Service{store: store, catalog: catalog, purchases: purchases}
}

// Add puts an active, not yet purchased prompt into owner's cart.
func (s *Service) Add(ctx context.Context, owner, promptID string) error {
	return s.add(ctx, owner, Item{PromptID: promptID})
}

// add keeps it.AddedAt unless it is zero or in the future.
func (s *Service) add(ctx context.Context, owner string, it Item) error {
	promptID := strings.TrimSpace(it.PromptID)
	if owner == "" {
		return apperr.Unauthorized("")
	}
	if promptID == "" {
		return apperr.Validation("promptId is required",
			apperr.FieldError{Field: "promptId", Message: "required"})
	}

	found, err := s.catalog.FindByIDs(ctx, []string{promptID}, true)
	if err != nil {
		return apperr.Persistence("failed to load prompt", err)
	}
	if len(found) == 0 {
		return apperr.NotFound("prompt not found")
	}

	owned, err := s.purchases.HasPurchased(ctx, owner, promptID)
	if err != nil {
		return apperr.Persistence("failed to check purchases", err)
	}
	if owned {
		return apperr.Conflict(CodeAlreadyPurchased, "prompt already purchased")
	}

	at := it.AddedAt
	if at.After(time.Now()) {
		at = time.Time{}
	}
	added, err := s.store.Add(ctx, owner, Item{PromptID: promptID, AddedAt: at})
	if err != nil {
		return apperr.Persistence("failed to add to cart", err)
	}
	if !added {
		return apperr.Conflict(CodeAlreadyInCart, "prompt already in cart")
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, owner, promptID string) error {
	promptID = strings.TrimSpace(promptID)
	if promptID == "" {
		return apperr.Validation("promptId is required",
			apperr.FieldError{Field: "promptId", Message: "required"})
	}
	if err := s.store.Remove(ctx, owner, promptID); err != nil {
		return apperr.Persistence("failed to remove from cart", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	if err := s.store.Clear(ctx, owner); err != nil {
		return apperr.Persistence("failed to clear cart", err)
	}
	return nil
}

// List returns owner's cart joined with the catalog, including deactivated prompts.
func (s *Service) List(ctx context.Context, owner string) (View, error) {
	items, err := s.store.List(ctx, owner)
	if err != nil {
		return View{}, apperr.Persistence("failed to load cart", err)
	}
	view := View{Items: []Entry{}}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.PromptID
	}
	found, err := s.catalog.FindByIDs(ctx, ids, false)
	if err != nil {
		return View{}, apperr.Persistence("failed to load prompts", err)
	}
	byID := make(map[string]prompt.Prompt, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	for _, it := range items {
		e := Entry{PromptID: it.PromptID, AddedAt: it.AddedAt}
		if p, ok := byID[it.PromptID]; ok {
			sum := p.Summary()
			e.Prompt = &sum
			e.Available = p.IsActive
			if p.IsActive {
				view.Total += p.Price
			}
		}
		view.Items = append(view.Items, e)
	}
	view.Count = len(view.Items)
	return view, nil
}

// Merge imports a client-local cart after sign-in, keeping each item's addedAt.
// Purchased, inactive, unknown and duplicate ids are skipped rather than
// failing the whole merge.
func (s *Service) Merge(ctx context.Context, owner string, items []Item) (MergeResult, error) {
	res := MergeResult{Added: []string{}, Skipped: []string{}}
	if owner == "" {
		return res, apperr.Unauthorized("")
	}
	for _, it := range items {
		err := s.add(ctx, owner, it)
		switch {
		case err == nil:
			res.Added = append(res.Added, it.PromptID)
		case apperr.IsKind(err, apperr.KindConflict),
			apperr.IsKind(err, apperr.KindNotFound),
			apperr.IsKind(err, apperr.KindValidation):
			res.Skipped = append(res.Skipped, it.PromptID)
		default:
			return res, err
		}
	}
	log.Printf("[cart] merge owner=%s added=%d skipped=%d", owner, len(res.Added), len(res.Skipped))
	return res, nil
}
