package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

// Ownership reports whether a buyer may read a prompt's body.
type Ownership interface {
	HasPurchased(ctx context.Context, buyerID, promptID string) (bool, error)
}

// Service holds the catalog rules shared by the public and admin endpoints.
type Service struct {
	repo   Repository
	owners Ownership
}

func NewService(repo Repository, owners Ownership) *Service {
	return &Service{repo: repo, owners: owners}
}

// Browse lists active prompts without their bodies.
func (s *Service) Browse(ctx context.Context, q Query) ([]Prompt, error) {
	q.ActiveOnly = true
	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Persistence("failed to list prompts", err)
	}
	for i := range items {
		items[i] = items[i].Public()
	}
	return items, nil
}

// View returns one active prompt. The body is included only when viewerID
// has purchased it; a purchased prompt stays viewable after deactivation.
func (s *Service) View(ctx context.Context, id, viewerID string) (*Prompt, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("prompt not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load prompt", err)
	}

	owned := false
	if viewerID != "" {
		owned, err = s.owners.HasPurchased(ctx, viewerID, id)
		if err != nil {
			return nil, apperr.Persistence("failed to check purchases", err)
		}
	}
	if !p.IsActive && !owned {
		return nil, apperr.NotFound("prompt not found")
	}
	if !owned {
		pub := p.Public()
		return &pub, nil
	}
	return p, nil
}

// AdminList lists every prompt, inactive ones included, with bodies.
func (s *Service) AdminList(ctx context.Context, q Query) ([]Prompt, error) {
	q.ActiveOnly = false
	items, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, apperr.Persistence("failed to list prompts", err)
	}
	return items, nil
}

func (s *Service) AdminGet(ctx context.Context, id string) (*Prompt, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("prompt not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load prompt", err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req CreatePromptRequest) (*Prompt, error) {
	var fields []apperr.FieldError
	if strings.TrimSpace(req.Title) == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(req.Description) == "" {
		fields = append(fields, apperr.FieldError{Field: "description", Message: "required"})
	}
	if req.Price == nil {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "required"})
	} else if *req.Price < 0 {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "must be >= 0"})
	}
	if strings.TrimSpace(req.PromptText) == "" {
		fields = append(fields, apperr.FieldError{Field: "prompt_text", Message: "required"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("missing required fields", fields...)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}
	images := req.ImageURLs
	if images == nil {
		images = []string{}
	}
	p := &Prompt{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        *req.Price,
		PromptText:   req.PromptText,
		Category:     category,
		ThumbnailURL: req.ThumbnailURL,
		ImageURLs:    images,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Persistence("failed to create prompt", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdatePromptRequest) (*Prompt, error) {
	if patch.Empty() {
		return nil, apperr.Validation("no fields to update")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, apperr.Validation("invalid price", apperr.FieldError{Field: "price", Message: "must be >= 0"})
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperr.Validation("invalid title", apperr.FieldError{Field: "title", Message: "must not be empty"})
	}
	p, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("prompt not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to update prompt", err)
	}
	return p, nil
}

// Deactivate soft-deletes a prompt; existing purchases keep access.
func (s *Service) Deactivate(ctx context.Context, id string) (*Prompt, error) {
	p, err := s.repo.Deactivate(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("prompt not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to delete prompt", err)
	}
	return p, nil
}

// FindByIDs exposes catalog resolution to the cart, order and purchase packages.
func (s *Service) FindByIDs(ctx context.Context, ids []string, activeOnly bool) ([]Prompt, error) {
	return s.repo.FindByIDs(ctx, ids, activeOnly)
}
