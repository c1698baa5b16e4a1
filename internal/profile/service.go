package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/MikeMC777/prompt-store/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, clerkID string) (*Profile, error) {
	if clerkID == "" {
		return nil, apperr.Unauthorized("")
	}
	p, err := s.repo.GetByClerkID(ctx, clerkID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("profile not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load profile", err)
	}
	return p, nil
}

// Update edits the caller's nickname and avatar. Email follows the identity provider.
func (s *Service) Update(ctx context.Context, clerkID string, req UpdateProfileRequest) (*Profile, error) {
	if clerkID == "" {
		return nil, apperr.Unauthorized("")
	}
	patch := Patch{Nickname: strings.TrimSpace(req.Nickname), AvatarURL: strings.TrimSpace(req.AvatarURL)}
	if patch.Nickname == "" && patch.AvatarURL == "" {
		return nil, apperr.Validation("no fields to update")
	}
	if len(patch.Nickname) > 50 {
		return nil, apperr.Validation("nickname too long",
			apperr.FieldError{Field: "nickname", Message: "at most 50 characters"})
	}
	p, err := s.repo.Update(ctx, clerkID, patch)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("profile not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to update profile", err)
	}
	return p, nil
}
